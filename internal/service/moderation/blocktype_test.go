package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natichat/natichat/internal/model/chat"
)

func TestResolveBlockType(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    chat.BlockType
	}{
		{"rate limit", "Rate limit exceeded. Please retry later.", chat.BlockRateLimit},
		{"too many requests", "HTTP 429: Too Many Requests", chat.BlockRateLimit},
		{"sensitive data", "Sensitive data detected in request", chat.BlockSensitiveData},
		{"email", "Request contains an email address", chat.BlockSensitiveData},
		{"iban", "IBAN detected by policy", chat.BlockSensitiveData},
		{"financial blocked", "Financial content blocked by policy", chat.BlockFinancialContent},
		{"time blocked", "Requests are blocked during this time window", chat.BlockTimeBlocked},
		{"403", "Error code: 403", chat.BlockPolicyViolation},
		{"forbidden", "Forbidden by upstream", chat.BlockPolicyViolation},
		{"unknown", "connection reset by peer", chat.BlockUnknown},
		{"empty", "", chat.BlockUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveBlockType(tc.message))
		})
	}
}

func TestResolveBlockTypeFirstMatchWins(t *testing.T) {
	// Priority order is total: rate limit outranks the 403 rule.
	got := ResolveBlockType("403 Forbidden: rate limit exceeded")

	assert.Equal(t, chat.BlockRateLimit, got)
}

func TestResolveBlockTypeCaseFolds(t *testing.T) {
	assert.Equal(t, chat.BlockRateLimit, ResolveBlockType("RATE LIMIT EXCEEDED"))
}

func TestResolveBlockTypeFinancialNeedsBlocked(t *testing.T) {
	// "financial" alone is not enough; the proxy's block wording is required.
	assert.Equal(t, chat.BlockUnknown, ResolveBlockType("financial news summary"))
}

func TestBlockTypeExplanations(t *testing.T) {
	for _, b := range []chat.BlockType{
		chat.BlockRateLimit,
		chat.BlockSensitiveData,
		chat.BlockFinancialContent,
		chat.BlockTimeBlocked,
		chat.BlockPolicyViolation,
		chat.BlockUnknown,
	} {
		assert.NotEmpty(t, b.Explanation())
	}
}
