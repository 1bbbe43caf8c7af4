package moderation

import (
	"strings"

	"github.com/natichat/natichat/internal/model/chat"
)

// ResolveBlockType maps a classified error message to a block category.
// Matching is case-insensitive and first match wins, so an error mentioning
// both a rate limit and a 403 resolves to rate_limit.
func ResolveBlockType(message string) chat.BlockType {
	s := strings.ToLower(message)

	switch {
	case strings.Contains(s, "rate limit") || strings.Contains(s, "too many requests"):
		return chat.BlockRateLimit
	case strings.Contains(s, "sensitive data") || strings.Contains(s, "email") || strings.Contains(s, "iban"):
		return chat.BlockSensitiveData
	case strings.Contains(s, "financial") && strings.Contains(s, "blocked"):
		return chat.BlockFinancialContent
	case strings.Contains(s, "time") && strings.Contains(s, "blocked"):
		return chat.BlockTimeBlocked
	case strings.Contains(s, "403") || strings.Contains(s, "forbidden"):
		return chat.BlockPolicyViolation
	default:
		return chat.BlockUnknown
	}
}
