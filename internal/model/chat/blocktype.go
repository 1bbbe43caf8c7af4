package chat

// BlockType is the category a proxy refusal resolves to. BlockUnknown is
// treated as allow, never as a block.
type BlockType string

const (
	BlockRateLimit        BlockType = "rate_limit"
	BlockSensitiveData    BlockType = "sensitive_data"
	BlockFinancialContent BlockType = "financial_content"
	BlockTimeBlocked      BlockType = "time_blocked"
	BlockPolicyViolation  BlockType = "policy_violation"
	BlockUnknown          BlockType = "unknown"
)

// Explanation returns the fixed user-facing description for a block category.
func (b BlockType) Explanation() string {
	switch b {
	case BlockRateLimit:
		return "Message rate limit exceeded. Please slow down your messaging."
	case BlockSensitiveData:
		return "Message contains sensitive information that cannot be shared in chat."
	case BlockFinancialContent:
		return "Message contains financial content that is not allowed in chat."
	case BlockTimeBlocked:
		return "Chat is currently blocked during this time period."
	case BlockPolicyViolation:
		return "Message violates content policy and cannot be sent."
	default:
		return "Message blocked by security system"
	}
}
