package moderation

import "strings"

// RedactionMarker prefixes every redacted message.
const RedactionMarker = "[CENSORED]"

const maskChar = "*"

// Redact hides a message's content while preserving its word structure.
// Deterministic: the same input always yields the same output. Tokens are
// rejoined with single spaces, so original inter-token spacing is lost.
func Redact(text string) string {
	words := strings.Fields(text)
	redacted := make([]string, 0, len(words))

	for _, word := range words {
		redacted = append(redacted, redactWord(word))
	}

	return RedactionMarker + " " + strings.Join(redacted, " ")
}

func redactWord(word string) string {
	runes := []rune(word)
	switch {
	case len(runes) <= 2:
		// Very short words ("a", "is", "to") stay readable.
		return word
	case len(runes) <= 4:
		return string(runes[0]) + strings.Repeat(maskChar, len(runes)-1)
	default:
		return string(runes[0]) + strings.Repeat(maskChar, len(runes)-2) + string(runes[len(runes)-1])
	}
}
