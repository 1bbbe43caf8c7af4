package moderation

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/natichat/natichat/internal/provider"
)

// ExtractMessage pulls a best-effort human-readable message out of an
// upstream failure. Prefers an {"error": {"message": ...}} payload when one
// can be found; falls back to the error's string form. Never returns empty
// for a non-nil error.
func ExtractMessage(err error) string {
	if err == nil {
		return ""
	}

	var call *provider.CallError
	if errors.As(err, &call) && len(call.Body) > 0 {
		if msg, ok := messageFromJSON(call.Body); ok {
			return msg
		}
	}

	s := err.Error()

	// SDK errors often embed the response payload in their string form,
	// e.g. "Error code: 403 - {'error': {'message': '...'}}".
	if idx := strings.IndexByte(s, '{'); idx != -1 {
		tail := s[idx:]
		if msg, ok := messageFromJSON([]byte(tail)); ok {
			return msg
		}
		// Single-quoted map literal; normalise and retry.
		if msg, ok := messageFromJSON([]byte(strings.ReplaceAll(tail, "'", `"`))); ok {
			return msg
		}
	}

	return s
}

func messageFromJSON(raw []byte) (string, bool) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}

	if errBlock, ok := body["error"].(map[string]any); ok {
		if msg, ok := errBlock["message"].(string); ok {
			return msg, true
		}
	}
	if msg, ok := body["message"].(string); ok {
		return msg, true
	}
	return "", false
}
