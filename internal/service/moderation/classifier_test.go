package moderation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natichat/natichat/internal/provider"
)

func TestExtractMessageFromJSONBody(t *testing.T) {
	err := &provider.CallError{
		Provider: provider.ChatGPT,
		Status:   429,
		Body:     []byte(`{"error": {"message": "Rate limit exceeded. Please slow down."}}`),
		Err:      errors.New("429 Too Many Requests"),
	}

	assert.Equal(t, "Rate limit exceeded. Please slow down.", ExtractMessage(err))
}

func TestExtractMessageTopLevelMessage(t *testing.T) {
	err := &provider.CallError{
		Provider: provider.Claude,
		Body:     []byte(`{"message": "Request blocked during this time period"}`),
		Err:      errors.New("403 Forbidden"),
	}

	assert.Equal(t, "Request blocked during this time period", ExtractMessage(err))
}

func TestExtractMessageMalformedBodyFallsThrough(t *testing.T) {
	err := &provider.CallError{
		Provider: provider.ChatGPT,
		Body:     []byte(`<html>Bad Gateway</html>`),
		Err:      errors.New("502 Bad Gateway"),
	}

	assert.Equal(t, "502 Bad Gateway", ExtractMessage(err))
}

func TestExtractMessageEmbeddedJSON(t *testing.T) {
	err := fmt.Errorf(`Error code: 403 - {"error": {"message": "Forbidden by content policy"}}`)

	assert.Equal(t, "Forbidden by content policy", ExtractMessage(err))
}

func TestExtractMessageEmbeddedMapLiteral(t *testing.T) {
	// Some SDKs stringify the payload with single quotes.
	err := errors.New("Error code: 429 - {'error': {'message': 'Too many requests'}}")

	assert.Equal(t, "Too many requests", ExtractMessage(err))
}

func TestExtractMessageFallsBackToErrorString(t *testing.T) {
	err := errors.New("dial tcp 127.0.0.1:3000: connection refused")

	assert.Equal(t, "dial tcp 127.0.0.1:3000: connection refused", ExtractMessage(err))
}

func TestExtractMessageNeverEmpty(t *testing.T) {
	err := &provider.CallError{Provider: provider.Claude}

	assert.NotEmpty(t, ExtractMessage(err))
}

func TestExtractMessageNilError(t *testing.T) {
	assert.Equal(t, "", ExtractMessage(nil))
}

func TestExtractMessageUnparsableBraceFallsBack(t *testing.T) {
	err := errors.New("weird payload { not json at all")

	assert.Equal(t, "weird payload { not json at all", ExtractMessage(err))
}
