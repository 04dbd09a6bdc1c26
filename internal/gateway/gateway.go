// Package gateway talks to the LLM service that plays the interviewer.
// Every call sends the full ordered conversation and expects the model to
// answer with a single JSON object per the composer's response contract.
package gateway

import "errors"

// Message is one role-tagged entry in the conversation context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrUnavailable indicates a transport-level failure: the request never
// completed or the service answered with a non-success status.
var ErrUnavailable = errors.New("llm gateway unavailable")

// ErrBadPayload indicates the service answered, but the content could not
// be parsed as the expected JSON object.
var ErrBadPayload = errors.New("llm gateway returned malformed payload")

// IsGatewayError reports whether err belongs to the gateway failure class.
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrBadPayload)
}

// Roles used when threading the conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
