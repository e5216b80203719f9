// Package tools provides the Genkit tool layer of bridgechat.
//
// Tools return a structured Result so the model can distinguish outcome
// classes and self-correct, instead of parsing prose for error markers.
package tools

// Status classifies a tool outcome.
type Status string

const (
	// StatusSuccess means the tool produced a usable answer. A mapping
	// report that says "no mappings found" is still a success; the resolver
	// answered the question.
	StatusSuccess Status = "success"

	// StatusError means the tool could not produce an answer.
	StatusError Status = "error"
)

// ErrorCode identifies an error class the model can reason about.
type ErrorCode string

const (
	// ErrCodeValidation marks rejected input.
	ErrCodeValidation ErrorCode = "ValidationError"

	// ErrCodeNetwork marks transport-level failures reaching an upstream
	// service.
	ErrCodeNetwork ErrorCode = "NetworkError"
)

// Result is the uniform tool return value.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error carries a structured failure description.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}
