package types

// Error is an OpenAI-formatted error detail.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

// ErrorResponse wraps Error the way OpenAI clients expect: {"error": {...}}.
type ErrorResponse struct {
	Err Error `json:"error"`
}

// AnthropicError is an Anthropic-formatted error detail.
type AnthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnthropicErrorResponse wraps AnthropicError: {"type": "error", "error": {...}}.
type AnthropicErrorResponse struct {
	Type string         `json:"type"`
	Err  AnthropicError `json:"error"`
}

// NewAnthropicErrorResponse creates an Anthropic error envelope.
func NewAnthropicErrorResponse(errType, message string) *AnthropicErrorResponse {
	return &AnthropicErrorResponse{
		Type: "error",
		Err:  AnthropicError{Type: errType, Message: message},
	}
}

// Error implements the error interface for Error, returning the error message.
func (e *Error) Error() string {
	return e.Message
}

// Error implements the error interface for ErrorResponse, returning the underlying error message.
// This allows ErrorResponse to be used directly in error returns.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}

// Error implements the error interface for AnthropicErrorResponse.
func (e *AnthropicErrorResponse) Error() string {
	return e.Err.Message
}
