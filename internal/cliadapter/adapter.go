package cliadapter

import (
	"context"

	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

// Adapter defines the contract for answering a client request with an external CLI tool.
//
// Type parameters allow the interface to express transformation contracts for different
// wire formats while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
type Adapter[TRequest, TResponse any] interface {
	// ProcessRequest linearizes the client request, runs the tool and returns the
	// wire-format response. Implementations must remain stateless.
	ProcessRequest(ctx context.Context, clientReq TRequest) (*TResponse, error)
}

// Type aliases for the Anthropic Messages operation.
type (
	CreateMessageRequest  = types.CreateMessageRequest
	CreateMessageResponse = types.Message

	CreateMessageAdapter = Adapter[CreateMessageRequest, CreateMessageResponse]
)

// Type aliases for the OpenAI Chat Completions operation.
type (
	CreateChatCompletionRequest  = types.CreateChatCompletionRequest
	CreateChatCompletionResponse = types.ChatCompletion

	CreateChatCompletionAdapter = Adapter[CreateChatCompletionRequest, CreateChatCompletionResponse]
)

// Type aliases for error envelopes of both wire formats.
type (
	Error                  = types.Error
	ErrorResponse          = types.ErrorResponse
	AnthropicErrorResponse = types.AnthropicErrorResponse
)
