package geminicli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/florianilch/clibridge/internal/cliadapter"
	"github.com/florianilch/clibridge/internal/invoker"
)

// Invoker runs the external tool once. Failures are reported in the Result, not as errors.
type Invoker interface {
	Invoke(ctx context.Context, prompt, model string) invoker.Result
}

// Bridge holds the collaborators shared by both adapters.
type Bridge struct {
	Models  ModelTable
	Invoker Invoker
}

// completion is the format-independent outcome of one pipeline run.
type completion struct {
	text       string
	model      string
	inputWords int
}

// run linearizes req, selects the model tier and invokes the tool.
func (b *Bridge) run(ctx context.Context, req Request) (*completion, error) {
	if b.Invoker == nil {
		return nil, errors.New("bridge has no invoker configured")
	}

	prompt := Linearize(req)
	model := b.Models.Select(req.Model, req.MaxTokens)

	slog.InfoContext(ctx, "routing request",
		"requested_model", req.Model,
		"max_tokens", req.MaxTokens,
		"model", model,
		"prompt_chars", len(prompt),
	)

	// The tool run cannot be aborted by the caller, so skip it when nobody is listening.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("request cancelled before invocation: %w", err)
	}

	result := b.Invoker.Invoke(ctx, prompt, model)
	if !result.OK {
		slog.WarnContext(ctx, "tool failed, returning diagnostic as completion", "model", model)
	}

	return &completion{
		text:       result.Text,
		model:      model,
		inputWords: inputWords(req),
	}, nil
}

// CreateMessageAdapter answers Anthropic Messages requests.
type CreateMessageAdapter struct {
	Bridge *Bridge
}

// Compile-time check to ensure CreateMessageAdapter implements cliadapter.CreateMessageAdapter
var _ cliadapter.CreateMessageAdapter = (*CreateMessageAdapter)(nil)

// ProcessRequest runs the pipeline for an Anthropic request.
func (a *CreateMessageAdapter) ProcessRequest(
	ctx context.Context,
	clientReq cliadapter.CreateMessageRequest,
) (*cliadapter.CreateMessageResponse, error) {
	c, err := a.Bridge.run(ctx, fromMessageRequest(clientReq))
	if err != nil {
		return nil, err
	}
	return newMessage(c.text, c.model, c.inputWords), nil
}

// CreateChatCompletionAdapter answers OpenAI chat completion requests.
type CreateChatCompletionAdapter struct {
	Bridge *Bridge
}

// Compile-time check to ensure CreateChatCompletionAdapter implements cliadapter.CreateChatCompletionAdapter
var _ cliadapter.CreateChatCompletionAdapter = (*CreateChatCompletionAdapter)(nil)

// ProcessRequest runs the pipeline for an OpenAI request.
func (a *CreateChatCompletionAdapter) ProcessRequest(
	ctx context.Context,
	clientReq cliadapter.CreateChatCompletionRequest,
) (*cliadapter.CreateChatCompletionResponse, error) {
	c, err := a.Bridge.run(ctx, fromChatCompletionRequest(clientReq))
	if err != nil {
		return nil, err
	}
	return newChatCompletion(c.text, c.model, c.inputWords), nil
}
