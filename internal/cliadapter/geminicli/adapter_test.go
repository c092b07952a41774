package geminicli

import (
	"context"
	"strings"
	"testing"

	"github.com/florianilch/clibridge/internal/cliadapter/types"
	"github.com/florianilch/clibridge/internal/invoker"
)

// stubInvoker records the last call and returns a fixed result.
type stubInvoker struct {
	result invoker.Result
	prompt string
	model  string
	calls  int
}

func (s *stubInvoker) Invoke(_ context.Context, prompt, model string) invoker.Result {
	s.calls++
	s.prompt = prompt
	s.model = model
	return s.result
}

func intPtr(v int) *int { return &v }

func TestCreateMessageAdapter(t *testing.T) {
	stub := &stubInvoker{result: invoker.Result{OK: true, Text: "hello back"}}
	adapter := &CreateMessageAdapter{Bridge: &Bridge{Models: DefaultModelTable(), Invoker: stub}}

	system := types.NewTextContent("be nice")
	resp, err := adapter.ProcessRequest(context.Background(), types.CreateMessageRequest{
		Model:     "claude-opus-4-1",
		MaxTokens: intPtr(1024),
		System:    &system,
		Messages: []types.MessageParam{
			{Role: "user", Content: types.NewTextContent("hi there")},
		},
	})
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}

	if stub.prompt != "SYSTEM: be nice\n\nUSER: hi there" {
		t.Errorf("prompt = %q", stub.prompt)
	}
	if stub.model != "gemini-3-pro-preview" || resp.Model != stub.model {
		t.Errorf("model = %q, response model = %q", stub.model, resp.Model)
	}
	if resp.Content[0].Text != "hello back" {
		t.Errorf("content = %+v", resp.Content)
	}
	if resp.Usage.InputTokens != 4 || resp.Usage.OutputTokens != 2 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestCreateChatCompletionAdapterSurfacesDiagnostic(t *testing.T) {
	stub := &stubInvoker{result: invoker.Result{OK: false, Text: "[Gemini CLI Error]: Request timed out after 120s"}}
	adapter := &CreateChatCompletionAdapter{Bridge: &Bridge{Models: DefaultModelTable(), Invoker: stub}}

	resp, err := adapter.ProcessRequest(context.Background(), types.CreateChatCompletionRequest{
		Messages: []types.ChatCompletionRequestMessage{
			{Role: "user", Content: types.NewTextContent("hi")},
		},
	})
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}

	content := resp.Choices[0].Message.Content
	if !strings.Contains(content, "timed out") {
		t.Errorf("content = %q, want diagnostic", content)
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Errorf("finish_reason = %q", resp.Choices[0].FinishReason)
	}
	if resp.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q, want default tier", resp.Model)
	}
}

func TestProcessRequestSkipsInvocationWhenCancelled(t *testing.T) {
	stub := &stubInvoker{result: invoker.Result{OK: true, Text: "x"}}
	adapter := &CreateChatCompletionAdapter{Bridge: &Bridge{Models: DefaultModelTable(), Invoker: stub}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.ProcessRequest(ctx, types.CreateChatCompletionRequest{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if stub.calls != 0 {
		t.Errorf("invoker called %d times", stub.calls)
	}
}

func TestProcessRequestWithoutInvoker(t *testing.T) {
	adapter := &CreateMessageAdapter{Bridge: &Bridge{Models: DefaultModelTable()}}
	if _, err := adapter.ProcessRequest(context.Background(), types.CreateMessageRequest{}); err == nil {
		t.Fatal("expected error without invoker")
	}
}
