package types

// CreateChatCompletionRequest is the subset of an OpenAI chat completion request the bridge reads.
type CreateChatCompletionRequest struct {
	Model               string                         `json:"model"`
	MaxTokens           *int                           `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int                           `json:"max_completion_tokens,omitempty"`
	Messages            []ChatCompletionRequestMessage `json:"messages"`
	Stream              *bool                          `json:"stream,omitempty"`
}

// ChatCompletionRequestMessage is one conversation turn of an OpenAI request.
// System and developer instructions arrive as regular messages.
type ChatCompletionRequestMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// ChatCompletion is the OpenAI chat completion response envelope.
type ChatCompletion struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   CompletionUsage        `json:"usage"`
}

// ChatCompletionChoice is a single generated alternative.
type ChatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      ChatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

// ChatCompletionMessage is the assistant message of a choice.
type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionUsage reports approximate prompt and completion sizes.
type CompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
