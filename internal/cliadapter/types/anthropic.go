package types

import "github.com/anthropics/anthropic-sdk-go"

// CreateMessageRequest is the subset of an Anthropic Messages request the bridge reads.
type CreateMessageRequest struct {
	Model     string         `json:"model"`
	MaxTokens *int           `json:"max_tokens,omitempty"`
	System    *Content       `json:"system,omitempty"`
	Messages  []MessageParam `json:"messages"`
	Stream    *bool          `json:"stream,omitempty"`
}

// MessageParam is one conversation turn of an Anthropic request.
type MessageParam struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Message is the Anthropic Messages response envelope.
type Message struct {
	ID           string               `json:"id"`
	Type         string               `json:"type"`
	Role         string               `json:"role"`
	Content      []ContentBlock       `json:"content"`
	Model        string               `json:"model"`
	StopReason   anthropic.StopReason `json:"stop_reason"`
	StopSequence *string              `json:"stop_sequence"`
	Usage        MessageUsage         `json:"usage"`
}

// MessageUsage reports approximate input and output sizes.
type MessageUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
