package geminicli

import (
	"strings"

	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

// DefaultMaxTokens applies when a request does not specify an output limit.
const DefaultMaxTokens = 4096

// Role is the speaker of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Request is a wire-format independent view of a client request.
type Request struct {
	Model     string
	MaxTokens int
	// System is the out-of-band instruction of the Anthropic format. OpenAI
	// system messages stay in Messages.
	System   string
	Messages []Message
}

// Message is a single flattened conversation turn.
type Message struct {
	Role Role
	Text string
}

// Linearize collapses req into one prompt. A system instruction comes first, followed
// by a blank line; every message becomes one "ROLE: text" line in order. Roles other
// than system and assistant are rendered as USER.
func Linearize(req Request) string {
	lines := make([]string, 0, len(req.Messages)+2)
	if req.System != "" {
		lines = append(lines, "SYSTEM: "+req.System)
		if len(req.Messages) > 0 {
			lines = append(lines, "")
		}
	}

	for _, msg := range req.Messages {
		lines = append(lines, rolePrefix(msg.Role)+msg.Text)
	}

	return strings.Join(lines, "\n")
}

func rolePrefix(role Role) string {
	switch role {
	case RoleSystem:
		return "SYSTEM: "
	case RoleAssistant:
		return "ASSISTANT: "
	default:
		// Unknown roles ("tool", "function", ...) are kept as user input rather than dropped.
		return "USER: "
	}
}

// fromMessageRequest normalizes an Anthropic Messages request.
func fromMessageRequest(clientReq types.CreateMessageRequest) Request {
	req := Request{
		Model:     clientReq.Model,
		MaxTokens: maxTokensOrDefault(clientReq.MaxTokens),
		Messages:  make([]Message, 0, len(clientReq.Messages)),
	}
	if clientReq.System != nil {
		req.System = clientReq.System.Text()
	}

	for _, msg := range clientReq.Messages {
		req.Messages = append(req.Messages, Message{
			Role: anthropicRole(msg.Role),
			Text: msg.Content.Text(),
		})
	}
	return req
}

// anthropicRole maps a Messages API role. The format has no in-band system role,
// so everything except assistant is user input.
func anthropicRole(role string) Role {
	if Role(role) == RoleAssistant {
		return RoleAssistant
	}
	return RoleUser
}

// fromChatCompletionRequest normalizes an OpenAI chat completion request.
// Developer messages are OpenAI's newer spelling of system messages.
func fromChatCompletionRequest(clientReq types.CreateChatCompletionRequest) Request {
	maxTokens := clientReq.MaxTokens
	if maxTokens == nil {
		maxTokens = clientReq.MaxCompletionTokens
	}

	req := Request{
		Model:     clientReq.Model,
		MaxTokens: maxTokensOrDefault(maxTokens),
		Messages:  make([]Message, 0, len(clientReq.Messages)),
	}

	for _, msg := range clientReq.Messages {
		role := Role(msg.Role)
		if role == "developer" {
			role = RoleSystem
		}
		req.Messages = append(req.Messages, Message{
			Role: role,
			Text: msg.Content.Text(),
		})
	}
	return req
}

func maxTokensOrDefault(maxTokens *int) int {
	if maxTokens == nil {
		return DefaultMaxTokens
	}
	return *maxTokens
}
