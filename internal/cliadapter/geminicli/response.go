package geminicli

import (
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

const (
	messageIDPrefix    = "msg_"
	completionIDPrefix = "chatcmpl-"
	idLength           = 24

	finishReasonStop = "stop"
)

// now is replaceable in tests.
var now = time.Now

// newMessage wraps tool output in an Anthropic Messages response.
// The tool always runs to completion, so the stop reason is end_turn.
func newMessage(text, model string, input int) *types.Message {
	return &types.Message{
		ID:   newID(messageIDPrefix),
		Type: "message",
		Role: string(RoleAssistant),
		Content: []types.ContentBlock{
			{Type: types.ContentBlockTypeText, Text: text},
		},
		Model:        model,
		StopReason:   anthropic.StopReasonEndTurn,
		StopSequence: nil,
		Usage:        toMessageUsage(input, text),
	}
}

// newChatCompletion wraps tool output in an OpenAI chat completion response.
func newChatCompletion(text, model string, input int) *types.ChatCompletion {
	return &types.ChatCompletion{
		ID:      newID(completionIDPrefix),
		Object:  "chat.completion",
		Created: now().Unix(),
		Model:   model,
		Choices: []types.ChatCompletionChoice{
			{
				Index: 0,
				Message: types.ChatCompletionMessage{
					Role:    string(RoleAssistant),
					Content: text,
				},
				FinishReason: finishReasonStop,
			},
		},
		Usage: toCompletionUsage(input, text),
	}
}

// newID generates an opaque response ID: prefix followed by 24 hex characters.
func newID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:idLength]
}
