package geminicli

import (
	"strings"

	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

// countWords approximates token usage with whitespace-delimited words.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// inputWords counts the caller-visible input: the system instruction and every message
// text, without the role prefixes added by Linearize.
func inputWords(req Request) int {
	n := countWords(req.System)
	for _, msg := range req.Messages {
		n += countWords(msg.Text)
	}
	return n
}

func toMessageUsage(input int, text string) types.MessageUsage {
	return types.MessageUsage{
		InputTokens:  input,
		OutputTokens: countWords(text),
	}
}

func toCompletionUsage(input int, text string) types.CompletionUsage {
	output := countWords(text)
	return types.CompletionUsage{
		PromptTokens:     input,
		CompletionTokens: output,
		TotalTokens:      input + output,
	}
}
