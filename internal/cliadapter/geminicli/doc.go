// Package geminicli answers Anthropic and OpenAI requests with a text-only CLI tool such
// as the Gemini CLI.
//
// The adapter handles:
//
//   - Linearization: The structured conversation is collapsed into one prompt with
//     "SYSTEM:", "USER:" and "ASSISTANT:" line prefixes. Only text blocks contribute.
//
//   - Model tiers: The backend model is chosen from the requested model name and
//     max_tokens, never by the caller directly (see ModelTable).
//
//   - Tool failures: Timeouts, nonzero exits and launch errors come back as a marked
//     diagnostic in the normal response body, so clients that only read the assistant
//     text still see why the call failed.
//
//   - Usage: Token counts are whitespace word counts.
//
// # Adapters
//
// CreateMessageAdapter: Anthropic Messages → CLI tool
//
// CreateChatCompletionAdapter: OpenAI CreateChatCompletion → CLI tool
package geminicli
