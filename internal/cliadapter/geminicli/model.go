package geminicli

import "strings"

// ModelTable maps request shapes to backend model identifiers.
// Identifiers and thresholds are configuration; Select holds the decision order.
type ModelTable struct {
	// Highest serves "opus" requests and very large outputs.
	Highest string
	// Second serves "sonnet" requests with large outputs.
	Second string
	// Third serves remaining "sonnet" requests.
	Third string
	// Default serves everything else.
	Default string

	// HighTokenThreshold: max_tokens strictly above it selects Highest.
	HighTokenThreshold int
	// MidTokenThreshold: max_tokens strictly above it upgrades sonnet to Second.
	MidTokenThreshold int
}

// DefaultModelTable returns the Gemini tier mapping.
func DefaultModelTable() ModelTable {
	return ModelTable{
		Highest:            "gemini-3-pro-preview",
		Second:             "gemini-2.5-pro",
		Third:              "gemini-3-flash-preview",
		Default:            "gemini-2.0-flash",
		HighTokenThreshold: 8000,
		MidTokenThreshold:  4000,
	}
}

// Select picks the backend model for a declared model name and output limit.
// Rules are checked in order and the first match wins.
func (t ModelTable) Select(declaredModel string, maxTokens int) string {
	switch {
	case strings.Contains(declaredModel, "opus") || maxTokens > t.HighTokenThreshold:
		return t.Highest
	case strings.Contains(declaredModel, "sonnet") && maxTokens > t.MidTokenThreshold:
		return t.Second
	case strings.Contains(declaredModel, "sonnet"):
		return t.Third
	default:
		return t.Default
	}
}
