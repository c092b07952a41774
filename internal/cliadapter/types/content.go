package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ContentBlockTypeText is the only block type that contributes to a prompt.
const ContentBlockTypeText = "text"

// ContentBlock is a single typed block of a structured message content.
// Blocks other than text (images, tool calls, documents, ...) are decoded but carry no text.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Content is the union of the two content encodings both wire formats allow:
// a flat string or an ordered array of typed blocks.
type Content struct {
	text   string
	blocks []ContentBlock
}

// NewTextContent creates flat string content.
func NewTextContent(text string) Content {
	return Content{text: text}
}

// NewBlockContent creates structured content from blocks.
func NewBlockContent(blocks ...ContentBlock) Content {
	return Content{blocks: blocks}
}

// UnmarshalJSON accepts a string, an array of blocks or null.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Content{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{text: s}
		return nil
	case len(data) > 0 && data[0] == '[':
		var blocks []ContentBlock
		if err := json.Unmarshal(data, &blocks); err != nil {
			return fmt.Errorf("content blocks: %w", err)
		}
		*c = Content{blocks: blocks}
		return nil
	default:
		return fmt.Errorf("content must be a string or an array of blocks, got %s", truncate(data, 32))
	}
}

// MarshalJSON writes blocks when present, the flat string otherwise.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.blocks != nil {
		return json.Marshal(c.blocks)
	}
	return json.Marshal(c.text)
}

// Text flattens the content. Text blocks are joined with single spaces in order;
// all other blocks are skipped.
func (c Content) Text() string {
	if c.blocks == nil {
		return c.text
	}
	parts := make([]string, 0, len(c.blocks))
	for _, block := range c.blocks {
		if block.Type == ContentBlockTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
