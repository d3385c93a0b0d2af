package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content part types
const (
	PartInputText  = "input_text"
	PartInputImage = "input_image"
)

// ContentPart is one typed fragment of a multi-part message.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// MessageContent is the content of a conversation entry. On the wire it is
// either a bare JSON string (text-only turns) or an array of typed parts
// (turns mixing text and images). Exactly one of Text/Parts is meaningful;
// Parts == nil means text-only. The shape is fixed once persisted.
type MessageContent struct {
	Text  string
	Parts []ContentPart
}

// TextContent builds a text-only content value.
func TextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

// PartsContent builds a multi-part content value.
func PartsContent(parts []ContentPart) MessageContent {
	return MessageContent{Parts: parts}
}

// IsText reports whether the content serializes as a bare string.
func (c MessageContent) IsText() bool {
	return c.Parts == nil
}

// PlainText returns the textual portion of the content: the string itself
// for text-only entries, or all input_text parts joined with spaces.
func (c MessageContent) PlainText() string {
	if c.IsText() {
		return c.Text
	}
	var texts []string
	for _, p := range c.Parts {
		if p.Type == PartInputText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}

// ImageURLs returns the image_url of every image part, in order. Text-only
// content has none.
func (c MessageContent) ImageURLs() []string {
	var urls []string
	for _, p := range c.Parts {
		if p.Type == PartInputImage {
			urls = append(urls, p.ImageURL)
		}
	}
	return urls
}

// WithoutImages returns a copy of the content with image parts removed.
// Text-only content is returned unchanged.
func (c MessageContent) WithoutImages() MessageContent {
	if c.IsText() {
		return c
	}
	filtered := make([]ContentPart, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p.Type != PartInputImage {
			filtered = append(filtered, p)
		}
	}
	return MessageContent{Parts: filtered}
}

// MarshalJSON preserves the external shape: bare string or part array.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either shape.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = MessageContent{Text: s}
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("message content is neither string nor part array: %w", err)
	}
	*c = MessageContent{Parts: parts}
	return nil
}
