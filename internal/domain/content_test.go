package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContent_WireShape(t *testing.T) {
	t.Run("text serializes as a bare string", func(t *testing.T) {
		data, err := json.Marshal(TextContent("red sofa"))
		require.NoError(t, err)
		assert.JSONEq(t, `"red sofa"`, string(data))
	})

	t.Run("parts serialize as an array", func(t *testing.T) {
		content := PartsContent([]ContentPart{
			{Type: PartInputText, Text: "my room"},
			{Type: PartInputImage, ImageURL: "data:image/jpeg;base64,xxxx"},
		})
		data, err := json.Marshal(content)
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"type":"input_text","text":"my room"},
			{"type":"input_image","image_url":"data:image/jpeg;base64,xxxx"}
		]`, string(data))
	})

	t.Run("either shape round trips", func(t *testing.T) {
		for _, raw := range []string{
			`"just text"`,
			`[{"type":"input_text","text":"hi"}]`,
		} {
			var c MessageContent
			require.NoError(t, json.Unmarshal([]byte(raw), &c))
			again, err := json.Marshal(c)
			require.NoError(t, err)
			assert.JSONEq(t, raw, string(again))
		}
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var c MessageContent
		assert.Error(t, json.Unmarshal([]byte(`{"oops":1}`), &c))
	})
}

func TestMessageContent_Accessors(t *testing.T) {
	mixed := PartsContent([]ContentPart{
		{Type: PartInputText, Text: "before"},
		{Type: PartInputImage, ImageURL: "u1"},
		{Type: PartInputText, Text: "after"},
	})

	assert.False(t, mixed.IsText())
	assert.Equal(t, "before after", mixed.PlainText())
	assert.Equal(t, []string{"u1"}, mixed.ImageURLs())

	stripped := mixed.WithoutImages()
	assert.Empty(t, stripped.ImageURLs())
	assert.Equal(t, "before after", stripped.PlainText())

	text := TextContent("plain")
	assert.True(t, text.IsText())
	assert.Equal(t, "plain", text.PlainText())
	assert.Empty(t, text.ImageURLs())
	assert.Equal(t, text, text.WithoutImages())
}
