package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/muralink/designchat/internal/domain"
)

const maxTitleLen = 30

// buildUserEntry builds the user turn: a bare string for text-only prompts,
// or typed parts when an image rides along. The image travels as a data URL
// so a mixed turn still serializes as a single entry.
func buildUserEntry(prompt, imageBase64, imageMIME string) domain.ChatContextEntry {
	if imageBase64 == "" {
		return domain.ChatContextEntry{
			Role:    domain.RoleUser,
			Content: domain.TextContent(prompt),
		}
	}

	if imageMIME == "" {
		imageMIME = "jpeg"
	}
	parts := []domain.ContentPart{
		{Type: domain.PartInputText, Text: prompt},
		{Type: domain.PartInputImage, ImageURL: fmt.Sprintf("data:image/%s;base64,%s", imageMIME, imageBase64)},
	}
	return domain.ChatContextEntry{
		Role:    domain.RoleUser,
		Content: domain.PartsContent(parts),
	}
}

func hasUserEntry(conversation []domain.ChatContextEntry) bool {
	for _, entry := range conversation {
		if entry.Role == domain.RoleUser {
			return true
		}
	}
	return false
}

// firstUserImage returns the first uploaded image found anywhere in the
// conversation's user turns, or empty.
func firstUserImage(conversation []domain.ChatContextEntry) string {
	for _, entry := range conversation {
		if entry.Role != domain.RoleUser {
			continue
		}
		if urls := entry.Content.ImageURLs(); len(urls) > 0 {
			return urls[0]
		}
	}
	return ""
}

// truncateTitle shortens the first prompt into a session title.
func truncateTitle(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= maxTitleLen {
		return prompt
	}
	return string(runes[:maxTitleLen]) + "..."
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// syntheticImageID produces a negative id for non-durable fallback records
// so it can never collide with a store-assigned one.
func syntheticImageID() int64 {
	return -time.Now().UnixNano()
}

func sortImagesByCreatedAt(images []domain.GeneratedImage) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreatedAt < images[j].CreatedAt
	})
}
