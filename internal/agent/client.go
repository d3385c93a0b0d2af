// Package agent is a thin client for the remote design agent backend. The
// backend contract drifted between revisions, so response decoding follows a
// bounded fallback chain instead of trusting a single schema.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/muralink/designchat/internal/config"
	"github.com/muralink/designchat/internal/domain"
	"go.uber.org/zap"
)

// apologyText is returned when no assistant reply can be extracted from the
// backend response.
const apologyText = "Sorry, I couldn't generate a response. Please try again."

// ChatResult is the outcome of one design agent turn.
type ChatResult struct {
	AssistantText string
	Products      []domain.Product
}

// Client calls the design agent backend. Each operation is a single awaited
// round trip; when a backup URL is configured the primary failure is retried
// once against it.
type Client struct {
	baseURL    string
	backupURL  string
	useBackup  bool
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a design agent client from configuration.
func NewClient(cfg config.AgentConfig, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		backupURL:  cfg.BackupURL,
		useBackup:  cfg.UseBackup && cfg.BackupURL != "",
		token:      token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatRequest struct {
	Context    []domain.ChatContextEntry `json:"context"`
	UserPrompt string                    `json:"user_prompt"`
	UserImage  string                    `json:"user_image,omitempty"`
}

type imageRequest struct {
	Context          []domain.ChatContextEntry `json:"context"`
	UserImage        string                    `json:"user_image"`
	ProductImageURLs []string                  `json:"product_image_urls"`
}

// conversationEntry tolerates both role- and type-discriminated entries.
type conversationEntry struct {
	Role    string                `json:"role"`
	Type    string                `json:"type"`
	Content domain.MessageContent `json:"content"`
}

// chatResponse covers the observed backend shapes: conversation and
// products either at the top level or nested under data.
type chatResponse struct {
	Conversation []conversationEntry `json:"conversation"`
	Products     []domain.Product    `json:"products"`
	Data         *struct {
		Conversation []conversationEntry `json:"conversation"`
		Products     []domain.Product    `json:"products"`
	} `json:"data"`
}

// Chat posts the accumulated conversation plus the new user turn and returns
// the assistant reply and any product recommendations.
func (c *Client) Chat(ctx context.Context, conversation []domain.ChatContextEntry, prompt, imageBase64 string) (*ChatResult, error) {
	body := chatRequest{
		Context:    conversation,
		UserPrompt: prompt,
		UserImage:  imageBase64,
	}

	data, err := c.post(ctx, "/api/v1/design-agent", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode design agent response: %w", err)
	}

	conv, products := resp.Conversation, resp.Products
	if len(conv) == 0 && resp.Data != nil {
		conv, products = resp.Data.Conversation, resp.Data.Products
	}

	return &ChatResult{
		AssistantText: extractAssistantText(conv),
		Products:      extractProducts(products),
	}, nil
}

type imageResponse struct {
	Data string `json:"data"`
}

// GenerateImage posts a trimmed context, the user's space photo, and the
// selected product reference images, and returns one generated composite
// image as base64.
func (c *Client) GenerateImage(ctx context.Context, conversation []domain.ChatContextEntry, userImage string, productImageURLs []string) (string, error) {
	body := imageRequest{
		Context:          conversation,
		UserImage:        userImage,
		ProductImageURLs: productImageURLs,
	}

	data, err := c.post(ctx, "/api/v1/design-agent/generate-image", body)
	if err != nil {
		return "", err
	}

	var resp imageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode generated image response: %w", err)
	}
	if resp.Data == "" {
		return "", fmt.Errorf("design agent returned no image data")
	}
	return resp.Data, nil
}

// post sends the request to the primary URL, retrying once against the
// backup URL when one is configured. A 401 is never retried.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.doPost(ctx, c.baseURL+path, payload)
	if err == nil {
		return data, nil
	}
	if err == domain.ErrAuthRequired || !c.useBackup {
		return nil, err
	}

	c.logger.Warn("Primary design agent URL failed, trying backup", zap.Error(err))
	data, backupErr := c.doPost(ctx, c.backupURL+path, payload)
	if backupErr != nil {
		c.logger.Error("Both primary and backup design agent URLs failed",
			zap.NamedError("primary", err),
			zap.NamedError("backup", backupErr),
		)
		return nil, backupErr
	}
	return data, nil
}

func (c *Client) doPost(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAgentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthRequired
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("design agent returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

// extractAssistantText finds the assistant reply in the returned
// conversation: an entry discriminated by role or type, else the first
// entry, else a canned apology.
func extractAssistantText(conversation []conversationEntry) string {
	for _, entry := range conversation {
		if entry.Role == domain.RoleAssistant || entry.Type == domain.RoleAssistant {
			if text := entry.Content.PlainText(); text != "" {
				return text
			}
		}
	}
	if len(conversation) > 0 {
		if text := conversation[0].Content.PlainText(); text != "" {
			return text
		}
	}
	return apologyText
}

// extractProducts returns the full product list only when at least one
// product carries non-empty shopping results; otherwise there are no
// products at all, not partial products.
func extractProducts(products []domain.Product) []domain.Product {
	for _, p := range products {
		if p.HasShoppingResults() {
			return products
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
