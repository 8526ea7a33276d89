package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	apiBaseURL = "https://api.notion.com/v1"
	// Notion rejects rich text content longer than this per block.
	maxBlockTextLength = 2000
)

// Client exports quiz documents to Notion as pages of blocks.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	version      string
	parentPageID string
	logger       *zap.Logger
}

// NewClient creates a Notion export client.
func NewClient(apiKey, version, parentPageID string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{},
		apiKey:       apiKey,
		version:      version,
		parentPageID: parentPageID,
		logger:       logger,
	}
}

// CreatePageWithMarkdown creates a child page under the configured
// parent and fills it with blocks converted from the markdown content.
// It returns the created page ID.
func (c *Client) CreatePageWithMarkdown(ctx context.Context, title, markdown string) (string, error) {
	payload := map[string]any{
		"parent": map[string]any{"page_id": c.parentPageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
		"children": markdownToBlocks(markdown),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode notion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBaseURL+"/pages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("notion page creation failed: status=%d body=%s", resp.StatusCode, string(snippet))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode notion response: %w", err)
	}
	c.logger.Info("created notion page", zap.String("page_id", created.ID))
	return created.ID, nil
}

// markdownToBlocks converts a markdown document into Notion block
// objects. Only the structures the quiz renderer emits are handled:
// headings, bulleted lists, and paragraphs.
func markdownToBlocks(markdown string) []map[string]any {
	var blocks []map[string]any
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "### "):
			blocks = append(blocks, headingBlock("heading_3", strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, headingBlock("heading_2", strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			blocks = append(blocks, headingBlock("heading_1", strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- "):
			blocks = append(blocks, textBlock("bulleted_list_item", strings.TrimPrefix(trimmed, "- ")))
		default:
			blocks = append(blocks, textBlock("paragraph", trimmed))
		}
	}
	return blocks
}

func headingBlock(kind, text string) map[string]any {
	return textBlock(kind, text)
}

func textBlock(kind, text string) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   kind,
		kind: map[string]any{
			"rich_text": richText(text),
		},
	}
}

// richText splits text into chunks that fit Notion's per-block limit.
// Splitting is rune-aware so multi-byte characters stay intact.
func richText(text string) []map[string]any {
	runes := []rune(text)
	var parts []map[string]any
	for len(runes) > 0 {
		n := len(runes)
		if n > maxBlockTextLength {
			n = maxBlockTextLength
		}
		parts = append(parts, map[string]any{
			"type": "text",
			"text": map[string]any{"content": string(runes[:n])},
		})
		runes = runes[n:]
	}
	return parts
}
