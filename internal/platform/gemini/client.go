// Package gemini 包裝 google genai SDK，統一文字與 JSON 結構化輸出的呼叫方式。
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Client 持有 genai client 與使用的模型名稱
type Client struct {
	gen   *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	gen, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{gen: gen, model: model}, nil
}

// Model 回傳目前使用的模型名稱
func (c *Client) Model() string {
	return c.model
}

// GenerateText 單次生成，回傳純文字結果
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.gen.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned empty response")
	}
	return text, nil
}

// GenerateJSON 生成並解析 JSON 結構化輸出到 out。
// 模型經常把 JSON 包在 Markdown code fence 裡，先經過 ExtractJSON 再解析。
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	text, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return err
	}
	return ExtractJSON(text, out)
}
