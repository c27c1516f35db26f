// Package imagegen 封裝兩個圖像生成後端：
// Pollinations（免費，URL 即圖檔）與 Stability AI（付費方案使用）。
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PollinationsURL 組出 Pollinations 的圖像 URL，該服務在請求圖片時即時生成
func PollinationsURL(baseURL, prompt string, width, height int) string {
	if width <= 0 {
		width = 768
	}
	if height <= 0 {
		height = 1024
	}
	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true",
		strings.TrimRight(baseURL, "/"), url.PathEscape(prompt), width, height)
}

// StabilityClient 呼叫 Stability AI 的文生圖端點
type StabilityClient struct {
	apiKey string
	http   *http.Client
}

func NewStabilityClient(apiKey string) *StabilityClient {
	return &StabilityClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

const stabilityEndpoint = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Samples     int               `json:"samples"`
}

type stabilityPrompt struct {
	Text string `json:"text"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// Generate 生成一張圖並回傳 PNG bytes
func (c *StabilityClient) Generate(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = 768
	}
	if height <= 0 {
		height = 1024
	}

	body, err := json.Marshal(stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: prompt}},
		Width:       width,
		Height:      height,
		Samples:     1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stabilityEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stability returned %d: %s", resp.StatusCode, respBody)
	}

	var sr stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	if len(sr.Artifacts) == 0 {
		return nil, fmt.Errorf("stability returned no artifacts")
	}

	return base64.StdEncoding.DecodeString(sr.Artifacts[0].Base64)
}
