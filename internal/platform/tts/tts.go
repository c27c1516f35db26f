// Package tts 封裝兩個語音合成後端：Google Cloud TTS REST 與 ElevenLabs。
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer 將文字轉成音訊 bytes (MP3)
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// GoogleClient 透過 REST API 呼叫 Google Cloud Text-to-Speech
type GoogleClient struct {
	apiKey string
	voice  string
	http   *http.Client
}

func NewGoogleClient(apiKey, voice string) *GoogleClient {
	if voice == "" {
		voice = "en-US-Neural2-C"
	}
	return &GoogleClient{
		apiKey: apiKey,
		voice:  voice,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type googleTTSRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

func (c *GoogleClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var reqBody googleTTSRequest
	reqBody.Input.Text = text
	reqBody.Voice.Name = c.voice
	// 語言碼取 voice 名稱的前兩段，例如 en-US-Neural2-C -> en-US
	reqBody.Voice.LanguageCode = languageCode(c.voice)
	reqBody.AudioConfig.AudioEncoding = "MP3"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := "https://texttospeech.googleapis.com/v1/text:synthesize?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google tts returned %d: %s", resp.StatusCode, respBody)
	}

	var tr struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(tr.AudioContent)
}

func languageCode(voice string) string {
	dashes := 0
	for i, r := range voice {
		if r == '-' {
			dashes++
			if dashes == 2 {
				return voice[:i]
			}
		}
	}
	return "en-US"
}

// ElevenLabsClient 呼叫 ElevenLabs 的 text-to-speech 端點
type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	http    *http.Client
}

func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := "https://api.elevenlabs.io/v1/text-to-speech/" + c.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs returned %d: %s", resp.StatusCode, respBody)
	}

	return io.ReadAll(resp.Body)
}
