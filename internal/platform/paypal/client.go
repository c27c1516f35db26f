// Package paypal 實作 PayPal Orders v2 API 的最小客戶端：
// 取得 access token、建立訂單、請款、驗證 webhook 簽名。
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Client struct {
	baseURL  string
	clientID string
	secret   string

	http *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Order PayPal 端的訂單資訊
type Order struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ApproveURL string `json:"-"`
}

// CaptureResult 請款結果
type CaptureResult struct {
	OrderID   string
	CaptureID string
	Status    string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token 取得（並快取）OAuth access token
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token request returned %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}

	c.accessToken = tr.AccessToken
	// 提前一分鐘過期，避免邊界請求失敗
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateOrder 建立一筆待核准的訂單，回傳訂單 ID 與用戶核准連結
func (c *Client) CreateOrder(ctx context.Context, amount, currency, description string) (*Order, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"description": description,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         amount,
				},
			},
		},
	}

	var or orderResponse
	if err := c.post(ctx, "/v2/checkout/orders", payload, &or); err != nil {
		return nil, err
	}

	order := &Order{ID: or.ID, Status: or.Status}
	for _, link := range or.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
		}
	}
	return order, nil
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder 對已核准的訂單請款
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	var cr captureResponse
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &cr); err != nil {
		return nil, err
	}

	result := &CaptureResult{OrderID: cr.ID, Status: cr.Status}
	for _, pu := range cr.PurchaseUnits {
		for _, cap := range pu.Payments.Captures {
			result.CaptureID = cap.ID
		}
	}
	if result.CaptureID == "" {
		return nil, errors.New("paypal capture response missing capture id")
	}
	return result, nil
}

// WebhookHeaders webhook 驗簽所需的傳輸標頭
type WebhookHeaders struct {
	TransmissionID   string
	TransmissionTime string
	TransmissionSig  string
	CertURL          string
	AuthAlgo         string
}

// VerifyWebhookSignature 呼叫 PayPal 驗簽端點確認 webhook 真偽
func (c *Client) VerifyWebhookSignature(ctx context.Context, webhookID string, headers WebhookHeaders, event json.RawMessage) (bool, error) {
	payload := map[string]interface{}{
		"transmission_id":   headers.TransmissionID,
		"transmission_time": headers.TransmissionTime,
		"transmission_sig":  headers.TransmissionSig,
		"cert_url":          headers.CertURL,
		"auth_algo":         headers.AuthAlgo,
		"webhook_id":        webhookID,
		"webhook_event":     event,
	}

	var vr struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := c.post(ctx, "/v1/notifications/verify-webhook-signature", payload, &vr); err != nil {
		return false, err
	}
	return vr.VerificationStatus == "SUCCESS", nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
