package services

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

// SnapAPI abstracts the Midtrans Snap transaction endpoint
type SnapAPI interface {
	CreateTransaction(ctx context.Context, req *SnapTransactionRequest) (token string, err error)
}

// SnapConfig holds Midtrans Snap API configuration
type SnapConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
}

// SnapClient calls the Midtrans Snap REST API
type SnapClient struct {
	config SnapConfig
	client *http.Client
}

// NewSnapClient creates a new Snap client
func NewSnapClient(config SnapConfig) *SnapClient {
	return &SnapClient{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SnapTransactionRequest represents a fine payment to open on the gateway
type SnapTransactionRequest struct {
	OrderID       string
	GrossAmount   int64
	ItemID        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
}

type snapTransactionResponse struct {
	Token        string   `json:"token"`
	RedirectURL  string   `json:"redirect_url"`
	ErrorMessage []string `json:"error_messages"`
}

func (c *SnapClient) baseURL() string {
	if c.config.IsProduction {
		return "https://app.midtrans.com/snap/v1"
	}
	return "https://app.sandbox.midtrans.com/snap/v1"
}

// CreateTransaction opens a Snap transaction and returns the widget token
func (c *SnapClient) CreateTransaction(ctx context.Context, req *SnapTransactionRequest) (string, error) {
	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     req.OrderID,
			"gross_amount": req.GrossAmount,
		},
		"item_details": []map[string]interface{}{
			{
				"id":       req.ItemID,
				"price":    req.GrossAmount,
				"quantity": 1,
				"name":     req.ItemName,
			},
		},
		"customer_details": map[string]interface{}{
			"first_name": req.CustomerName,
			"email":      req.CustomerEmail,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/transactions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	// Midtrans uses basic auth with the server key as username, empty password
	auth := base64.StdEncoding.EncodeToString([]byte(c.config.ServerKey + ":"))
	httpReq.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var snapResp snapTransactionResponse
	if err := json.Unmarshal(respBody, &snapResp); err != nil {
		return "", fmt.Errorf("snap: unexpected response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if len(snapResp.ErrorMessage) > 0 {
			return "", fmt.Errorf("snap: %s", snapResp.ErrorMessage[0])
		}
		return "", fmt.Errorf("snap: status %d", resp.StatusCode)
	}

	return snapResp.Token, nil
}
