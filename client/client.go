// Package client submits orders to the intake endpoint the way the web form
// does: validate locally, post JSON, retry a bounded number of times with a
// fixed delay. There is no idempotency key, so a retry after a false timeout
// can create a duplicate order; that is accepted behavior.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"snackshop-line/models"
	"snackshop-line/services"
)

const (
	defaultMaxRetries = 2
	defaultRetryDelay = time.Second
)

// Validation errors surfaced before any network call is made.
var (
	ErrNameTooShort   = errors.New("姓名至少需要2個字符")
	ErrBadPhone       = errors.New("請輸入正確的手機號碼格式 (例如: 0912345678)")
	ErrPickupNotAhead = errors.New("取餐時間必須是未來時間")
	ErrNoItems        = errors.New("請選擇至少一項餐點")
)

type Client struct {
	endpoint   string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
}

func New(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
}

// FetchMenu loads the catalog from GET ?action=menu.
func (c *Client) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?action=menu", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu fetch: unexpected status %s", resp.Status)
	}
	var out struct {
		Status string            `json:"status"`
		Menu   []models.MenuItem `json:"menu"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("menu fetch: status %q", out.Status)
	}
	return out.Menu, nil
}

// FetchMenuOrFallback falls back to the built-in catalog when the endpoint
// is unreachable, like the form did.
func (c *Client) FetchMenuOrFallback(ctx context.Context) []models.MenuItem {
	items, err := c.FetchMenu(ctx)
	if err != nil {
		return models.FallbackMenu
	}
	return items
}

// Validate runs the client-side checks; a failing submission never reaches
// the network.
func (c *Client) Validate(sub *models.OrderSubmission) error {
	if utf8.RuneCountInString(sub.CustomerName) < 2 {
		return ErrNameTooShort
	}
	phone := services.NormalizePhone(sub.CustomerPhone)
	if !services.ValidPhone(phone) {
		return ErrBadPhone
	}
	pickup, err := services.ParsePickupTime(sub.PickupTime)
	if err != nil || !pickup.After(c.now()) {
		return ErrPickupNotAhead
	}
	if len(sub.Items) == 0 && sub.Product == "" {
		return ErrNoItems
	}
	return nil
}

// Submit validates, then posts the order, retrying up to 2 extra attempts
// with a fixed 1-second delay before surfacing the last error. Returns the
// server-generated order id.
func (c *Client) Submit(ctx context.Context, sub models.OrderSubmission) (string, error) {
	if err := c.Validate(&sub); err != nil {
		return "", err
	}
	sub.CustomerPhone = services.NormalizePhone(sub.CustomerPhone)
	if sub.Source == "" {
		sub.Source = "web_app_go_client"
	}
	if sub.Timestamp == "" {
		sub.Timestamp = c.now().Format(time.RFC3339)
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		orderID, err := c.post(ctx, payload)
		if err == nil {
			return orderID, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("訂單提交失敗: %w", lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("HTTP %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var out struct {
		Status  string `json:"status"`
		OrderID string `json:"orderId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Status != "success" {
		return "", errors.New(out.Message)
	}
	return out.OrderID, nil
}
