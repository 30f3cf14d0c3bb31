// Package line is a thin client for the LINE Messaging API: reply/push text
// messages and profile lookup. Only what the order bot needs.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.line.me"

	// The platform rejects text messages longer than this.
	MaxTextLength = 5000
)

var ErrNoToken = errors.New("line: channel access token not set")

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func New(channelToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      channelToken,
	}
}

// NewWithBaseURL points the client at a test server.
func NewWithBaseURL(channelToken, baseURL string) *Client {
	c := New(channelToken)
	c.baseURL = baseURL
	return c
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply answers a webhook event. Reply tokens are single-use and expire
// quickly, so failures are expected occasionally; callers just log them.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	body := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   []textMessage{{Type: "text", Text: Truncate(text)}},
	}
	return c.post(ctx, "/v2/bot/message/reply", body)
}

// Push sends a message outside a reply window, e.g. the web-order
// confirmation to a LIFF user.
func (c *Client) Push(ctx context.Context, to, text string) error {
	body := map[string]interface{}{
		"to":       to,
		"messages": []textMessage{{Type: "text", Text: Truncate(text)}},
	}
	return c.post(ctx, "/v2/bot/message/push", body)
}

type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	if c.token == "" {
		return ErrNoToken
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("line: %s %s: %s %s",
		resp.Request.Method, resp.Request.URL.Path, resp.Status, bytes.TrimSpace(body))
}

// Truncate cuts text to the platform text-message limit, rune-safe.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextLength {
		return text
	}
	return string(runes[:MaxTextLength])
}
