package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

// Webhook event types we handle; everything else is ignored.
const (
	EventTypeFollow  = "follow"
	EventTypeMessage = "message"

	MessageTypeText = "text"
)

type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string       `json:"type"`
	ReplyToken string       `json:"replyToken"`
	Source     EventSource  `json:"source"`
	Message    EventMessage `json:"message"`
}

type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

func ParseWebhookBody(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateSignature checks the X-Line-Signature header: base64 of the
// HMAC-SHA256 digest of the raw request body keyed with the channel secret.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
