package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("hello"); got != "hello" {
		t.Errorf("short text changed: %q", got)
	}

	long := strings.Repeat("滷", MaxTextLength+10)
	got := Truncate(long)
	if n := len([]rune(got)); n != MaxTextLength {
		t.Errorf("truncated length = %d runes, want %d", n, MaxTextLength)
	}
	// Must cut on a rune boundary.
	if !strings.HasSuffix(got, "滷") {
		t.Errorf("truncation broke a multi-byte rune")
	}
}

func TestValidateSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !ValidateSignature("secret", body, sig) {
		t.Error("valid signature rejected")
	}
	if ValidateSignature("secret", body, "bogus") {
		t.Error("bogus signature accepted")
	}
	if ValidateSignature("other", body, sig) {
		t.Error("signature accepted with wrong secret")
	}
}

func TestReply(t *testing.T) {
	var got struct {
		ReplyToken string `json:"replyToken"`
		Messages   []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/reply" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token123" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL("token123", srv.URL)
	if err := c.Reply(context.Background(), "rt1", "你好"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got.ReplyToken != "rt1" || len(got.Messages) != 1 || got.Messages[0].Text != "你好" || got.Messages[0].Type != "text" {
		t.Errorf("payload = %+v", got)
	}
}

func TestReplyWithoutToken(t *testing.T) {
	c := New("")
	if err := c.Reply(context.Background(), "rt1", "hi"); err != ErrNoToken {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/profile/U1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Profile{UserID: "U1", DisplayName: "小明"})
	}))
	defer srv.Close()

	p, err := NewWithBaseURL("token123", srv.URL).GetProfile(context.Background(), "U1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.DisplayName != "小明" {
		t.Errorf("profile = %+v", p)
	}
}

func TestParseWebhookBody(t *testing.T) {
	body := []byte(`{"destination":"U0","events":[
		{"type":"message","replyToken":"rt","source":{"type":"user","userId":"U1"},
		 "message":{"id":"m1","type":"text","text":"菜單"}}]}`)
	req, err := ParseWebhookBody(body)
	if err != nil {
		t.Fatalf("ParseWebhookBody: %v", err)
	}
	if len(req.Events) != 1 {
		t.Fatalf("events = %d", len(req.Events))
	}
	ev := req.Events[0]
	if ev.Type != EventTypeMessage || ev.Source.UserID != "U1" || ev.Message.Text != "菜單" {
		t.Errorf("event = %+v", ev)
	}
}
