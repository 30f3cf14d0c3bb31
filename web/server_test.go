package web

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"snackshop-line/bot"
	"snackshop-line/config"
	"snackshop-line/line"
	"snackshop-line/models"
	"snackshop-line/services"
	"snackshop-line/store"

	"github.com/gin-gonic/gin"
)

type fakeAPI struct {
	replies int
	pushes  []string
}

func (f *fakeAPI) Reply(ctx context.Context, replyToken, text string) error {
	f.replies++
	return nil
}

func (f *fakeAPI) Push(ctx context.Context, to, text string) error {
	f.pushes = append(f.pushes, text)
	return nil
}

func (f *fakeAPI) GetProfile(ctx context.Context, userID string) (*line.Profile, error) {
	return &line.Profile{UserID: userID, DisplayName: "小明"}, nil
}

func newTestServer(t *testing.T, secret string) (*httptest.Server, *store.Memory, *fakeAPI) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory(models.FallbackMenu)
	api := &fakeAPI{}
	cfg := &config.Config{
		Server:     config.ServerConfig{AllowOrigins: []string{"*"}},
		LINE:       config.LINEConfig{ChannelSecret: secret},
		Restaurant: config.RestaurantConfig{Name: "台灣小吃店"},
	}
	menu := services.NewMenuCache(st, time.Minute)
	b := bot.New(st, menu, api, cfg.Restaurant)
	srv := httptest.NewServer(New(st, menu, b, api, cfg).Router())
	t.Cleanup(srv.Close)
	return srv, st, api
}

func postJSON(t *testing.T, url string, body interface{}) map[string]interface{} {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %s, want 200", resp.Status)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func validSubmission() models.OrderSubmission {
	return models.OrderSubmission{
		Source:        "web_app_react_liff",
		CustomerName:  "王小明",
		CustomerPhone: "0912345678",
		PickupTime:    time.Now().Add(time.Hour).Format("2006-01-02T15:04"),
		Items: []models.OrderLine{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 3, Quantity: 1},
		},
		Notes: "不要辣",
	}
}

func TestMenuEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, "")

	for _, url := range []string{srv.URL + "/?action=menu", srv.URL + "/menu"} {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("get %s: %v", url, err)
		}
		var out struct {
			Status string            `json:"status"`
			Menu   []models.MenuItem `json:"menu"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
		if out.Status != "success" || len(out.Menu) != len(models.FallbackMenu) {
			t.Errorf("%s: status=%q menu=%d", url, out.Status, len(out.Menu))
		}
	}
}

func TestSubmitOrder(t *testing.T) {
	srv, st, _ := newTestServer(t, "")

	out := postJSON(t, srv.URL+"/", validSubmission())
	if out["status"] != "success" {
		t.Fatalf("response = %v", out)
	}
	if out["orderId"] == "" || out["orderId"] == nil {
		t.Error("missing orderId")
	}

	orders := st.Orders()
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.Total != 135 {
		t.Errorf("total = %d, want recomputed 135", o.Total)
	}
	if o.Items != "滷肉飯 x2, 蚵仔煎 x1" {
		t.Errorf("items = %q", o.Items)
	}
	if o.Source != models.SourceWeb || o.Notes != "不要辣" {
		t.Errorf("order = %+v", o)
	}
}

func TestSubmitIgnoresClientTotal(t *testing.T) {
	srv, st, _ := newTestServer(t, "")

	sub := validSubmission()
	sub.TotalAmount = 1 // lying client
	postJSON(t, srv.URL+"/", sub)

	if got := st.Orders()[0].Total; got != 135 {
		t.Errorf("total = %d, client-sent amount must be ignored", got)
	}
}

func TestSubmitTwiceCreatesTwoOrders(t *testing.T) {
	// A client retry after a false timeout is not deduplicated.
	srv, st, _ := newTestServer(t, "")

	sub := validSubmission()
	first := postJSON(t, srv.URL+"/", sub)
	second := postJSON(t, srv.URL+"/", sub)

	if first["orderId"] == second["orderId"] {
		t.Errorf("both submissions got id %v, want distinct ids", first["orderId"])
	}
	if got := len(st.Orders()); got != 2 {
		t.Errorf("orders = %d, want 2", got)
	}
}

func TestSubmitValidation(t *testing.T) {
	srv, st, _ := newTestServer(t, "")

	tests := []struct {
		name   string
		mutate func(*models.OrderSubmission)
		want   string
	}{
		{"short name", func(s *models.OrderSubmission) { s.CustomerName = "王" }, "姓名"},
		{"bad phone", func(s *models.OrderSubmission) { s.CustomerPhone = "12345" }, "手機號碼"},
		{"bad pickup time", func(s *models.OrderSubmission) { s.PickupTime = "tomorrow" }, "取餐時間"},
		{"no items", func(s *models.OrderSubmission) { s.Items = nil }, ""},
		{"unknown item", func(s *models.OrderSubmission) {
			s.Items = []models.OrderLine{{MenuItemID: 99, Quantity: 1}}
		}, "編號"},
		{"zero quantity", func(s *models.OrderSubmission) {
			s.Items = []models.OrderLine{{MenuItemID: 1, Quantity: 0}}
		}, "數量"},
		{"over max quantity", func(s *models.OrderSubmission) {
			s.Items = []models.OrderLine{{MenuItemID: 1, Quantity: 21}}
		}, "數量"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)
			out := postJSON(t, srv.URL+"/", sub)
			if out["status"] != "error" {
				t.Fatalf("response = %v, want error", out)
			}
			if tt.want != "" && !strings.Contains(out["message"].(string), tt.want) {
				t.Errorf("message = %q, want it to mention %q", out["message"], tt.want)
			}
		})
	}
	if got := len(st.Orders()); got != 0 {
		t.Errorf("orders = %d, rejected submissions must not persist", got)
	}
}

func TestSubmitProductText(t *testing.T) {
	srv, st, _ := newTestServer(t, "")

	sub := validSubmission()
	sub.Items = nil
	sub.Product = "滷肉飯 x2, 蚵仔煎 x1"
	out := postJSON(t, srv.URL+"/", sub)
	if out["status"] != "success" {
		t.Fatalf("response = %v", out)
	}
	if got := st.Orders()[0].Total; got != 135 {
		t.Errorf("total = %d, want 135", got)
	}
}

func TestSubmitWithLiffUserPushesAndBinds(t *testing.T) {
	srv, st, api := newTestServer(t, "")

	sub := validSubmission()
	sub.LiffUserID = "U42"
	postJSON(t, srv.URL+"/", sub)

	if len(api.pushes) != 1 || !strings.Contains(api.pushes[0], "訂單已成立") {
		t.Errorf("pushes = %v, want one confirmation", api.pushes)
	}
	binding, err := st.FindUserByPlatformID(context.Background(), "U42")
	if err != nil {
		t.Fatalf("binding: %v", err)
	}
	if binding.Phone != "0912345678" {
		t.Errorf("bound phone = %q", binding.Phone)
	}
}

func TestWebhookAlwaysAcks(t *testing.T) {
	srv, st, api := newTestServer(t, "")

	body := `{"events":[
		{"type":"follow","replyToken":"r1","source":{"userId":"U1"}},
		{"type":"message","replyToken":"r2","source":{"userId":"U1"},"message":{"type":"text","text":"菜單"}},
		{"type":"message","replyToken":"r3","source":{"userId":"U1"},"message":{"type":"text","text":"這不是指令也不是訂單"}}
	]}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %s, want 200 even with a failing command inside", resp.Status)
	}
	if api.replies != 3 {
		t.Errorf("replies = %d, want 3 (follow, menu, error reply)", api.replies)
	}
	if got := len(st.Orders()); got != 0 {
		t.Errorf("orders = %d, want 0", got)
	}
}

func TestWebhookSignature(t *testing.T) {
	srv, _, _ := newTestServer(t, "secret")

	body := []byte(`{"events":[]}`)

	// Missing/garbage signature is rejected.
	resp, err := http.Post(srv.URL+"/webhook", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unsigned: status = %s, want 400", resp.Status)
	}

	// A correctly signed body passes.
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signBody("secret", body))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("signed post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signed: status = %s, want 200", resp.Status)
	}
}
