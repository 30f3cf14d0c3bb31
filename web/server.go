// Package web exposes the order intake endpoints: the JSON order form
// submission, the menu fetch, and the LINE webhook.
package web

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"snackshop-line/bot"
	"snackshop-line/config"
	"snackshop-line/line"
	"snackshop-line/models"
	"snackshop-line/services"
	"snackshop-line/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Notifier sends the post-order confirmation to LIFF users. Nil disables it.
type Notifier interface {
	Push(ctx context.Context, to, text string) error
}

type Server struct {
	store    store.Store
	menu     *services.MenuCache
	bot      *bot.Bot
	notifier Notifier
	cfg      *config.Config
}

func New(st store.Store, menu *services.MenuCache, b *bot.Bot, notifier Notifier, cfg *config.Config) *Server {
	return &Server{store: st, menu: menu, bot: b, notifier: notifier, cfg: cfg}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.Server.AllowOrigins,
		AllowMethods:  []string{"POST", "GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/", s.handleRoot)
	r.GET("/menu", s.handleMenu)
	r.POST("/", s.handleSubmit)
	r.POST("/webhook", s.handleWebhook)
	return r
}

// handleRoot keeps the original endpoint shape: GET ?action=menu returns the
// catalog, anything else a short service banner.
func (s *Server) handleRoot(c *gin.Context) {
	if c.Query("action") == "menu" {
		s.handleMenu(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "service": s.cfg.Restaurant.Name + " 線上訂餐"})
}

func (s *Server) handleMenu(c *gin.Context) {
	items, err := s.menu.Items(c.Request.Context())
	if err != nil {
		log.Printf("web: list menu: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "無法載入菜單"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "menu": items})
}

// handleSubmit accepts the web order. Validation failures and backend
// failures both come back as HTTP 200 with status:"error" so the form shows
// the message instead of blindly retrying; only transport-level errors are
// worth a client retry.
func (s *Server) handleSubmit(c *gin.Context) {
	var sub models.OrderSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "無效的訂單格式"})
		return
	}

	if err := validate.Struct(&sub); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "姓名、電話與取餐時間為必填，姓名至少2個字"})
		return
	}
	if !services.ValidPhone(sub.CustomerPhone) {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "手機號碼格式不正確 (例如: 0912345678)"})
		return
	}
	if _, err := services.ParsePickupTime(sub.PickupTime); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "取餐時間格式不正確"})
		return
	}

	ctx := c.Request.Context()
	items, err := s.menu.Items(ctx)
	if err != nil {
		log.Printf("web: list menu: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "系統忙碌中，請稍後再試"})
		return
	}

	// Totals are recomputed here; whatever totalAmount the client sent is
	// display-only and never trusted.
	parsed, err := priceSubmission(items, &sub)
	if err != nil {
		var perr *services.ParseError
		if errors.As(err, &perr) {
			c.JSON(http.StatusOK, gin.H{"status": "error", "message": perr.Error()})
			return
		}
		log.Printf("web: price order: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "系統忙碌中，請稍後再試"})
		return
	}
	parsed.Notes = services.SanitizeNote(sub.Notes)

	order, err := services.CreateOrder(ctx, s.store, services.CreateOrderInput{
		Source:         models.SourceWeb,
		PlatformUserID: platformUserID(&sub),
		CustomerName:   sub.CustomerName,
		CustomerPhone:  sub.CustomerPhone,
		PickupTime:     sub.PickupTime,
		Parsed:         parsed,
	})
	if err != nil {
		log.Printf("web: create order: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "系統忙碌中，請稍後再試"})
		return
	}

	if uid := platformUserID(&sub); uid != "" && s.notifier != nil {
		if err := s.notifier.Push(ctx, uid, bot.OrderCreatedText(order)); err != nil {
			log.Printf("web: push confirmation to %s: %v", uid, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "orderId": order.OrderID, "total": order.Total})
}

func priceSubmission(menu []models.MenuItem, sub *models.OrderSubmission) (*services.ParsedOrder, error) {
	if len(sub.Items) > 0 {
		return services.PriceLines(menu, sub.Items)
	}
	return services.PriceProductText(menu, sub.Product)
}

// platformUserID pulls the LINE user id from whichever field the form filled
// in; the old form sent the literal "未提供" when LIFF wasn't available.
func platformUserID(sub *models.OrderSubmission) string {
	for _, id := range []string{sub.LiffUserID, sub.CustomerLineID} {
		if id != "" && id != "未提供" {
			return id
		}
	}
	return ""
}

// handleWebhook always acknowledges with 200 once the batch is read, no
// matter what the handlers did, so LINE doesn't redeliver events.
func (s *Server) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}
	if secret := s.cfg.LINE.ChannelSecret; secret != "" {
		if !line.ValidateSignature(secret, body, c.GetHeader("X-Line-Signature")) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "bad signature"})
			return
		}
	}
	req, err := line.ParseWebhookBody(body)
	if err != nil {
		log.Printf("web: bad webhook body: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	s.bot.HandleEvents(c.Request.Context(), req.Events)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
