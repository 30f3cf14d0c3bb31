// Package bot dispatches LINE chat commands: menu, help, bind, status, and
// order text. Every handler returns a user-displayable string; internal
// faults never escape to the webhook response.
package bot

import (
	"context"
	"errors"
	"log"

	"snackshop-line/config"
	"snackshop-line/line"
	"snackshop-line/models"
	"snackshop-line/services"
	"snackshop-line/store"
)

// Messenger is the outbound side of the LINE API the bot needs.
type Messenger interface {
	Reply(ctx context.Context, replyToken, text string) error
	Push(ctx context.Context, to, text string) error
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

type Bot struct {
	store      store.Store
	menu       *services.MenuCache
	api        Messenger
	restaurant config.RestaurantConfig
}

func New(st store.Store, menu *services.MenuCache, api Messenger, restaurant config.RestaurantConfig) *Bot {
	return &Bot{store: st, menu: menu, api: api, restaurant: restaurant}
}

// HandleEvents processes one webhook batch. Each event is isolated: a
// failing handler becomes an error reply (or a log line), never a webhook
// failure, so the platform doesn't redeliver the batch.
func (b *Bot) HandleEvents(ctx context.Context, events []line.Event) {
	for _, ev := range events {
		var reply string
		switch {
		case ev.Type == line.EventTypeFollow:
			reply = b.handleFollow(ctx, ev.Source.UserID)
		case ev.Type == line.EventTypeMessage && ev.Message.Type == line.MessageTypeText:
			reply = b.HandleText(ctx, ev.Source.UserID, ev.Message.Text)
		default:
			continue
		}
		if reply == "" {
			continue
		}
		if err := b.api.Reply(ctx, ev.ReplyToken, reply); err != nil {
			log.Printf("bot: reply to %s failed: %v", ev.Source.UserID, err)
		}
	}
}

// HandleText runs one text command and returns the reply to send. Every
// command except 綁定 records the interaction first; bind itself requires a
// prior interaction, so a first-contact bind gets prompted instead.
func (b *Bot) HandleText(ctx context.Context, userID, text string) string {
	cmd := ParseCommand(text)
	if cmd.Kind != CmdBind {
		b.touchUser(ctx, userID)
	}

	switch cmd.Kind {
	case CmdMenu:
		return b.handleMenu(ctx)
	case CmdHelp:
		return helpText()
	case CmdBind:
		return b.handleBind(ctx, userID, cmd.Arg)
	case CmdStatus:
		return b.handleStatus(ctx, userID)
	case CmdOrder:
		return b.handleOrder(ctx, userID, cmd.Arg)
	}
	return helpText() // unreachable: ParseCommand covers every kind
}

// touchUser records the interaction so 綁定 can later find the caller.
func (b *Bot) touchUser(ctx context.Context, userID string) {
	binding := models.UserBinding{PlatformUserID: userID}
	if _, err := b.store.FindUserByPlatformID(ctx, userID); errors.Is(err, store.ErrNotFound) {
		if p, perr := b.api.GetProfile(ctx, userID); perr == nil {
			binding.DisplayName = p.DisplayName
		}
	}
	if err := b.store.UpsertUser(ctx, binding); err != nil {
		log.Printf("bot: upsert user %s: %v", userID, err)
	}
}

func (b *Bot) handleFollow(ctx context.Context, userID string) string {
	b.touchUser(ctx, userID)
	return welcomeText(b.restaurant)
}

func (b *Bot) handleMenu(ctx context.Context) string {
	items, err := b.menu.Items(ctx)
	if err != nil {
		log.Printf("bot: list menu: %v", err)
		return msgSystemBusy
	}
	return menuText(b.restaurant, items)
}

func (b *Bot) handleBind(ctx context.Context, userID, arg string) string {
	if _, err := b.store.FindUserByPlatformID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgNotSeenYet
		}
		log.Printf("bot: find user %s: %v", userID, err)
		return msgSystemBusy
	}
	phone := services.NormalizePhone(arg)
	if !services.ValidPhone(phone) {
		return msgBindUsage
	}
	if err := b.store.UpsertUser(ctx, models.UserBinding{PlatformUserID: userID, Phone: phone}); err != nil {
		log.Printf("bot: bind %s: %v", userID, err)
		return msgSystemBusy
	}
	return bindOKText(phone)
}

func (b *Bot) handleStatus(ctx context.Context, userID string) string {
	binding, err := b.store.FindUserByPlatformID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgNotSeenYet
		}
		log.Printf("bot: find user %s: %v", userID, err)
		return msgSystemBusy
	}
	if binding.Phone == "" {
		return msgBindFirst
	}
	order, err := b.store.LatestOrderByPhone(ctx, binding.Phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgNoOrders
		}
		log.Printf("bot: latest order for %s: %v", userID, err)
		return msgSystemBusy
	}
	return statusText(order)
}

func (b *Bot) handleOrder(ctx context.Context, userID, text string) string {
	binding, err := b.store.FindUserByPlatformID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgNotSeenYet
		}
		log.Printf("bot: find user %s: %v", userID, err)
		return msgSystemBusy
	}
	if binding.Phone == "" {
		return msgBindFirst
	}

	items, err := b.menu.Items(ctx)
	if err != nil {
		log.Printf("bot: list menu: %v", err)
		return msgSystemBusy
	}
	parsed, err := services.ParseOrderText(items, text)
	if err != nil {
		var perr *services.ParseError
		if errors.As(err, &perr) {
			return perr.Error()
		}
		log.Printf("bot: parse order for %s: %v", userID, err)
		return msgSystemBusy
	}

	order, err := services.CreateOrder(ctx, b.store, services.CreateOrderInput{
		Source:         models.SourceLINE,
		PlatformUserID: userID,
		CustomerName:   binding.DisplayName,
		CustomerPhone:  binding.Phone,
		Parsed:         parsed,
	})
	if err != nil {
		log.Printf("bot: create order for %s: %v", userID, err)
		return msgSystemBusy
	}
	return OrderCreatedText(order)
}
