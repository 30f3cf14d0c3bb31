package services

import (
	"context"
	"time"

	"snackshop-line/models"
	"snackshop-line/store"
)

type CreateOrderInput struct {
	Source         string
	PlatformUserID string // LINE/LIFF user id, empty for anonymous web orders
	CustomerName   string
	CustomerPhone  string
	PickupTime     string
	Parsed         *ParsedOrder
}

// CreateOrder persists a validated, priced order and returns the stored
// record. If the order carries a platform user id the phone is attached to
// that user's binding, so later chat orders skip the bind step.
func CreateOrder(ctx context.Context, st store.Store, in CreateOrderInput) (*models.Order, error) {
	o := models.Order{
		OrderID:       NewOrderID(),
		Source:        in.Source,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		PickupTime:    in.PickupTime,
		Items:         in.Parsed.ItemsText(),
		Total:         in.Parsed.Total,
		Notes:         in.Parsed.Notes,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := st.AppendOrder(ctx, o); err != nil {
		return nil, err
	}
	if in.PlatformUserID != "" {
		// Best effort: the order is already in; a failed binding update
		// only costs the user a manual 綁定 later.
		_ = st.UpsertUser(ctx, models.UserBinding{
			PlatformUserID: in.PlatformUserID,
			DisplayName:    in.CustomerName,
			Phone:          in.CustomerPhone,
		})
	}
	return &o, nil
}

// pickupTimeLayouts covers what datetime-local inputs and API clients send.
var pickupTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParsePickupTime parses an ISO-local pickup time string.
func ParsePickupTime(s string) (time.Time, error) {
	var err error
	for _, layout := range pickupTimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
