package models

import "time"

const (
	SourceWeb  = "WEB"
	SourceLINE = "LINE"
)

const (
	OrderStatusPending  = "pending"
	OrderStatusReady    = "ready"
	OrderStatusPickedUp = "picked_up"
)

// OrderLine is one parsed "item x quantity" entry before pricing.
type OrderLine struct {
	MenuItemID int64 `json:"id"`
	Quantity   int   `json:"quantity"`
}

// Order is a row from the orders table.
type Order struct {
	OrderID       string    `json:"orderId" bson:"order_id"`
	Source        string    `json:"source" bson:"source"`
	CustomerName  string    `json:"customerName" bson:"customer_name"`
	CustomerPhone string    `json:"customerPhone" bson:"customer_phone"`
	PickupTime    string    `json:"pickupTime" bson:"pickup_time"`
	Items         string    `json:"items" bson:"items"` // human-readable join: "滷肉飯 x2, 蚵仔煎 x1"
	Total         int64     `json:"total" bson:"total"`
	Notes         string    `json:"notes" bson:"notes"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// OrderSubmission is the JSON payload the web form (and the Go client) posts
// to the intake endpoint. TotalAmount is informational only; the server
// always recomputes the total from the menu.
type OrderSubmission struct {
	Source         string      `json:"source"`
	LiffUserID     string      `json:"liffUserId"`
	CustomerName   string      `json:"customerName" validate:"required,min=2"`
	CustomerPhone  string      `json:"customerPhone" validate:"required"`
	CustomerLineID string      `json:"customerLineId"`
	Product        string      `json:"product"`
	Items          []OrderLine `json:"items"`
	TotalAmount    int64       `json:"totalAmount"`
	PickupTime     string      `json:"pickupTime" validate:"required"`
	Notes          string      `json:"notes"`
	Timestamp      string      `json:"timestamp"`
}
