package store

import (
	"context"
	"errors"

	"snackshop-line/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store is the narrow persistence surface the handlers are written against.
// The original system backed these with spreadsheet row scans; any backend
// that keeps the append-only three-table shape (menu, users, orders) fits.
type Store interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	FindUserByPlatformID(ctx context.Context, platformUserID string) (*models.UserBinding, error)
	// UpsertUser creates the binding on first contact. On update, empty
	// DisplayName/Phone fields keep the stored values; LastSeenAt always
	// advances. Last write wins, no transactional guarantee.
	UpsertUser(ctx context.Context, b models.UserBinding) error
	AppendOrder(ctx context.Context, o models.Order) error
	LatestOrderByPhone(ctx context.Context, phone string) (*models.Order, error)
	Close()
}
