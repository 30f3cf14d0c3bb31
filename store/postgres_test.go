package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"snackshop-line/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration test; requires a migrated database. Skipped unless
// TEST_DATABASE_URL is set (and in -short mode).
func TestPostgres_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping postgres integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	st := NewPostgres(pool)

	userID := fmt.Sprintf("UTEST%d", time.Now().UnixNano())
	phone := "0999999999"
	defer func() {
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE platform_user_id = $1`, userID)
		_, _ = pool.Exec(ctx, `DELETE FROM orders WHERE customer_phone = $1`, phone)
	}()

	if _, err := st.FindUserByPlatformID(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup before insert: err = %v, want ErrNotFound", err)
	}
	if err := st.UpsertUser(ctx, models.UserBinding{PlatformUserID: userID, DisplayName: "測試"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.UpsertUser(ctx, models.UserBinding{PlatformUserID: userID, Phone: phone}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	b, err := st.FindUserByPlatformID(ctx, userID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.DisplayName != "測試" || b.Phone != phone {
		t.Errorf("binding = %+v, display name must survive the phone update", b)
	}

	first := models.Order{
		OrderID: "ORD-ITEST-1", Source: models.SourceWeb, CustomerName: "測試",
		CustomerPhone: phone, Items: "滷肉飯 x1", Total: 35,
		Status: models.OrderStatusPending, CreatedAt: time.Now().Add(-time.Minute),
	}
	second := first
	second.OrderID = "ORD-ITEST-2"
	second.CreatedAt = time.Now()
	if err := st.AppendOrder(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.AppendOrder(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	latest, err := st.LatestOrderByPhone(ctx, phone)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.OrderID != "ORD-ITEST-2" {
		t.Errorf("latest = %s, want ORD-ITEST-2", latest.OrderID)
	}

	menu, err := st.ListMenu(ctx)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu) == 0 {
		t.Error("menu should be seeded by migrations")
	}
}
