package store

import (
	"context"
	"errors"

	"snackshop-line/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, price, category, emoji FROM menu_items
		ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.Emoji); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) FindUserByPlatformID(ctx context.Context, platformUserID string) (*models.UserBinding, error) {
	var b models.UserBinding
	err := p.pool.QueryRow(ctx, `
		SELECT platform_user_id, display_name, phone, first_seen_at, last_seen_at
		FROM users WHERE platform_user_id = $1`,
		platformUserID,
	).Scan(&b.PlatformUserID, &b.DisplayName, &b.Phone, &b.FirstSeenAt, &b.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (p *Postgres) UpsertUser(ctx context.Context, b models.UserBinding) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO users (platform_user_id, display_name, phone, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (platform_user_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), users.display_name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), users.phone),
			last_seen_at = now()`,
		b.PlatformUserID, b.DisplayName, b.Phone,
	)
	return err
}

func (p *Postgres) AppendOrder(ctx context.Context, o models.Order) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO orders (
			order_id, source, customer_name, customer_phone, pickup_time,
			items, total, notes, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.OrderID, o.Source, o.CustomerName, o.CustomerPhone, o.PickupTime,
		o.Items, o.Total, o.Notes, o.Status, o.CreatedAt,
	)
	return err
}

func (p *Postgres) LatestOrderByPhone(ctx context.Context, phone string) (*models.Order, error) {
	var o models.Order
	err := p.pool.QueryRow(ctx, `
		SELECT order_id, source, customer_name, customer_phone, pickup_time,
			items, total, notes, status, created_at
		FROM orders WHERE customer_phone = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		phone,
	).Scan(&o.OrderID, &o.Source, &o.CustomerName, &o.CustomerPhone, &o.PickupTime,
		&o.Items, &o.Total, &o.Notes, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
