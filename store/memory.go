package store

import (
	"context"
	"sync"
	"time"

	"snackshop-line/models"
)

// Memory keeps all rows in slices and answers lookups by linear scan,
// matching how the original spreadsheet backend behaved. Used by tests and
// the "memory" store driver.
type Memory struct {
	mu     sync.Mutex
	menu   []models.MenuItem
	users  []models.UserBinding
	orders []models.Order
}

func NewMemory(menu []models.MenuItem) *Memory {
	m := &Memory{menu: make([]models.MenuItem, len(menu))}
	copy(m.menu, menu)
	return m
}

func (m *Memory) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuItem, len(m.menu))
	copy(out, m.menu)
	return out, nil
}

func (m *Memory) FindUserByPlatformID(ctx context.Context, platformUserID string) (*models.UserBinding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].PlatformUserID == platformUserID {
			b := m.users[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpsertUser(ctx context.Context, b models.UserBinding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i := range m.users {
		if m.users[i].PlatformUserID == b.PlatformUserID {
			if b.DisplayName != "" {
				m.users[i].DisplayName = b.DisplayName
			}
			if b.Phone != "" {
				m.users[i].Phone = b.Phone
			}
			m.users[i].LastSeenAt = now
			return nil
		}
	}
	b.FirstSeenAt = now
	b.LastSeenAt = now
	m.users = append(m.users, b)
	return nil
}

func (m *Memory) AppendOrder(ctx context.Context, o models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m *Memory) LatestOrderByPhone(ctx context.Context, phone string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Rows are append-only, so the last match is the newest.
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].CustomerPhone == phone {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// Orders returns a copy of all persisted orders, for tests.
func (m *Memory) Orders() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *Memory) Close() {}
