package store

import (
	"context"
	"errors"
	"time"

	"snackshop-line/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo backs the three tables with collections of the same names. Selected
// with STORE_DRIVER=mongo.
type Mongo struct {
	client *mongo.Client
	menu   *mongo.Collection
	users  *mongo.Collection
	orders *mongo.Collection
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := client.Database(database)
	m := &Mongo{
		client: client,
		menu:   db.Collection("menu"),
		users:  db.Collection("users"),
		orders: db.Collection("orders"),
	}
	if err := m.seedMenu(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// seedMenu loads the built-in catalog into an empty menu collection.
func (m *Mongo) seedMenu(ctx context.Context) error {
	n, err := m.menu.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	docs := make([]interface{}, len(models.FallbackMenu))
	for i, it := range models.FallbackMenu {
		docs[i] = it
	}
	_, err = m.menu.InsertMany(ctx, docs)
	return err
}

func (m *Mongo) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	cur, err := m.menu.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.MenuItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *Mongo) FindUserByPlatformID(ctx context.Context, platformUserID string) (*models.UserBinding, error) {
	var b models.UserBinding
	err := m.users.FindOne(ctx, bson.M{"platform_user_id": platformUserID}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (m *Mongo) UpsertUser(ctx context.Context, b models.UserBinding) error {
	now := time.Now()
	existing, err := m.FindUserByPlatformID(ctx, b.PlatformUserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		if b.DisplayName == "" {
			b.DisplayName = existing.DisplayName
		}
		if b.Phone == "" {
			b.Phone = existing.Phone
		}
		b.FirstSeenAt = existing.FirstSeenAt
	} else {
		b.FirstSeenAt = now
	}
	b.LastSeenAt = now

	// Read-then-replace mirrors the original row-scan upsert; concurrent
	// writes race last-write-wins, which is accepted.
	_, err = m.users.ReplaceOne(ctx,
		bson.M{"platform_user_id": b.PlatformUserID},
		b,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *Mongo) AppendOrder(ctx context.Context, o models.Order) error {
	_, err := m.orders.InsertOne(ctx, o)
	return err
}

func (m *Mongo) LatestOrderByPhone(ctx context.Context, phone string) (*models.Order, error) {
	var o models.Order
	err := m.orders.FindOne(ctx,
		bson.M{"customer_phone": phone},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (m *Mongo) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.client.Disconnect(ctx)
}
