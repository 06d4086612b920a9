package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/media"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/payment/razorpay"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
	gets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return false, c.err
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return c.err
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, _ := event.(map[string]any)
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (r *eventRecorder) Close() error { return nil }

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	indexed map[uuid.UUID]string
	deleted []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[uuid.UUID]string{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed[p.ID] = p.Name
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

type fakeStore struct {
	uploaded []string
	deleted  []string
	failOn   string
}

func (s *fakeStore) Upload(_ context.Context, name, _ string, r io.Reader) (media.Image, error) {
	if name == s.failOn {
		return media.Image{}, errors.New("disk full")
	}
	if _, err := io.ReadAll(r); err != nil {
		return media.Image{}, err
	}
	id := "products/" + name
	s.uploaded = append(s.uploaded, id)
	return media.Image{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (s *fakeStore) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

type fakeGateway struct {
	last razorpay.OrderRequest
	err  error
}

func (g *fakeGateway) CreateOrder(_ context.Context, in razorpay.OrderRequest) (*razorpay.Order, error) {
	g.last = in
	if g.err != nil {
		return nil, g.err
	}
	return &razorpay.Order{ID: "order_rzp_1", Amount: in.Amount, Currency: in.Currency, Receipt: in.Receipt, Status: "created"}, nil
}

var defaultSettings = models.Settings{
	StoreName:             "Clothing Shop",
	TaxRate:               18,
	ShippingFee:           100,
	FreeShippingThreshold: 500,
	Currency:              "INR",
}

type env struct {
	repo     *repo.GormRepo
	events   *eventRecorder
	settings *SettingsService
	catalog  *CatalogService
	orders   *OrderService
	cart     *CartService
	index    *fakeIndex
	images   *fakeStore
	cache    *memCache
}

func newEnv(t *testing.T) *env {
	t.Helper()
	r := &repo.GormRepo{DB: testutil.NewDB(t)}
	ev := &eventRecorder{}
	mc := newMemCache()
	idx := newFakeIndex()
	imgs := &fakeStore{}

	settings := &SettingsService{Repo: r, Cache: mc, TTL: time.Minute, Defaults: defaultSettings}
	orders := &OrderService{Repo: r, Settings: settings, Events: ev}
	return &env{
		repo:     r,
		events:   ev,
		settings: settings,
		catalog:  &CatalogService{Repo: r, Index: idx, Images: imgs, Events: ev},
		orders:   orders,
		cart:     &CartService{Repo: r, Orders: orders, Events: ev},
		index:    idx,
		images:   imgs,
		cache:    mc,
	}
}

func (e *env) product(t *testing.T, p models.Product) models.Product {
	t.Helper()
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	if p.Category == "" {
		p.Category = "men"
	}
	p.IsActive = true
	require.NoError(t, e.repo.CreateProduct(context.Background(), &p))
	return p
}

func ptr[T any](v T) *T { return &v }
