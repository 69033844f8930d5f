package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:designsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection serializes concurrent writers instead of failing
	// them with shared-cache table locks.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// sqlRepos proxies the repo functions for the service interfaces.
type sqlRepos struct{}

func (sqlRepos) CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	return repo.CreateOrder(ctx, db, o)
}
func (sqlRepos) GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	return repo.GetOrder(ctx, db, id)
}
func (sqlRepos) GetOrderByDesign(ctx context.Context, db *gorm.DB, designID string) (*domain.Order, error) {
	return repo.GetOrderByDesign(ctx, db, designID)
}
func (sqlRepos) UpdateOrderStatus(ctx context.Context, db *gorm.DB, id string, from, to domain.OrderStatus) error {
	return repo.UpdateOrderStatus(ctx, db, id, from, to)
}
func (sqlRepos) CreateAddress(ctx context.Context, db *gorm.DB, a *domain.Address) error {
	return repo.CreateAddress(ctx, db, a)
}
func (sqlRepos) ListAddresses(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Address, error) {
	return repo.ListAddresses(ctx, db, customerID)
}
func (sqlRepos) FindShippingAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	return repo.FindShippingAddress(ctx, db, customerID)
}
func (sqlRepos) CreatePlaceholderAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	return repo.CreatePlaceholderAddress(ctx, db, customerID)
}
func (sqlRepos) GetIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, userID, designID, key, now)
}
func (sqlRepos) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, userID, designID, key, resourceID, status, ttl)
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []notify.DesignEvent
}

func (r *recorder) Publish(_ context.Context, ev notify.DesignEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// clock hands out strictly increasing timestamps.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var (
	customer = workflow.Actor{ID: "cust-1", Role: workflow.RoleCustomer}
	other    = workflow.Actor{ID: "cust-2", Role: workflow.RoleCustomer}
	seller   = workflow.Actor{ID: "seller-1", Role: workflow.RoleSeller}
)

type fixture struct {
	db      *gorm.DB
	designs *DesignService
	fulfil  *FulfillmentService
	address *AddressService
	events  *recorder
	clock   *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	store := repo.NewSQLDesignStore(db)
	rec := &recorder{}
	clk := newClock()

	ds := NewDesignService(store, rec)
	ds.Now = clk.Now

	fs := &FulfillmentService{
		DB:          db,
		Designs:     store,
		Orders:      sqlRepos{},
		Addresses:   sqlRepos{},
		Idempotency: sqlRepos{},
		Notifier:    rec,
		Now:         clk.Now,
	}
	return &fixture{
		db:      db,
		designs: ds,
		fulfil:  fs,
		address: &AddressService{DB: db, Repo: sqlRepos{}},
		events:  rec,
		clock:   clk,
	}
}

func (f *fixture) submit(t *testing.T) *domain.DesignRequest {
	t.Helper()
	d, err := f.designs.Submit(context.Background(), customer, SubmitInput{
		ImageURL:    "https://img.example/d.png",
		Description: "team logo on the front",
		Quantity:    2,
		Size:        "m",
		Color:       "navy blue",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return d
}

// approved drives a fresh design to approved at amount.
func (f *fixture) approved(t *testing.T, amount string) *domain.DesignRequest {
	t.Helper()
	ctx := context.Background()
	d := f.submit(t)
	if _, err := f.designs.Quote(ctx, seller, d.ID, amount, ""); err != nil {
		t.Fatalf("quote: %v", err)
	}
	d, err := f.designs.Respond(ctx, customer, d.ID, "accept", "", "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return d
}

func (f *fixture) addAddress(t *testing.T, who workflow.Actor) *domain.Address {
	t.Helper()
	a, err := f.address.Create(context.Background(), who, AddressInput{
		Name: "Asha", Line1: "12 MG Road", City: "Pune", Country: "IN",
	})
	if err != nil {
		t.Fatalf("add address: %v", err)
	}
	return a
}
