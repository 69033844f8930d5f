package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// fakeDynamo is an in-memory table that understands the few condition and
// filter expressions the store emits.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	puts  int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func strAttr(m map[string]types.AttributeValue, k string) string {
	if v, ok := m[k].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	if v, ok := m[k].(*types.AttributeValueMemberN); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := strAttr(in.Item, "id")
	cur, exists := f.items[id]
	cond := ""
	if in.ConditionExpression != nil {
		cond = *in.ConditionExpression
	}
	switch {
	case strings.Contains(cond, "attribute_not_exists"):
		if exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	case strings.Contains(cond, ":expected_status"):
		if !exists ||
			strAttr(cur, "status") != strAttr(in.ExpressionAttributeValues, ":expected_status") ||
			strAttr(cur, "version") != strAttr(in.ExpressionAttributeValues, ":expected_version") {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[id] = in.Item
	f.puts++
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[strAttr(in.Key, "id")]}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]types.AttributeValue
	for _, it := range f.items {
		if v := strAttr(in.ExpressionAttributeValues, ":customer_id"); v != "" && strAttr(it, "customer_id") != v {
			continue
		}
		if v := strAttr(in.ExpressionAttributeValues, ":status"); v != "" && strAttr(it, "status") != v {
			continue
		}
		out = append(out, it)
	}
	return &dynamodb.ScanOutput{Items: out}, nil
}

func TestDynamoDesignStore_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewDynamoDesignStore(newFakeDynamo(), "designs")

	d := newDesign("c1", domain.StatusQuoted)
	d.Color = "Navy"
	d.CurrentQuote = &domain.Quote{Amount: decimal.RequireFromString("1200.50"), Message: "incl. shipping", At: time.Now().UTC()}
	d.NegotiationHistory = []domain.QuoteEntry{{OfferedBy: domain.PartyCustomer, Amount: decimal.NewFromInt(900), At: time.Now().UTC()}}
	if err := s.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, d); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second create err = %v; want ErrDuplicate", err)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CustomerID != "c1" || got.Color != "Navy" || got.Version != 1 || got.Status != domain.StatusQuoted {
		t.Fatalf("scalar fields mismatch: %+v", got)
	}
	if got.CurrentQuote == nil || !got.CurrentQuote.Amount.Equal(decimal.RequireFromString("1200.5")) {
		t.Fatalf("quote mismatch: %+v", got.CurrentQuote)
	}
	if len(got.NegotiationHistory) != 1 || got.SellerResponse != nil || got.OrderID != nil {
		t.Fatalf("nested fields mismatch: %+v", got)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v; want ErrNotFound", err)
	}
}

func TestDynamoDesignStore_SwapIsConditional(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	s := NewDynamoDesignStore(fake, "designs")

	d := newDesign("c1", domain.StatusApproved)
	d.CurrentQuote = &domain.Quote{Amount: decimal.NewFromInt(1000)}
	if err := s.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	next := d.Clone()
	oid := "o1"
	next.Status, next.OrderID = domain.StatusCompleted, &oid
	if err := s.Swap(ctx, next, domain.StatusApproved, 1); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if next.Version != 2 {
		t.Fatalf("version = %d; want 2", next.Version)
	}

	stale := d.Clone()
	stale.Status = domain.StatusRejected
	if err := s.Swap(ctx, stale, domain.StatusApproved, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale swap err = %v; want ErrConflict", err)
	}
	got, _ := s.Get(ctx, d.ID)
	if got.Status != domain.StatusCompleted || got.OrderID == nil || *got.OrderID != "o1" {
		t.Fatalf("stored = %+v", got)
	}

	ghost := newDesign("c1", domain.StatusPending)
	ghost.ID = "ghost"
	if err := s.Swap(ctx, ghost, domain.StatusPending, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ghost swap err = %v; want ErrNotFound", err)
	}
}

func TestDynamoDesignStore_ListAndStats(t *testing.T) {
	ctx := context.Background()
	s := NewDynamoDesignStore(newFakeDynamo(), "designs")
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	var ids []string
	for _, c := range []string{"c1", "c1", "c2"} {
		d := newDesign(c, domain.StatusPending)
		if err := s.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, d.ID)
	}

	page, total, err := s.List(ctx, DesignFilter{CustomerID: "c1"}, 0, 10)
	if err != nil || total != 2 || len(page) != 2 {
		t.Fatalf("list c1 = %d/%d, %v", len(page), total, err)
	}
	if page[0].ID != ids[1] {
		t.Fatalf("most recently updated first, got %s", page[0].ID)
	}

	page, total, err = s.List(ctx, DesignFilter{}, 2, 10)
	if err != nil || total != 3 || len(page) != 1 {
		t.Fatalf("offset page = %d/%d, %v", len(page), total, err)
	}
	page, _, _ = s.List(ctx, DesignFilter{}, 5, 10)
	if len(page) != 0 {
		t.Fatalf("offset past end should be empty")
	}

	n, latest, err := s.Stats(ctx, DesignFilter{})
	if err != nil || n != 3 || !latest.Equal(base.Add(3*time.Minute)) {
		t.Fatalf("stats = %d, %v, %v", n, latest, err)
	}
	n, latest, err = s.Stats(ctx, DesignFilter{Status: domain.StatusCompleted})
	if err != nil || n != 0 || latest != nil {
		t.Fatalf("empty stats = %d, %v, %v", n, latest, err)
	}
}

func TestDesignItem_Encoding(t *testing.T) {
	oid := "o1"
	d := &domain.DesignRequest{ID: "d1", CustomerID: "c", Status: domain.StatusCompleted, OrderID: &oid, Version: 4}
	it, err := toDesignItem(d)
	if err != nil {
		t.Fatalf("toDesignItem: %v", err)
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		t.Fatalf("MarshalMap: %v", err)
	}
	if _, ok := av["current_quote"]; ok {
		t.Fatalf("empty nested values must be omitted")
	}
	if v, ok := av["version"].(*types.AttributeValueMemberN); !ok || v.Value != "4" {
		t.Fatalf("version must be numeric, got %#v", av["version"])
	}
}
