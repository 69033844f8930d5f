package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/repo"
)

// Scenario A: submit, quote 1200, accept, pay, convert.
func TestConvertToOrder_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.addAddress(t, customer)

	d := f.approved(t, "1200")
	if d.Status != domain.StatusApproved {
		t.Fatalf("status = %s; want approved", d.Status)
	}
	if _, err := f.designs.RecordPayment(ctx, customer, d.ID, PaymentInput{Amount: "1200", Method: "Razorpay", Status: "Paid", Details: "pay_1"}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	createdBefore := testutil.ToFloat64(ordersCreated)
	res, err := f.fulfil.ConvertToOrder(ctx, customer, d.ID, ConvertInput{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.Warning != "" || res.Replayed {
		t.Fatalf("unexpected result flags: %+v", res)
	}
	o := res.Order
	if o.Amount.String() != "1200" || o.CustomerID != customer.ID || o.AddressID != addr.ID {
		t.Fatalf("order = %+v", o)
	}
	if o.PaymentMethod != "Razorpay" || o.PaymentStatus != domain.PaymentPaid || o.PaymentDetails != "pay_1" {
		t.Fatalf("payment fields not taken from advance payment: %+v", o)
	}
	if len(o.Items) != 1 || !o.Items[0].IsCustomDesign || o.Items[0].Quantity != 2 ||
		o.Items[0].Size != domain.SizeM || o.Items[0].DesignID == nil || *o.Items[0].DesignID != d.ID {
		t.Fatalf("items = %+v", o.Items)
	}
	if res.Design.Status != domain.StatusCompleted || res.Design.OrderID == nil || *res.Design.OrderID != o.ID {
		t.Fatalf("design = %+v", res.Design)
	}
	if got := testutil.ToFloat64(ordersCreated); got != createdBefore+1 {
		t.Fatalf("orders created = %v; want %v", got, createdBefore+1)
	}

	stored, err := f.fulfil.GetOrder(ctx, customer, o.ID)
	if err != nil || len(stored.Items) != 1 {
		t.Fatalf("get order: %v %+v", err, stored)
	}
	types := f.events.types()
	if types[len(types)-1] != notify.EventConverted {
		t.Fatalf("last event = %v", types[len(types)-1])
	}
}

func TestConvertToOrder_SecondCallAlreadyConverted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	d := f.approved(t, "500")

	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"}); err != nil {
		t.Fatalf("first convert: %v", err)
	}
	for _, who := range []string{"seller", "customer"} {
		actor := seller
		if who == "customer" {
			actor = customer
		}
		if _, err := f.fulfil.ConvertToOrder(ctx, actor, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrAlreadyConverted) {
			t.Fatalf("%s second convert err = %v; want ErrAlreadyConverted", who, err)
		}
	}

	var n int64
	f.db.Model(&domain.Order{}).Where("design_id = ?", d.ID).Count(&n)
	if n != 1 {
		t.Fatalf("orders for design = %d; want 1", n)
	}
}

func TestConvertToOrder_MissingAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.approved(t, "700")
	if _, err := f.designs.RecordPayment(ctx, customer, d.ID, PaymentInput{Amount: "700", Method: "UPI", Status: "Paid"}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.fulfil.ConvertToOrder(ctx, customer, d.ID, ConvertInput{}); !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("customer convert err = %v; want ErrMissingAddress", err)
	}
	got, _ := f.designs.Get(ctx, customer, d.ID)
	if got.Status != domain.StatusApproved || got.OrderID != nil {
		t.Fatalf("design changed after failed convert: %+v", got)
	}

	res, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{})
	if err != nil {
		t.Fatalf("seller convert: %v", err)
	}
	var addr domain.Address
	if err := f.db.Where("id = ?", res.Order.AddressID).First(&addr).Error; err != nil {
		t.Fatalf("load address: %v", err)
	}
	if !addr.IsPlaceholder || addr.CustomerID != customer.ID {
		t.Fatalf("address = %+v; want customer placeholder", addr)
	}
}

func TestConvertToOrder_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)

	// Not approved yet.
	pending := f.submit(t)
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, pending.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending convert err = %v; want ErrInvalidTransition", err)
	}

	d := f.approved(t, "900")
	// Customers must pay first.
	if _, err := f.fulfil.ConvertToOrder(ctx, customer, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unpaid customer convert err = %v; want ErrInvalidTransition", err)
	}
	// Another customer is not allowed.
	if _, err := f.fulfil.ConvertToOrder(ctx, other, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign convert err = %v; want ErrNotFound", err)
	}
	// Sellers need a payment method when nothing was recorded.
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no method convert err = %v; want ErrInvalidInput", err)
	}
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash", PaymentStatus: "nope"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status convert err = %v; want ErrInvalidInput", err)
	}
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, "missing", ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing design err = %v; want ErrNotFound", err)
	}

	res, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("seller convert: %v", err)
	}
	if res.Order.PaymentStatus != domain.PaymentPending {
		t.Fatalf("payment status = %s; want Pending default", res.Order.PaymentStatus)
	}
}

func TestConvertToOrder_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	d := f.approved(t, "400")

	in := ConvertInput{PaymentMethod: "cash", IdempotencyKey: "convert-1"}
	first, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !second.Replayed || second.Order.ID != first.Order.ID {
		t.Fatalf("replay = %+v; want same order %s", second, first.Order.ID)
	}
	if second.Design == nil || second.Design.Status != domain.StatusCompleted {
		t.Fatalf("replayed design = %+v", second.Design)
	}

	// A different key still hits the one-order guarantee.
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash", IdempotencyKey: "convert-2"}); !errors.Is(err, ErrAlreadyConverted) {
		t.Fatalf("err = %v; want ErrAlreadyConverted", err)
	}
}

// failingSwap wraps a store and fails every Swap.
type failingSwap struct {
	DesignStore
	err error
}

func (s failingSwap) Swap(context.Context, *domain.DesignRequest, domain.Status, int64) error {
	return s.err
}

func TestConvertToOrder_StatusUpdateFailureReturnsWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	d := f.approved(t, "650")

	realStore := f.fulfil.Designs
	f.fulfil.Designs = failingSwap{DesignStore: realStore, err: errors.New("store unavailable")}

	syncBefore := testutil.ToFloat64(statusSyncFailures)
	res, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("convert must not fail once the order exists: %v", err)
	}
	if res.Warning != WarningStatusNotSynced || res.Order == nil {
		t.Fatalf("result = %+v; want order with warning", res)
	}
	if got := testutil.ToFloat64(statusSyncFailures); got != syncBefore+1 {
		t.Fatalf("sync failures = %v; want %v", got, syncBefore+1)
	}
	stale, _ := f.designs.Get(ctx, seller, d.ID)
	if stale.Status != domain.StatusApproved {
		t.Fatalf("status = %s; want approved (not synced)", stale.Status)
	}

	// With the store healthy again, a retry refuses a second order and
	// repairs the design from the existing one.
	f.fulfil.Designs = realStore
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrAlreadyConverted) {
		t.Fatalf("retry err = %v; want ErrAlreadyConverted", err)
	}
	fixed, _ := f.designs.Get(ctx, seller, d.ID)
	if fixed.Status != domain.StatusCompleted || fixed.OrderID == nil || *fixed.OrderID != res.Order.ID {
		t.Fatalf("design not resynced: %+v", fixed)
	}
}

// brokenAddresses fails address lookups.
type brokenAddresses struct{ sqlRepos }

func (brokenAddresses) FindShippingAddress(context.Context, *gorm.DB, string) (*domain.Address, error) {
	return nil, errors.New("address service down")
}

func TestConvertToOrder_AddressLookupFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.approved(t, "100")
	f.fulfil.Addresses = brokenAddresses{}

	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrDependencyFailure) {
		t.Fatalf("err = %v; want ErrDependencyFailure", err)
	}
	got, _ := f.designs.Get(ctx, seller, d.ID)
	if got.Status != domain.StatusApproved {
		t.Fatalf("status = %s; want approved", got.Status)
	}
}

func TestOrders_VisibilityAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	d := f.approved(t, "100")
	res, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"})
	if err != nil {
		t.Fatal(err)
	}
	id := res.Order.ID

	if _, err := f.fulfil.GetOrder(ctx, other, id); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign get err = %v; want ErrOrderNotFound", err)
	}
	if _, err := f.fulfil.GetOrder(ctx, seller, "nope"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing get err = %v; want ErrOrderNotFound", err)
	}
	if _, err := f.fulfil.UpdateOrderStatus(ctx, customer, id, "Shipped"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("customer update err = %v; want ErrUnauthorized", err)
	}
	if _, err := f.fulfil.UpdateOrderStatus(ctx, seller, id, "teleported"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status err = %v; want ErrInvalidInput", err)
	}
	o, err := f.fulfil.UpdateOrderStatus(ctx, seller, id, "shipped")
	if err != nil || o.Status != domain.OrderShipped {
		t.Fatalf("update: %v %+v", err, o)
	}
	if _, err := f.fulfil.UpdateOrderStatus(ctx, seller, "nope", "Shipped"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing update err = %v; want ErrOrderNotFound", err)
	}
}

func TestUpdateOrderStatus_ForwardOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	convert := func() string {
		t.Helper()
		res, err := f.fulfil.ConvertToOrder(ctx, seller, f.approved(t, "100").ID, ConvertInput{PaymentMethod: "cash"})
		if err != nil {
			t.Fatalf("convert: %v", err)
		}
		return res.Order.ID
	}
	move := func(id, status string) error {
		t.Helper()
		_, err := f.fulfil.UpdateOrderStatus(ctx, seller, id, status)
		return err
	}

	id := convert()
	for _, st := range []string{"Processing", "Processing", "Delivered"} {
		if err := move(id, st); err != nil {
			t.Fatalf("move to %s: %v", st, err)
		}
	}
	for _, st := range []string{"Pending", "Shipped", "Cancelled"} {
		if err := move(id, st); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("delivered -> %s err = %v; want ErrInvalidTransition", st, err)
		}
	}

	cancelled := convert()
	if err := move(cancelled, "Cancelled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := move(cancelled, "Shipped"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancelled -> shipped err = %v; want ErrInvalidTransition", err)
	}
	o, err := f.fulfil.GetOrder(ctx, seller, cancelled)
	if err != nil || o.Status != domain.OrderCancelled {
		t.Fatalf("cancelled order = %+v, %v", o, err)
	}
}

// staleOrders reports every status write as lost to a concurrent update.
type staleOrders struct{ OrderRepo }

func (staleOrders) UpdateOrderStatus(context.Context, *gorm.DB, string, domain.OrderStatus, domain.OrderStatus) error {
	return repo.ErrConflict
}

func TestUpdateOrderStatus_LostRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAddress(t, customer)
	res, err := f.fulfil.ConvertToOrder(ctx, seller, f.approved(t, "100").ID, ConvertInput{PaymentMethod: "cash"})
	if err != nil {
		t.Fatal(err)
	}
	f.fulfil.Orders = staleOrders{f.fulfil.Orders}
	if _, err := f.fulfil.UpdateOrderStatus(ctx, seller, res.Order.ID, "Shipped"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("lost race err = %v; want ErrInvalidTransition", err)
	}
}

// brokenOrders fails every order insert.
type brokenOrders struct{ OrderRepo }

func (brokenOrders) CreateOrder(context.Context, *gorm.DB, *domain.Order) error {
	return errors.New("disk full")
}

func TestConvertToOrder_PlaceholderRolledBackWithOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.approved(t, "100")

	orders := f.fulfil.Orders
	f.fulfil.Orders = brokenOrders{orders}
	if _, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"}); !errors.Is(err, ErrDependencyFailure) {
		t.Fatalf("err = %v; want ErrDependencyFailure", err)
	}
	addrs, err := repo.ListAddresses(ctx, f.db, customer.ID)
	if err != nil || len(addrs) != 0 {
		t.Fatalf("addresses after failed convert = %+v, %v; want none", addrs, err)
	}

	f.fulfil.Orders = orders
	res, err := f.fulfil.ConvertToOrder(ctx, seller, d.ID, ConvertInput{PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	addrs, _ = repo.ListAddresses(ctx, f.db, customer.ID)
	if len(addrs) != 1 || !addrs[0].IsPlaceholder || res.Order.AddressID != addrs[0].ID {
		t.Fatalf("addresses after retry = %+v; order address %s", addrs, res.Order.AddressID)
	}
}
