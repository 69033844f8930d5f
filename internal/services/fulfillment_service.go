// Package services – FulfillmentService
//
// FulfillmentService converts an approved design request into exactly one
// order. The order is written first; the design is then marked completed
// with a compare-and-swap. If that last write fails the order is kept: the
// caller gets the order plus a warning, and the inconsistency is logged and
// counted for reconciliation. A second conversion of the same design is
// refused with ErrAlreadyConverted, enforced both by the workflow and by a
// unique index on orders.design_id.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// OrderRepo defines the order persistence used by FulfillmentService.
type OrderRepo interface {
	CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error
	GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error)
	GetOrderByDesign(ctx context.Context, db *gorm.DB, designID string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, db *gorm.DB, id string, from, to domain.OrderStatus) error
}

// AddressRepo defines the address persistence used by FulfillmentService
// and AddressService.
type AddressRepo interface {
	CreateAddress(ctx context.Context, db *gorm.DB, a *domain.Address) error
	ListAddresses(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Address, error)
	FindShippingAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error)
	CreatePlaceholderAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error)
}

// IdempotencyRepo stores the outcome of keyed conversion requests so that a
// retried request returns the same order.
type IdempotencyRepo interface {
	GetIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// WarningStatusNotSynced is reported when the order exists but the design
// could not be marked completed.
const WarningStatusNotSynced = "order created; design status update failed and will be reconciled"

// FulfillmentService is the bridge from design requests to orders.
type FulfillmentService struct {
	// DB holds orders, addresses and idempotency records.
	DB *gorm.DB
	// Designs is the design request store.
	Designs     DesignStore
	Orders      OrderRepo
	Addresses   AddressRepo
	Idempotency IdempotencyRepo
	Notifier    notify.Notifier

	// IdempotencyTTL bounds how long a keyed result is replayed.
	IdempotencyTTL time.Duration

	Now   func() time.Time
	NewID func() string
}

// ConvertInput is the payment information attached to the new order. Empty
// fields fall back to the design's recorded advance payment.
type ConvertInput struct {
	PaymentMethod  string
	PaymentStatus  string
	PaymentDetails string
	// IdempotencyKey, when set, makes retries return the first result.
	IdempotencyKey string
}

// ConvertResult is the outcome of a conversion.
type ConvertResult struct {
	Order  *domain.Order
	Design *domain.DesignRequest
	// Warning is non-empty when the order was created but the design was
	// not updated.
	Warning string
	// Replayed is true when the result was served from a previous request
	// with the same idempotency key.
	Replayed bool
}

// ConvertToOrder creates the order for an approved design and marks the
// design completed.
//
// Errors:
//   - ErrNotFound: unknown design.
//   - ErrUnauthorized: actor is neither a seller nor the owning customer.
//   - ErrInvalidTransition: design not approved, no quote, or a customer
//     without an advance payment.
//   - ErrAlreadyConverted: the design already has an order.
//   - ErrMissingAddress: a customer with no shipping address on file.
//   - ErrDependencyFailure: address or order persistence failed.
func (s *FulfillmentService) ConvertToOrder(ctx context.Context, a workflow.Actor, designID string, in ConvertInput) (*ConvertResult, error) {
	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "ConvertToOrder", trace.WithAttributes(
		attribute.String("design.id", designID),
		attribute.String("user.role", string(a.Role)),
	))
	defer span.End()

	fail := func(err error) (*ConvertResult, error) {
		transitionFailures.WithLabelValues(kindOf(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, kindOf(err))
		return nil, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.Idempotency != nil {
		if res, ok := s.replay(ctx, a, designID, key); ok {
			span.SetAttributes(attribute.Bool("idempotency.replayed", true))
			return res, nil
		}
	}

	cur, err := s.Designs.Get(ctx, designID)
	if err != nil {
		if isNotFound(err) {
			return fail(ErrNotFound)
		}
		return fail(err)
	}
	if err := authorize(cur, a, workflow.TriggerConvert); err != nil {
		return fail(err)
	}

	method, status, details, err := orderPayment(cur, in)
	if err != nil {
		return fail(err)
	}

	orderID := s.newID()
	next, err := workflow.Apply(cur, a, workflow.Command{Trigger: workflow.TriggerConvert, OrderID: orderID}, s.now())
	if err != nil {
		return fail(err)
	}

	addr, err := s.shippingAddress(ctx, a, cur.CustomerID)
	if err != nil {
		return fail(err)
	}

	// A placeholder address only exists alongside the order it ships.
	var order *domain.Order
	placeholder := addr == nil
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if placeholder {
			p, err := s.Addresses.CreatePlaceholderAddress(ctx, tx, cur.CustomerID)
			if err != nil {
				return fmt.Errorf("%w: placeholder address: %v", ErrDependencyFailure, err)
			}
			addr = p
		}
		order = buildOrder(orderID, cur, addr.ID, method, status, details)
		return s.Orders.CreateOrder(ctx, tx, order)
	})
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		s.resync(ctx, cur)
		return fail(fmt.Errorf("%w: design %s already has an order", ErrAlreadyConverted, cur.ID))
	case errors.Is(err, ErrDependencyFailure):
		return fail(err)
	case err != nil:
		return fail(fmt.Errorf("%w: create order: %v", ErrDependencyFailure, err))
	}
	if placeholder {
		log.Info().Str("customer_id", cur.CustomerID).Str("address_id", addr.ID).Msg("placeholder address created for seller conversion")
	}
	ordersCreated.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID))

	res := &ConvertResult{Order: order, Design: next}
	if err := swapDesign(ctx, s.Designs, cur, next); err != nil {
		// The order is durable and may already be paid for; keep it.
		statusSyncFailures.Inc()
		span.RecordError(err)
		log.Error().Err(err).
			Str("design_id", cur.ID).
			Str("order_id", order.ID).
			Msg("order created but design status update failed")
		res.Design = cur
		res.Warning = WarningStatusNotSynced
	} else {
		transitionsTotal.WithLabelValues(string(workflow.TriggerConvert), string(cur.Status), string(next.Status)).Inc()
		s.notifier().Publish(ctx, designEvent(notify.EventConverted, next, s.now()))
	}

	if key != "" && s.Idempotency != nil {
		// Best effort; a missing record only disables replay for this key.
		_, _ = s.Idempotency.CreateIdempotency(ctx, s.DB, a.ID, designID, key, order.ID, http.StatusCreated, s.ttl())
	}
	return res, nil
}

// replay returns the order recorded for (actor, design, key), if any.
func (s *FulfillmentService) replay(ctx context.Context, a workflow.Actor, designID, key string) (*ConvertResult, bool) {
	rec, err := s.Idempotency.GetIdempotency(ctx, s.DB, a.ID, designID, key, s.now())
	if err != nil || rec == nil {
		return nil, false
	}
	o, err := s.Orders.GetOrder(ctx, s.DB, rec.ResourceID)
	if err != nil {
		return nil, false
	}
	res := &ConvertResult{Order: o, Replayed: true}
	if d, err := s.Designs.Get(ctx, designID); err == nil {
		res.Design = d
	}
	return res, true
}

// shippingAddress prefers the customer's default address, then any address.
// A seller converting on behalf of a customer with no address gets a nil
// address, meaning a placeholder must be created with the order; customers
// are refused.
func (s *FulfillmentService) shippingAddress(ctx context.Context, a workflow.Actor, customerID string) (*domain.Address, error) {
	addr, err := s.Addresses.FindShippingAddress(ctx, s.DB, customerID)
	if err == nil {
		return addr, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("%w: address lookup: %v", ErrDependencyFailure, err)
	}
	if a.Role != workflow.RoleSeller {
		return nil, fmt.Errorf("%w: add a shipping address before ordering", ErrMissingAddress)
	}
	return nil, nil
}

// resync repairs a design whose order exists but whose status update was
// lost on an earlier attempt.
func (s *FulfillmentService) resync(ctx context.Context, cur *domain.DesignRequest) {
	if cur.Status == domain.StatusCompleted {
		return
	}
	o, err := s.Orders.GetOrderByDesign(ctx, s.DB, cur.ID)
	if err != nil {
		return
	}
	next := cur.Clone()
	id := o.ID
	next.OrderID = &id
	next.Status = domain.StatusCompleted
	if err := swapDesign(ctx, s.Designs, cur, next); err != nil {
		log.Warn().Err(err).Str("design_id", cur.ID).Str("order_id", o.ID).Msg("design resync failed")
		return
	}
	log.Info().Str("design_id", cur.ID).Str("order_id", o.ID).Msg("design resynced with existing order")
}

// orderPayment resolves the payment fields of the order from the request,
// falling back to the recorded advance payment.
func orderPayment(d *domain.DesignRequest, in ConvertInput) (string, domain.PaymentStatus, string, error) {
	method := strings.TrimSpace(in.PaymentMethod)
	details := strings.TrimSpace(in.PaymentDetails)
	rawStatus := strings.TrimSpace(in.PaymentStatus)

	if ap := d.AdvancePayment; ap != nil {
		if method == "" {
			method = ap.Method
		}
		if rawStatus == "" {
			rawStatus = string(ap.Status)
		}
		if details == "" {
			details = ap.Details
		}
	}
	if method == "" {
		return "", "", "", fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}
	status := domain.PaymentPending
	if rawStatus != "" {
		st, err := parsePaymentStatus(rawStatus)
		if err != nil {
			return "", "", "", err
		}
		status = st
	}
	return method, status, details, nil
}

// buildOrder creates the single-line order for d. The line price carries
// the agreed total for the whole quantity.
func buildOrder(id string, d *domain.DesignRequest, addressID, method string, status domain.PaymentStatus, details string) *domain.Order {
	designID := d.ID
	amount := d.CurrentQuote.Amount
	return &domain.Order{
		ID:             id,
		CustomerID:     d.CustomerID,
		Amount:         amount,
		AddressID:      addressID,
		PaymentMethod:  method,
		PaymentStatus:  status,
		PaymentDetails: details,
		Status:         domain.OrderPending,
		DesignID:       &designID,
		Items: []domain.OrderItem{{
			Name:           "Custom design",
			Quantity:       d.Quantity,
			Size:           d.Size,
			Color:          d.Color,
			Price:          amount,
			IsCustomDesign: true,
			DesignID:       &designID,
			DesignImage:    d.ImageURL,
		}},
	}
}

// GetOrder returns an order visible to a.
func (s *FulfillmentService) GetOrder(ctx context.Context, a workflow.Actor, id string) (*domain.Order, error) {
	if strings.TrimSpace(a.ID) == "" {
		return nil, ErrUnauthorized
	}
	o, err := s.Orders.GetOrder(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if a.Role != workflow.RoleSeller && o.CustomerID != a.ID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// UpdateOrderStatus lets a seller move an order forward through
// fulfillment or cancel it. Requesting the current status is a no-op.
//
// Errors:
//   - ErrUnauthorized: actor is not a seller.
//   - ErrInvalidInput: unknown status.
//   - ErrOrderNotFound: unknown order.
//   - ErrInvalidTransition: backward move, move out of a terminal status,
//     or the status changed concurrently.
func (s *FulfillmentService) UpdateOrderStatus(ctx context.Context, a workflow.Actor, id, status string) (*domain.Order, error) {
	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "UpdateOrderStatus", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if a.Role != workflow.RoleSeller || strings.TrimSpace(a.ID) == "" {
		return nil, fmt.Errorf("%w: only sellers update orders", ErrUnauthorized)
	}
	st, err := parseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	cur, err := s.GetOrder(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if cur.Status == st {
		return cur, nil
	}
	if !cur.Status.CanMoveTo(st) {
		return nil, fmt.Errorf("%w: order %s cannot move from %s to %s", ErrInvalidTransition, id, cur.Status, st)
	}
	if err := s.Orders.UpdateOrderStatus(ctx, s.DB, id, cur.Status, st); err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrOrderNotFound
		case errors.Is(err, repo.ErrConflict):
			return nil, fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, id)
		}
		return nil, fmt.Errorf("%w: update order: %v", ErrDependencyFailure, err)
	}
	span.SetAttributes(attribute.String("order.status", string(st)))
	return s.GetOrder(ctx, a, id)
}

func parseOrderStatus(s string) (domain.OrderStatus, error) {
	for _, st := range []domain.OrderStatus{domain.OrderPending, domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

func (s *FulfillmentService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *FulfillmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *FulfillmentService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}

func (s *FulfillmentService) notifier() notify.Notifier {
	if s.Notifier == nil {
		return notify.Nop{}
	}
	return s.Notifier
}
