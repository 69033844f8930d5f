// Package services – DesignService
//
// DesignService owns the lifecycle of a custom design request from
// submission through quoting, negotiation, approval and payment. Every
// state change follows the same shape: load the request, let the workflow
// package validate and compute the next state, then persist it with a
// compare-and-swap on (status, version). A writer that loses the race gets
// ErrInvalidTransition and nothing is written.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/utils"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// DesignStore is the persistence contract for design requests. Both the
// SQLite and the DynamoDB stores implement it.
type DesignStore interface {
	// Create inserts a new request, assigning ID, Version and timestamps.
	Create(ctx context.Context, d *domain.DesignRequest) error

	// Get fetches a request by id or returns repo.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.DesignRequest, error)

	// List returns one page of matching requests and the total count.
	List(ctx context.Context, f repo.DesignFilter, offset, limit int) ([]domain.DesignRequest, int64, error)

	// Swap writes next only if the stored request still has expectStatus
	// and expectVersion. It returns repo.ErrConflict otherwise.
	Swap(ctx context.Context, next *domain.DesignRequest, expectStatus domain.Status, expectVersion int64) error

	// Stats returns the match count and latest update time.
	Stats(ctx context.Context, f repo.DesignFilter) (int64, *time.Time, error)
}

// PaymentVerifier confirms a reported payment outcome with the gateway.
type PaymentVerifier interface {
	Verify(ctx context.Context, p domain.AdvancePayment) error
}

// DesignService implements the negotiation workflow over a DesignStore.
type DesignService struct {
	// Store persists design requests.
	Store DesignStore
	// Notifier receives an event after every successful change.
	Notifier notify.Notifier
	// Payments verifies recorded payments when set.
	Payments PaymentVerifier

	MaxDescriptionRunes int
	MaxNotesRunes       int
	MaxColorRunes       int
	MaxQuantity         int

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// NewDesignService returns a DesignService with default limits.
func NewDesignService(store DesignStore, n notify.Notifier) *DesignService {
	if n == nil {
		n = notify.Nop{}
	}
	return &DesignService{
		Store:               store,
		Notifier:            n,
		MaxDescriptionRunes: 2000,
		MaxNotesRunes:       1000,
		MaxColorRunes:       64,
		MaxQuantity:         1000,
		Now:                 func() time.Time { return time.Now().UTC() },
	}
}

// SubmitInput carries a new design request. ImageURL is the reference
// returned by the image upload collaborator.
type SubmitInput struct {
	ImageURL    string
	Description string
	Quantity    int
	Size        string
	Color       string
	Notes       string
}

// PaymentInput is a payment outcome as reported by the payment collaborator.
type PaymentInput struct {
	Amount  string
	Method  string
	Status  string
	Details string
}

// Submit validates in and stores a new pending request owned by a.
func (s *DesignService) Submit(ctx context.Context, a workflow.Actor, in SubmitInput) (*domain.DesignRequest, error) {
	tr := otel.Tracer("services/DesignService")
	ctx, span := tr.Start(ctx, "Submit", trace.WithAttributes(attribute.String("user.id", a.ID)))
	defer span.End()

	if strings.TrimSpace(a.ID) == "" {
		return nil, s.fail(span, fmt.Errorf("%w: missing identity", ErrUnauthorized))
	}
	if a.Role != workflow.RoleCustomer {
		return nil, s.fail(span, fmt.Errorf("%w: only customers submit design requests", ErrUnauthorized))
	}

	d, err := s.validateSubmit(in)
	if err != nil {
		return nil, s.fail(span, err)
	}
	d.CustomerID = a.ID
	d.Status = domain.StatusPending
	d.NegotiationHistory = []domain.QuoteEntry{}

	if err := s.Store.Create(ctx, d); err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.String("design.id", d.ID))
	s.notifier().Publish(ctx, s.event(notify.EventSubmitted, d))
	return d, nil
}

func (s *DesignService) validateSubmit(in SubmitInput) (*domain.DesignRequest, error) {
	image := strings.TrimSpace(in.ImageURL)
	if image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if s.MaxDescriptionRunes > 0 && utf8.RuneCountInString(desc) > s.MaxDescriptionRunes {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, s.MaxDescriptionRunes)
	}
	if in.Quantity < 1 || (s.MaxQuantity > 0 && in.Quantity > s.MaxQuantity) {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, s.MaxQuantity)
	}
	size, err := domain.ParseSize(in.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	color := domain.NormalizeColor(in.Color)
	if s.MaxColorRunes > 0 && utf8.RuneCountInString(color) > s.MaxColorRunes {
		return nil, fmt.Errorf("%w: color exceeds %d characters", ErrInvalidInput, s.MaxColorRunes)
	}
	notes := strings.TrimSpace(in.Notes)
	if s.MaxNotesRunes > 0 && utf8.RuneCountInString(notes) > s.MaxNotesRunes {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, s.MaxNotesRunes)
	}
	return &domain.DesignRequest{
		ImageURL:    image,
		Description: desc,
		Quantity:    in.Quantity,
		Size:        size,
		Color:       color,
		Notes:       notes,
	}, nil
}

// Get returns a request visible to a. Customers only see their own; a
// foreign request is reported as not found.
func (s *DesignService) Get(ctx context.Context, a workflow.Actor, id string) (*domain.DesignRequest, error) {
	tr := otel.Tracer("services/DesignService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("design.id", id)))
	defer span.End()

	if strings.TrimSpace(a.ID) == "" {
		return nil, ErrUnauthorized
	}
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Role != workflow.RoleSeller && d.CustomerID != a.ID {
		return nil, ErrNotFound
	}
	return d, nil
}

// ListPage returns a page of requests visible to a, optionally filtered by
// status. Invalid page or pageSize values fall back to defaults.
func (s *DesignService) ListPage(ctx context.Context, a workflow.Actor, status string, page, pageSize int) ([]domain.DesignRequest, int64, error) {
	tr := otel.Tracer("services/DesignService")
	ctx, span := tr.Start(ctx, "ListPage", trace.WithAttributes(
		attribute.String("user.id", a.ID),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	))
	defer span.End()

	f, err := filterFor(a, status)
	if err != nil {
		return nil, 0, err
	}
	pg := utils.Page{Number: page, Size: pageSize}.Clamp()
	return s.Store.List(ctx, f, pg.Offset(), pg.Size)
}

// Stats returns the count and latest update time of the requests ListPage
// would return, for conditional GETs.
func (s *DesignService) Stats(ctx context.Context, a workflow.Actor, status string) (int64, *time.Time, error) {
	f, err := filterFor(a, status)
	if err != nil {
		return 0, nil, err
	}
	return s.Store.Stats(ctx, f)
}

func filterFor(a workflow.Actor, status string) (repo.DesignFilter, error) {
	if strings.TrimSpace(a.ID) == "" {
		return repo.DesignFilter{}, ErrUnauthorized
	}
	var f repo.DesignFilter
	if a.Role != workflow.RoleSeller {
		f.CustomerID = a.ID
	}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		st := domain.Status(status)
		if !st.Valid() {
			return repo.DesignFilter{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		f.Status = st
	}
	return f, nil
}

// Quote places the seller's opening quote on a pending request.
func (s *DesignService) Quote(ctx context.Context, a workflow.Actor, id, amount, message string) (*domain.DesignRequest, error) {
	cmd := workflow.Command{Trigger: workflow.TriggerQuote, Message: strings.TrimSpace(message)}
	return s.transition(ctx, a, id, cmd, withAmount(amount))
}

// customerActions maps the customer's response verbs to triggers.
var customerActions = map[string]workflow.Trigger{
	"accept":    workflow.TriggerAccept,
	"reject":    workflow.TriggerReject,
	"negotiate": workflow.TriggerNegotiate,
}

// sellerActions maps the seller's answers to a negotiation to triggers.
var sellerActions = map[string]workflow.Trigger{
	"accept":  workflow.TriggerSellerAccept,
	"counter": workflow.TriggerCounter,
	"reject":  workflow.TriggerSellerReject,
}

// Respond applies the customer's answer to the quote on the table: accept,
// reject (with an optional message requesting changes) or negotiate with a
// counter-offer amount.
func (s *DesignService) Respond(ctx context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error) {
	trig, ok := customerActions[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return nil, fmt.Errorf("%w: action must be accept, reject or negotiate", ErrInvalidInput)
	}
	cmd := workflow.Command{Trigger: trig, Message: strings.TrimSpace(message)}
	if trig == workflow.TriggerNegotiate {
		return s.transition(ctx, a, id, cmd, withAmount(amount))
	}
	return s.transition(ctx, a, id, cmd, nil)
}

// RespondToNegotiation applies the seller's answer to a customer
// counter-offer: accept it, counter with a new amount, or reject it so the
// standing quote applies again.
func (s *DesignService) RespondToNegotiation(ctx context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error) {
	trig, ok := sellerActions[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return nil, fmt.Errorf("%w: action must be accept, counter or reject", ErrInvalidInput)
	}
	cmd := workflow.Command{Trigger: trig, Message: strings.TrimSpace(message)}
	if trig == workflow.TriggerCounter {
		return s.transition(ctx, a, id, cmd, withAmount(amount))
	}
	return s.transition(ctx, a, id, cmd, nil)
}

// Reopen answers a customer's change request on a softly rejected design
// and puts the quote back on the table.
func (s *DesignService) Reopen(ctx context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error) {
	cmd := workflow.Command{Trigger: workflow.TriggerReopen, Message: strings.TrimSpace(message)}
	return s.transition(ctx, a, id, cmd, nil)
}

// Decline rejects the design outright. It cannot be reopened afterwards.
func (s *DesignService) Decline(ctx context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error) {
	cmd := workflow.Command{Trigger: workflow.TriggerDecline, Message: strings.TrimSpace(message)}
	return s.transition(ctx, a, id, cmd, nil)
}

// RecordPayment stores the advance payment outcome on an approved request
// and flags it as priority. When a verifier is configured, the outcome is
// confirmed with the gateway before anything is written.
func (s *DesignService) RecordPayment(ctx context.Context, a workflow.Actor, id string, in PaymentInput) (*domain.DesignRequest, error) {
	prepare := func(cmd *workflow.Command) error {
		raw := strings.TrimSpace(in.Amount)
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidQuoteAmount, raw)
		}
		st, err := parsePaymentStatus(in.Status)
		if err != nil {
			return err
		}
		cmd.Payment = &domain.AdvancePayment{
			Amount:  amt,
			Method:  strings.TrimSpace(in.Method),
			Status:  st,
			Details: strings.TrimSpace(in.Details),
		}
		return nil
	}
	return s.transition(ctx, a, id, workflow.Command{Trigger: workflow.TriggerRecordPayment}, prepare)
}

// parsePaymentStatus accepts payment statuses case-insensitively.
func parsePaymentStatus(s string) (domain.PaymentStatus, error) {
	for _, st := range []domain.PaymentStatus{domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed, domain.PaymentRefunded} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, s)
}

// withAmount parses raw into the command's amount once the actor has been
// authorized.
func withAmount(raw string) func(*workflow.Command) error {
	return func(cmd *workflow.Command) error {
		amt, err := workflow.ParseAmount(raw)
		if err != nil {
			return err
		}
		cmd.Amount = amt
		return nil
	}
}

// transition runs one workflow step: load, authorize, prepare the command,
// apply, verify and compare-and-swap. prepare may be nil.
func (s *DesignService) transition(ctx context.Context, a workflow.Actor, id string, cmd workflow.Command, prepare func(*workflow.Command) error) (*domain.DesignRequest, error) {
	tr := otel.Tracer("services/DesignService")
	ctx, span := tr.Start(ctx, "Transition", trace.WithAttributes(
		attribute.String("design.id", id),
		attribute.String("design.trigger", string(cmd.Trigger)),
		attribute.String("user.role", string(a.Role)),
	))
	defer span.End()

	cur, err := s.load(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if err := authorize(cur, a, cmd.Trigger); err != nil {
		return nil, s.fail(span, err)
	}
	if prepare != nil {
		if err := prepare(&cmd); err != nil {
			return nil, s.fail(span, err)
		}
	}

	next, err := workflow.Apply(cur, a, cmd, s.now())
	if err != nil {
		return nil, s.fail(span, err)
	}

	if cmd.Trigger == workflow.TriggerRecordPayment && s.Payments != nil {
		if err := s.Payments.Verify(ctx, *next.AdvancePayment); err != nil {
			return nil, s.fail(span, fmt.Errorf("%w: payment verification: %v", ErrDependencyFailure, err))
		}
	}

	if err := swapDesign(ctx, s.Store, cur, next); err != nil {
		return nil, s.fail(span, err)
	}

	span.SetAttributes(attribute.String("design.status", string(next.Status)))
	transitionsTotal.WithLabelValues(string(cmd.Trigger), string(cur.Status), string(next.Status)).Inc()
	s.notifier().Publish(ctx, s.event(eventFor(cmd.Trigger), next))
	return next, nil
}

func (s *DesignService) load(ctx context.Context, id string) (*domain.DesignRequest, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// swapDesign persists next over cur and maps store failures onto the
// workflow taxonomy. A lost compare-and-swap means the state changed under
// the caller.
func swapDesign(ctx context.Context, store DesignStore, cur, next *domain.DesignRequest) error {
	err := store.Swap(ctx, next, cur.Status, cur.Version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrConflict):
		return fmt.Errorf("%w: design %s changed concurrently", ErrInvalidTransition, cur.ID)
	case isNotFound(err):
		return ErrNotFound
	default:
		return err
	}
}

func (s *DesignService) fail(span trace.Span, err error) error {
	transitionFailures.WithLabelValues(kindOf(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, kindOf(err))
	return err
}

func (s *DesignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DesignService) notifier() notify.Notifier {
	if s.Notifier == nil {
		return notify.Nop{}
	}
	return s.Notifier
}

func (s *DesignService) event(t notify.EventType, d *domain.DesignRequest) notify.DesignEvent {
	return designEvent(t, d, s.now())
}

func designEvent(t notify.EventType, d *domain.DesignRequest, at time.Time) notify.DesignEvent {
	ev := notify.DesignEvent{
		Type:       t,
		DesignID:   d.ID,
		CustomerID: d.CustomerID,
		Status:     string(d.Status),
		At:         at,
	}
	if d.CurrentQuote != nil {
		amt := d.CurrentQuote.Amount
		ev.Amount = &amt
	}
	if d.OrderID != nil {
		ev.OrderID = *d.OrderID
	}
	return ev
}

func eventFor(t workflow.Trigger) notify.EventType {
	switch t {
	case workflow.TriggerQuote:
		return notify.EventQuoted
	case workflow.TriggerAccept:
		return notify.EventApproved
	case workflow.TriggerReject, workflow.TriggerDecline:
		return notify.EventRejected
	case workflow.TriggerNegotiate:
		return notify.EventNegotiating
	case workflow.TriggerReopen:
		return notify.EventReopened
	case workflow.TriggerRecordPayment:
		return notify.EventPaymentRecorded
	case workflow.TriggerConvert:
		return notify.EventConverted
	default:
		return notify.EventCountered
	}
}
