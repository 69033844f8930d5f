package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// Role is the identity collaborator's answer to "is this a seller".
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Actor is the principal issuing a trigger.
type Actor struct {
	ID   string
	Role Role
}

// Party maps the actor's role onto a negotiation side.
func (a Actor) Party() domain.Party {
	if a.Role == RoleSeller {
		return domain.PartySeller
	}
	return domain.PartyCustomer
}

// Trigger names a workflow action.
type Trigger string

const (
	TriggerQuote         Trigger = "quote"
	TriggerAccept        Trigger = "accept"
	TriggerReject        Trigger = "reject"
	TriggerNegotiate     Trigger = "negotiate"
	TriggerSellerAccept  Trigger = "seller_accept"
	TriggerCounter       Trigger = "counter"
	TriggerSellerReject  Trigger = "seller_reject"
	TriggerReopen        Trigger = "reopen"
	TriggerDecline       Trigger = "decline"
	TriggerRecordPayment Trigger = "record_payment"
	TriggerConvert       Trigger = "convert"
)

// Command carries the trigger and its arguments. Only the fields relevant to
// the trigger are read.
type Command struct {
	Trigger Trigger
	Amount  decimal.Decimal
	Message string
	Payment *domain.AdvancePayment
	OrderID string
}

type edge struct {
	from    domain.Status
	trigger Trigger
}

type transition struct {
	to    domain.Status
	apply func(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error
}

// roles lists who may fire each trigger.
var roles = map[Trigger][]Role{
	TriggerQuote:         {RoleSeller},
	TriggerAccept:        {RoleCustomer},
	TriggerReject:        {RoleCustomer},
	TriggerNegotiate:     {RoleCustomer},
	TriggerSellerAccept:  {RoleSeller},
	TriggerCounter:       {RoleSeller},
	TriggerSellerReject:  {RoleSeller},
	TriggerReopen:        {RoleSeller},
	TriggerDecline:       {RoleSeller},
	TriggerRecordPayment: {RoleCustomer, RoleSeller},
	TriggerConvert:       {RoleCustomer, RoleSeller},
}

// amountTriggers validate cmd.Amount before any state is consulted.
var amountTriggers = map[Trigger]bool{
	TriggerQuote:     true,
	TriggerNegotiate: true,
	TriggerCounter:   true,
}

// table is the single source of truth for legal transitions.
var table = map[edge]transition{
	{domain.StatusPending, TriggerQuote}:            {domain.StatusQuoted, applyQuote},
	{domain.StatusPending, TriggerDecline}:          {domain.StatusRejected, applyDecline},
	{domain.StatusQuoted, TriggerAccept}:            {domain.StatusApproved, applyAccept},
	{domain.StatusQuoted, TriggerReject}:            {domain.StatusRejected, applyCustomerReject},
	{domain.StatusQuoted, TriggerNegotiate}:         {domain.StatusNegotiating, applyNegotiate},
	{domain.StatusQuoted, TriggerDecline}:           {domain.StatusRejected, applyDecline},
	{domain.StatusNegotiating, TriggerSellerAccept}: {domain.StatusQuoted, applySellerAccept},
	{domain.StatusNegotiating, TriggerCounter}:      {domain.StatusQuoted, applyCounter},
	{domain.StatusNegotiating, TriggerSellerReject}: {domain.StatusQuoted, applySellerReject},
	{domain.StatusNegotiating, TriggerDecline}:      {domain.StatusRejected, applyDecline},
	{domain.StatusRejected, TriggerReopen}:          {domain.StatusQuoted, applyReopen},
	{domain.StatusApproved, TriggerRecordPayment}:   {domain.StatusApproved, applyPayment},
	{domain.StatusApproved, TriggerConvert}:         {domain.StatusCompleted, applyConvert},
}

// Apply validates cmd against the current design and returns the next state.
// The input design is never modified; on error the returned design is nil.
//
// Checks run in a fixed order: role, ownership, amount, then state. This
// keeps authorization failures from revealing anything about the design and
// rejects bad amounts before any state-dependent logic runs.
func Apply(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) (*domain.DesignRequest, error) {
	if err := Authorize(d, a, cmd.Trigger); err != nil {
		return nil, err
	}
	if amountTriggers[cmd.Trigger] {
		if err := ValidateAmount(cmd.Amount); err != nil {
			return nil, err
		}
	}
	t, ok := table[edge{d.Status, cmd.Trigger}]
	if !ok {
		if cmd.Trigger == TriggerConvert && (d.Status == domain.StatusCompleted || d.OrderID != nil) {
			return nil, fmt.Errorf("%w: design %s already has an order", ErrAlreadyConverted, d.ID)
		}
		return nil, fmt.Errorf("%w: cannot %s a %s design", ErrInvalidTransition, cmd.Trigger, d.Status)
	}

	next := d.Clone()
	if err := t.apply(next, a, cmd, now.UTC()); err != nil {
		return nil, err
	}
	next.Status = t.to
	return next, nil
}

// Allowed lists the triggers the actor could fire right now, ignoring
// argument validation. It drives the "actions" hint in API responses.
func Allowed(d *domain.DesignRequest, a Actor) []Trigger {
	var out []Trigger
	for _, tr := range triggerOrder {
		if Authorize(d, a, tr) != nil {
			continue
		}
		if _, ok := table[edge{d.Status, tr}]; !ok {
			continue
		}
		if err := precheck(d, a, tr); err != nil {
			continue
		}
		out = append(out, tr)
	}
	return out
}

var triggerOrder = []Trigger{
	TriggerQuote, TriggerAccept, TriggerReject, TriggerNegotiate,
	TriggerSellerAccept, TriggerCounter, TriggerSellerReject,
	TriggerReopen, TriggerDecline, TriggerRecordPayment, TriggerConvert,
}

// Authorize checks role and ownership for tr without looking at status.
func Authorize(d *domain.DesignRequest, a Actor, tr Trigger) error {
	allowed, ok := roles[tr]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, tr)
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: missing identity", ErrUnauthorized)
	}
	permitted := false
	for _, r := range allowed {
		if r == a.Role {
			permitted = true
			break
		}
	}
	if !permitted {
		return fmt.Errorf("%w: %s may not %s", ErrUnauthorized, a.Role, tr)
	}
	if a.Role == RoleCustomer && d.CustomerID != a.ID {
		return fmt.Errorf("%w: design belongs to another customer", ErrUnauthorized)
	}
	return nil
}

// precheck holds the state-dependent guards that do not depend on command
// arguments, shared by Apply and Allowed.
func precheck(d *domain.DesignRequest, a Actor, tr Trigger) error {
	switch tr {
	case TriggerAccept:
		if d.CurrentQuote == nil {
			return fmt.Errorf("%w: no quote to accept", ErrInvalidTransition)
		}
	case TriggerNegotiate:
		if last, ok := lastEntry(d); ok && last.OfferedBy == domain.PartyCustomer {
			return fmt.Errorf("%w: waiting for the seller to answer the last offer", ErrInvalidTransition)
		}
	case TriggerSellerAccept:
		if _, ok := LastOfferBy(d, domain.PartyCustomer); !ok {
			return fmt.Errorf("%w: no customer offer to accept", ErrInvalidTransition)
		}
	case TriggerSellerReject:
		if _, ok := standingSellerOffer(d); !ok {
			return fmt.Errorf("%w: no seller quote to fall back to", ErrInvalidTransition)
		}
	case TriggerReopen:
		if d.CustomerResponse == nil {
			return fmt.Errorf("%w: design was rejected outright and cannot be reopened", ErrInvalidTransition)
		}
	case TriggerRecordPayment:
		if d.AdvancePayment != nil && d.AdvancePayment.Status == domain.PaymentPaid {
			return fmt.Errorf("%w: advance payment already captured", ErrInvalidTransition)
		}
	case TriggerConvert:
		if d.OrderID != nil {
			return fmt.Errorf("%w: design %s already has an order", ErrAlreadyConverted, d.ID)
		}
		if d.CurrentQuote == nil || !d.CurrentQuote.Amount.IsPositive() {
			return fmt.Errorf("%w: design has no quoted amount", ErrInvalidTransition)
		}
		if a.Role == RoleCustomer && d.AdvancePayment == nil {
			return fmt.Errorf("%w: advance payment required before ordering", ErrInvalidTransition)
		}
	}
	return nil
}

func standingSellerOffer(d *domain.DesignRequest) (decimal.Decimal, bool) {
	if e, ok := LastOfferBy(d, domain.PartySeller); ok {
		return e.Amount, true
	}
	if d.OpeningQuote != nil {
		return d.OpeningQuote.Amount, true
	}
	return decimal.Zero, false
}

func respond(message string, now time.Time) *domain.Response {
	return &domain.Response{Message: message, At: now}
}

func applyQuote(d *domain.DesignRequest, _ Actor, cmd Command, now time.Time) error {
	if err := SetInitialQuote(d, cmd.Amount, cmd.Message, now); err != nil {
		return err
	}
	if cmd.Message != "" {
		d.SellerResponse = respond(cmd.Message, now)
	}
	return nil
}

func applyAccept(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	if err := precheck(d, a, TriggerAccept); err != nil {
		return err
	}
	if cmd.Message != "" {
		d.CustomerResponse = respond(cmd.Message, now)
	}
	return nil
}

// applyCustomerReject distinguishes a soft rejection (with a message, which
// the seller may answer and reopen) from a terminal one.
func applyCustomerReject(d *domain.DesignRequest, _ Actor, cmd Command, now time.Time) error {
	if strings.TrimSpace(cmd.Message) == "" {
		d.CustomerResponse = nil
		return nil
	}
	d.CustomerResponse = respond(cmd.Message, now)
	return nil
}

func applyNegotiate(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	if err := precheck(d, a, TriggerNegotiate); err != nil {
		return err
	}
	if err := RecordCounterOffer(d, domain.PartyCustomer, cmd.Amount, cmd.Message, now); err != nil {
		return err
	}
	d.CustomerResponse = respond(cmd.Message, now)
	return nil
}

// applySellerAccept matches the customer's latest offer. The seller entry it
// appends keeps history alternating and hands the decision back to the
// customer.
func applySellerAccept(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	offer, ok := LastOfferBy(d, domain.PartyCustomer)
	if !ok {
		return precheck(d, a, TriggerSellerAccept)
	}
	if err := RecordCounterOffer(d, domain.PartySeller, offer.Amount, cmd.Message, now); err != nil {
		return err
	}
	d.SellerResponse = respond(cmd.Message, now)
	return nil
}

func applyCounter(d *domain.DesignRequest, _ Actor, cmd Command, now time.Time) error {
	if err := RecordCounterOffer(d, domain.PartySeller, cmd.Amount, cmd.Message, now); err != nil {
		return err
	}
	d.SellerResponse = respond(cmd.Message, now)
	return nil
}

// applySellerReject restores the seller's standing offer so the customer can
// never approve the counter-offer that was just refused.
func applySellerReject(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	amount, ok := standingSellerOffer(d)
	if !ok {
		return precheck(d, a, TriggerSellerReject)
	}
	if err := RecordCounterOffer(d, domain.PartySeller, amount, cmd.Message, now); err != nil {
		return err
	}
	d.SellerResponse = respond(cmd.Message, now)
	return nil
}

func applyReopen(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	if err := precheck(d, a, TriggerReopen); err != nil {
		return err
	}
	if strings.TrimSpace(cmd.Message) == "" {
		return fmt.Errorf("%w: a message is required to reopen", ErrInvalidInput)
	}
	if d.CurrentQuote == nil {
		return fmt.Errorf("%w: no quote to reopen with", ErrInvalidTransition)
	}
	d.SellerResponse = respond(cmd.Message, now)
	return nil
}

// applyDecline is the seller's terminal rejection. Clearing CustomerResponse
// marks the rejection as hard so it cannot be reopened.
func applyDecline(d *domain.DesignRequest, _ Actor, cmd Command, now time.Time) error {
	d.CustomerResponse = nil
	if cmd.Message != "" {
		d.SellerResponse = respond(cmd.Message, now)
	}
	return nil
}

func applyPayment(d *domain.DesignRequest, a Actor, cmd Command, now time.Time) error {
	p := cmd.Payment
	if p == nil {
		return fmt.Errorf("%w: payment is required", ErrInvalidInput)
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(p.Method) == "" {
		return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, p.Status)
	}
	if err := precheck(d, a, TriggerRecordPayment); err != nil {
		return err
	}
	rec := *p
	rec.At = now
	d.AdvancePayment = &rec
	d.IsPriority = true
	return nil
}

func applyConvert(d *domain.DesignRequest, a Actor, cmd Command, _ time.Time) error {
	if err := precheck(d, a, TriggerConvert); err != nil {
		return err
	}
	if strings.TrimSpace(cmd.OrderID) == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	id := cmd.OrderID
	d.OrderID = &id
	return nil
}
