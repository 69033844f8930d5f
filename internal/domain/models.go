// Package domain defines the persistence models for custom design requests,
// the orders derived from them, and customer shipping addresses. These types
// are mapped with GORM and form the core data layer of the design service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the workflow cursor of a DesignRequest.
type Status string

const (
	StatusPending     Status = "pending"
	StatusQuoted      Status = "quoted"
	StatusNegotiating Status = "negotiating"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusCompleted   Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusQuoted, StatusNegotiating, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Party identifies which side of the negotiation authored an offer.
type Party string

const (
	PartyCustomer Party = "customer"
	PartySeller   Party = "seller"
)

// Quote is the offer currently on the table.
type Quote struct {
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message,omitempty"`
	At      time.Time       `json:"at"`
}

// QuoteEntry is one negotiation round. Entries are only ever appended.
type QuoteEntry struct {
	OfferedBy Party           `json:"offered_by"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message,omitempty"`
	At        time.Time       `json:"at"`
}

// Response is the last free-text message from one party. It is overwritten
// each time that party communicates outside of a quote.
type Response struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// PaymentStatus is the captured outcome of an advance payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Valid reports whether p is one of the known payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// AdvancePayment records a payment outcome handed to the service by the
// payment collaborator.
type AdvancePayment struct {
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
	Status  PaymentStatus   `json:"status"`
	Details string          `json:"details,omitempty"`
	At      time.Time       `json:"at"`
}

// DesignRequest is one custom apparel design submission and its negotiation
// and fulfillment state.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - CustomerID: owning customer; indexed for per-customer listings.
//   - ImageURL: stored-image reference supplied by the upload collaborator.
//   - Status: workflow cursor, only changed through the workflow package.
//   - CurrentQuote / OpeningQuote: offer on the table / first seller quote.
//   - NegotiationHistory: embedded, append-only list of rounds.
//   - OrderID: set exactly once when the request is converted.
//   - Version: bumped on every write; part of the compare-and-swap guard.
type DesignRequest struct {
	ID          string `json:"id"          gorm:"type:char(36);primaryKey"`
	CustomerID  string `json:"customer_id" gorm:"type:varchar(64);not null;index:idx_design_customer"`
	ImageURL    string `json:"image_url"   gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text;not null"`
	Quantity    int    `json:"quantity"    gorm:"not null;check:quantity >= 1"`
	Size        Size   `json:"size"        gorm:"type:varchar(8);not null"`
	Color       string `json:"color,omitempty" gorm:"type:varchar(64)"`
	Notes       string `json:"notes,omitempty" gorm:"type:text"`
	Status      Status `json:"status"      gorm:"type:varchar(16);not null;index:idx_design_status"`

	CurrentQuote       *Quote          `json:"current_quote,omitempty"       gorm:"serializer:json"`
	OpeningQuote       *Quote          `json:"opening_quote,omitempty"       gorm:"serializer:json"`
	NegotiationHistory []QuoteEntry    `json:"negotiation_history"           gorm:"serializer:json"`
	SellerResponse     *Response       `json:"seller_response,omitempty"     gorm:"serializer:json"`
	CustomerResponse   *Response       `json:"customer_response,omitempty"   gorm:"serializer:json"`
	AdvancePayment     *AdvancePayment `json:"advance_payment,omitempty"     gorm:"serializer:json"`

	IsPriority bool    `json:"is_priority" gorm:"not null;default:false"`
	OrderID    *string `json:"order_id,omitempty" gorm:"type:char(36)"`
	Version    int64   `json:"version"     gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index:idx_design_updated"`
}

// TableName returns the database table name for DesignRequest.
func (DesignRequest) TableName() string { return "design_requests" }

// Clone returns a deep copy so that callers can mutate the copy and discard
// it on failure without touching the original.
func (d *DesignRequest) Clone() *DesignRequest {
	if d == nil {
		return nil
	}
	out := *d
	if d.CurrentQuote != nil {
		q := *d.CurrentQuote
		out.CurrentQuote = &q
	}
	if d.OpeningQuote != nil {
		q := *d.OpeningQuote
		out.OpeningQuote = &q
	}
	if d.NegotiationHistory != nil {
		out.NegotiationHistory = append([]QuoteEntry(nil), d.NegotiationHistory...)
	}
	if d.SellerResponse != nil {
		r := *d.SellerResponse
		out.SellerResponse = &r
	}
	if d.CustomerResponse != nil {
		r := *d.CustomerResponse
		out.CustomerResponse = &r
	}
	if d.AdvancePayment != nil {
		p := *d.AdvancePayment
		out.AdvancePayment = &p
	}
	if d.OrderID != nil {
		id := *d.OrderID
		out.OrderID = &id
	}
	return &out
}
