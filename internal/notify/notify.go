// Package notify publishes design workflow events to interested parties.
//
// Delivery is fire-and-forget: a Notifier never returns an error to the
// caller, and a failed delivery never affects negotiation state. Failures are
// logged with zerolog and counted.
package notify

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EventType names what happened to a design request.
type EventType string

const (
	EventSubmitted       EventType = "design.submitted"
	EventQuoted          EventType = "design.quoted"
	EventApproved        EventType = "design.approved"
	EventRejected        EventType = "design.rejected"
	EventNegotiating     EventType = "design.negotiating"
	EventCountered       EventType = "design.countered"
	EventReopened        EventType = "design.reopened"
	EventPaymentRecorded EventType = "design.payment_recorded"
	EventConverted       EventType = "design.converted"
)

// DesignEvent is the payload published for every successful transition.
type DesignEvent struct {
	Type       EventType        `json:"type"`
	DesignID   string           `json:"designId"`
	CustomerID string           `json:"customerId"`
	Status     string           `json:"status"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OrderID    string           `json:"orderId,omitempty"`
	At         time.Time        `json:"at"`
}

// Notifier delivers design events.
type Notifier interface {
	Publish(ctx context.Context, ev DesignEvent)
}

var deliveryFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "design_notification_failures_total",
		Help: "Design events that could not be delivered.",
	},
	[]string{"sink"},
)

func init() {
	prometheus.MustRegister(deliveryFailures)
}

// LogNotifier writes events to the global logger at debug level. It is used
// when no broker is configured.
type LogNotifier struct{}

// Publish logs ev.
func (LogNotifier) Publish(_ context.Context, ev DesignEvent) {
	e := log.Debug().
		Str("event", string(ev.Type)).
		Str("design_id", ev.DesignID).
		Str("customer_id", ev.CustomerID).
		Str("status", ev.Status)
	if ev.Amount != nil {
		e = e.Str("amount", ev.Amount.String())
	}
	if ev.OrderID != "" {
		e = e.Str("order_id", ev.OrderID)
	}
	e.Msg("design event")
}

// Nop discards every event.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, DesignEvent) {}
