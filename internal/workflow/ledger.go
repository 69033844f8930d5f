// Package workflow holds the custom-design negotiation rules: the quote
// ledger that keeps CurrentQuote and NegotiationHistory consistent, and the
// state machine that authorizes every status transition. It performs no I/O;
// persistence is the caller's concern.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// MaxAmount caps any single quote or payment.
var MaxAmount = decimal.NewFromInt(100_000_000)

// ParseAmount parses a decimal amount from user input and validates it.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidQuoteAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidQuoteAmount, s)
	}
	return d, ValidateAmount(d)
}

// ValidateAmount checks that an amount is positive and within MaxAmount.
func ValidateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidQuoteAmount)
	}
	if a.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount exceeds %s", ErrInvalidQuoteAmount, MaxAmount)
	}
	return nil
}

// SetInitialQuote places the opening seller quote on a pending design. The
// opening quote is not a negotiation round, so history is left untouched.
func SetInitialQuote(d *domain.DesignRequest, amount decimal.Decimal, message string, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if d.Status != domain.StatusPending {
		return fmt.Errorf("%w: initial quote requires status pending, got %s", ErrInvalidTransition, d.Status)
	}
	q := domain.Quote{Amount: amount, Message: message, At: now.UTC()}
	d.CurrentQuote = &q
	opening := q
	d.OpeningQuote = &opening
	return nil
}

// RecordCounterOffer appends a negotiation round and moves CurrentQuote to it.
// Alternation between parties is enforced by the state machine, not here.
func RecordCounterOffer(d *domain.DesignRequest, by domain.Party, amount decimal.Decimal, message string, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	at := stamp(d, now)
	d.NegotiationHistory = append(d.NegotiationHistory, domain.QuoteEntry{
		OfferedBy: by,
		Amount:    amount,
		Message:   message,
		At:        at,
	})
	d.CurrentQuote = &domain.Quote{Amount: amount, Message: message, At: at}
	return nil
}

// LastOfferBy returns the most recent history entry authored by party.
func LastOfferBy(d *domain.DesignRequest, party domain.Party) (domain.QuoteEntry, bool) {
	for i := len(d.NegotiationHistory) - 1; i >= 0; i-- {
		if d.NegotiationHistory[i].OfferedBy == party {
			return d.NegotiationHistory[i], true
		}
	}
	return domain.QuoteEntry{}, false
}

// lastEntry returns the newest history entry regardless of author.
func lastEntry(d *domain.DesignRequest) (domain.QuoteEntry, bool) {
	if n := len(d.NegotiationHistory); n > 0 {
		return d.NegotiationHistory[n-1], true
	}
	return domain.QuoteEntry{}, false
}

// stamp clamps now so history timestamps never go backwards, even when
// clocks on different replicas disagree.
func stamp(d *domain.DesignRequest, now time.Time) time.Time {
	now = now.UTC()
	if last, ok := lastEntry(d); ok && now.Before(last.At) {
		return last.At
	}
	return now
}
