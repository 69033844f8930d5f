// Package payments cross-checks payment outcomes reported to the design
// service against the payment gateway before they are recorded. The service
// never initiates a charge; it only confirms that what it is told matches
// what the gateway holds.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// MethodMercadoPago is the payment method value that triggers verification.
const MethodMercadoPago = "mercadopago"

var (
	// ErrMissingAccessToken is returned when verification is enabled without credentials.
	ErrMissingAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

	// ErrMismatch is returned when the gateway disagrees with the reported outcome.
	ErrMismatch = errors.New("payment does not match gateway record")

	// ErrInvalidReference is returned when details do not carry a gateway payment id.
	ErrInvalidReference = errors.New("payment details must carry a gateway payment id")
)

// paymentGetter is the subset of payment.Client the verifier needs.
type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoVerifier looks payments up by id and compares status and amount.
type MercadoPagoVerifier struct {
	client paymentGetter
}

// NewMercadoPagoVerifier builds a verifier backed by the MercadoPago SDK.
func NewMercadoPagoVerifier(accessToken string) (*MercadoPagoVerifier, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrMissingAccessToken
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPagoVerifier{client: payment.NewClient(cfg)}, nil
}

// Verify confirms p against the gateway. Payments made with other methods
// are accepted as reported. For MercadoPago payments, Details holds the
// gateway payment id.
func (v *MercadoPagoVerifier) Verify(ctx context.Context, p domain.AdvancePayment) error {
	if !strings.EqualFold(strings.TrimSpace(p.Method), MethodMercadoPago) {
		return nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(p.Details))
	if err != nil || id <= 0 {
		return ErrInvalidReference
	}

	res, err := v.client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}

	if got := gatewayStatus(res.Status); got != p.Status {
		return fmt.Errorf("%w: gateway status %q, reported %s", ErrMismatch, res.Status, p.Status)
	}
	if !decimal.NewFromFloat(res.TransactionAmount).Equal(p.Amount) {
		return fmt.Errorf("%w: gateway amount %v, reported %s", ErrMismatch, res.TransactionAmount, p.Amount)
	}
	return nil
}

// gatewayStatus folds MercadoPago's payment statuses onto ours.
func gatewayStatus(s string) domain.PaymentStatus {
	switch strings.ToLower(s) {
	case "approved":
		return domain.PaymentPaid
	case "refunded", "charged_back":
		return domain.PaymentRefunded
	case "rejected", "cancelled":
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}
