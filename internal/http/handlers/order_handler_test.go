package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/services"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

func completedPair() (*domain.Order, *domain.DesignRequest) {
	d := pendingDesign()
	d.Status = domain.StatusCompleted
	oid := "o-1"
	d.OrderID = &oid
	o := &domain.Order{
		ID:         oid,
		CustomerID: d.CustomerID,
		Amount:     decimal.NewFromInt(1200),
		Status:     domain.OrderPending,
		DesignID:   &d.ID,
		Items:      []domain.OrderItem{{Name: "Custom design", Quantity: 2, IsCustomDesign: true}},
	}
	return o, d
}

func TestConvertToOrder(t *testing.T) {
	o, d := completedPair()

	tests := []struct {
		name        string
		result      *services.ConvertResult
		err         error
		headers     []string
		wantStatus  int
		wantCode    string
		wantReplay  bool
		wantWarning string
	}{
		{
			name:       "created",
			result:     &services.ConvertResult{Order: o, Design: d},
			headers:    []string{"Idempotency-Key", "k-1"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "replayed",
			result:     &services.ConvertResult{Order: o, Replayed: true},
			headers:    []string{"Idempotency-Key", "k-1"},
			wantStatus: http.StatusCreated,
			wantReplay: true,
		},
		{
			name:        "status not synced",
			result:      &services.ConvertResult{Order: o, Design: pendingDesign(), Warning: services.WarningStatusNotSynced},
			wantStatus:  http.StatusCreated,
			wantWarning: services.WarningStatusNotSynced,
		},
		{
			name:       "missing address",
			err:        fmt.Errorf("%w: add a shipping address", services.ErrMissingAddress),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeMissingAddress,
		},
		{
			name:       "already converted",
			err:        fmt.Errorf("%w: design d-1 already has an order", services.ErrAlreadyConverted),
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeAlreadyConverted,
		},
		{
			name:       "order service down",
			err:        fmt.Errorf("%w: create order: timeout", services.ErrDependencyFailure),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeDependencyFailure,
		},
		{
			name:       "bad idempotency key",
			headers:    []string{"Idempotency-Key", "has space"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_idempotency_key",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubFulfillment{result: tc.result, err: tc.err}
			r := newRouter(New(nil, stub, nil))
			w := do(r, http.MethodPost, "/designs/d-1/order", "cust-1", "", tc.headers...)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantCode != "" {
				if got := decode[ErrorResponse](t, w).Code; got != tc.wantCode {
					t.Fatalf("code = %q; want %q", got, tc.wantCode)
				}
				return
			}
			if got := w.Header().Get(HeaderIdempotencyReplayed) == "true"; got != tc.wantReplay {
				t.Fatalf("replayed header = %v", got)
			}
			if len(tc.headers) == 2 && stub.lastInput.IdempotencyKey != tc.headers[1] {
				t.Fatalf("key = %q", stub.lastInput.IdempotencyKey)
			}
			resp := decode[ConvertResponse](t, w)
			if resp.Order == nil || resp.Order.ID != "o-1" || !resp.Order.Amount.Equal(decimal.NewFromInt(1200)) {
				t.Fatalf("order = %+v", resp.Order)
			}
			if resp.Warning != tc.wantWarning {
				t.Fatalf("warning = %q", resp.Warning)
			}
			if tc.result.Design == nil && resp.Design != nil {
				t.Fatal("design must be omitted when unknown")
			}
		})
	}
}

func TestConvertToOrder_PaymentOverrides(t *testing.T) {
	o, d := completedPair()
	stub := &stubFulfillment{result: &services.ConvertResult{Order: o, Design: d}}
	r := newRouter(New(nil, stub, nil))

	w := do(r, http.MethodPost, "/designs/d-1/order", "seller-1",
		`{"payment_method":"cash","payment_status":"Pending","payment_details":"COD"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	in := stub.lastInput
	if in.PaymentMethod != "cash" || in.PaymentStatus != "Pending" || in.PaymentDetails != "COD" {
		t.Fatalf("input = %+v", in)
	}
	if stub.lastActor.Role != workflow.RoleSeller {
		t.Fatalf("actor = %+v", stub.lastActor)
	}

	if w := do(r, http.MethodPost, "/designs/d-1/order", "seller-1", `{"payment_method":`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", w.Code)
	}
}

func TestGetOrder(t *testing.T) {
	o, _ := completedPair()
	stub := &stubFulfillment{order: o}
	r := newRouter(New(nil, stub, nil))

	w := do(r, http.MethodGet, "/orders/o-1", "cust-1", "")
	if w.Code != http.StatusOK || decode[domain.Order](t, w).ID != "o-1" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	stub.err = services.ErrOrderNotFound
	if w := do(r, http.MethodGet, "/orders/o-1", "cust-2", ""); w.Code != http.StatusNotFound {
		t.Fatalf("foreign order status = %d", w.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	o, _ := completedPair()
	o.Status = domain.OrderShipped
	stub := &stubFulfillment{order: o}
	r := newRouter(New(nil, stub, nil))

	if w := do(r, http.MethodPut, "/orders/o-1/status", "seller-1", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty body status = %d", w.Code)
	}

	w := do(r, http.MethodPut, "/orders/o-1/status", "seller-1", `{"status":"shipped"}`)
	if w.Code != http.StatusOK || stub.lastStatus != "shipped" {
		t.Fatalf("got %d, status arg %q", w.Code, stub.lastStatus)
	}

	stub.err = fmt.Errorf("%w: only sellers update orders", services.ErrUnauthorized)
	if w := do(r, http.MethodPut, "/orders/o-1/status", "cust-1", `{"status":"Shipped"}`); w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", w.Code)
	}
}
