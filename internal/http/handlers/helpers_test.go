package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/http/middleware"
	"github.com/tbourn/sparrow-design-service/internal/services"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// stubDesigns records the last call and returns canned results.
type stubDesigns struct {
	design *domain.DesignRequest
	err    error

	items    []domain.DesignRequest
	total    int64
	count    int64
	latest   *time.Time
	statsErr error

	calls      int
	lastActor  workflow.Actor
	lastID     string
	lastAction string
	lastAmount string
	lastMsg    string
	lastStatus string
	lastPage   [2]int
	lastSubmit services.SubmitInput
	lastPay    services.PaymentInput
}

func (s *stubDesigns) record(a workflow.Actor, id string) {
	s.calls++
	s.lastActor, s.lastID = a, id
}

func (s *stubDesigns) Submit(_ context.Context, a workflow.Actor, in services.SubmitInput) (*domain.DesignRequest, error) {
	s.record(a, "")
	s.lastSubmit = in
	return s.design, s.err
}

func (s *stubDesigns) Get(_ context.Context, a workflow.Actor, id string) (*domain.DesignRequest, error) {
	s.record(a, id)
	return s.design, s.err
}

func (s *stubDesigns) ListPage(_ context.Context, a workflow.Actor, status string, page, pageSize int) ([]domain.DesignRequest, int64, error) {
	s.record(a, "")
	s.lastStatus, s.lastPage = status, [2]int{page, pageSize}
	return s.items, s.total, s.err
}

func (s *stubDesigns) Stats(_ context.Context, _ workflow.Actor, _ string) (int64, *time.Time, error) {
	return s.count, s.latest, s.statsErr
}

func (s *stubDesigns) Quote(_ context.Context, a workflow.Actor, id, amount, message string) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastAmount, s.lastMsg = amount, message
	return s.design, s.err
}

func (s *stubDesigns) Respond(_ context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastAction, s.lastAmount, s.lastMsg = action, amount, message
	return s.design, s.err
}

func (s *stubDesigns) RespondToNegotiation(_ context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastAction, s.lastAmount, s.lastMsg = action, amount, message
	return s.design, s.err
}

func (s *stubDesigns) Reopen(_ context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastMsg = message
	return s.design, s.err
}

func (s *stubDesigns) Decline(_ context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastMsg = message
	return s.design, s.err
}

func (s *stubDesigns) RecordPayment(_ context.Context, a workflow.Actor, id string, in services.PaymentInput) (*domain.DesignRequest, error) {
	s.record(a, id)
	s.lastPay = in
	return s.design, s.err
}

type stubFulfillment struct {
	result *services.ConvertResult
	order  *domain.Order
	err    error

	lastActor  workflow.Actor
	lastInput  services.ConvertInput
	lastStatus string
}

func (s *stubFulfillment) ConvertToOrder(_ context.Context, a workflow.Actor, _ string, in services.ConvertInput) (*services.ConvertResult, error) {
	s.lastActor, s.lastInput = a, in
	return s.result, s.err
}

func (s *stubFulfillment) GetOrder(_ context.Context, a workflow.Actor, _ string) (*domain.Order, error) {
	s.lastActor = a
	return s.order, s.err
}

func (s *stubFulfillment) UpdateOrderStatus(_ context.Context, a workflow.Actor, _ string, status string) (*domain.Order, error) {
	s.lastActor, s.lastStatus = a, status
	return s.order, s.err
}

type stubAddresses struct {
	addr *domain.Address
	list []domain.Address
	err  error
	last services.AddressInput
}

func (s *stubAddresses) Create(_ context.Context, _ workflow.Actor, in services.AddressInput) (*domain.Address, error) {
	s.last = in
	return s.addr, s.err
}

func (s *stubAddresses) List(_ context.Context, _ workflow.Actor) ([]domain.Address, error) {
	return s.list, s.err
}

type sellers map[string]bool

func (s sellers) IsSeller(id string) bool { return s[id] }

// newRouter mounts the handlers the way the production router does,
// without the outer middleware stack.
func newRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity(sellers{"seller-1": true}), middleware.RequireIdentity())
	r.POST("/designs", h.SubmitDesign)
	r.GET("/designs", h.ListDesigns)
	r.GET("/designs/:id", h.GetDesign)
	r.POST("/designs/:id/quote", h.QuoteDesign)
	r.POST("/designs/:id/response", h.RespondToQuote)
	r.POST("/designs/:id/negotiation", h.RespondToNegotiation)
	r.POST("/designs/:id/reopen", h.ReopenDesign)
	r.POST("/designs/:id/decline", h.DeclineDesign)
	r.POST("/designs/:id/payment", h.RecordPayment)
	r.POST("/designs/:id/order", middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil), h.ConvertToOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.PUT("/orders/:id/status", h.UpdateOrderStatus)
	r.POST("/addresses", h.CreateAddress)
	r.GET("/addresses", h.ListAddresses)
	return r
}

func do(r http.Handler, method, path, user, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func pendingDesign() *domain.DesignRequest {
	return &domain.DesignRequest{
		ID:                 "d-1",
		CustomerID:         "cust-1",
		ImageURL:           "https://img.example/d.png",
		Description:        "crest",
		Quantity:           2,
		Size:               domain.SizeM,
		Status:             domain.StatusPending,
		NegotiationHistory: []domain.QuoteEntry{},
		Version:            1,
	}
}
