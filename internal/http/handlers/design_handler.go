// Design request HTTP handlers.
//
//   - POST /designs                   (customer submits)
//   - GET  /designs                   (list, paginated, weak ETag)
//   - GET  /designs/{id}              (fetch)
//   - POST /designs/{id}/quote        (seller opening quote)
//   - POST /designs/{id}/response     (customer accept | reject | negotiate)
//   - POST /designs/{id}/negotiation  (seller accept | counter | reject)
//   - POST /designs/{id}/reopen       (seller answers a change request)
//   - POST /designs/{id}/decline      (seller rejects outright)
//   - POST /designs/{id}/payment      (record advance payment)
//
// Every design in a response carries "actions": the triggers the caller may
// fire next.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/services"
	"github.com/tbourn/sparrow-design-service/internal/utils"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

//
// Service contracts
//

// DesignService is the negotiation workflow consumed by the handlers.
// *services.DesignService satisfies it.
type DesignService interface {
	Submit(ctx context.Context, a workflow.Actor, in services.SubmitInput) (*domain.DesignRequest, error)
	Get(ctx context.Context, a workflow.Actor, id string) (*domain.DesignRequest, error)
	ListPage(ctx context.Context, a workflow.Actor, status string, page, pageSize int) ([]domain.DesignRequest, int64, error)
	Stats(ctx context.Context, a workflow.Actor, status string) (int64, *time.Time, error)
	Quote(ctx context.Context, a workflow.Actor, id, amount, message string) (*domain.DesignRequest, error)
	Respond(ctx context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error)
	RespondToNegotiation(ctx context.Context, a workflow.Actor, id, action, amount, message string) (*domain.DesignRequest, error)
	Reopen(ctx context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error)
	Decline(ctx context.Context, a workflow.Actor, id, message string) (*domain.DesignRequest, error)
	RecordPayment(ctx context.Context, a workflow.Actor, id string, in services.PaymentInput) (*domain.DesignRequest, error)
}

// FulfillmentService converts designs into orders and serves them.
type FulfillmentService interface {
	ConvertToOrder(ctx context.Context, a workflow.Actor, designID string, in services.ConvertInput) (*services.ConvertResult, error)
	GetOrder(ctx context.Context, a workflow.Actor, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, a workflow.Actor, id, status string) (*domain.Order, error)
}

// AddressService manages the caller's shipping addresses.
type AddressService interface {
	Create(ctx context.Context, a workflow.Actor, in services.AddressInput) (*domain.Address, error)
	List(ctx context.Context, a workflow.Actor) ([]domain.Address, error)
}

// Handlers groups the design, order and address endpoints.
type Handlers struct {
	designs   DesignService
	fulfil    FulfillmentService
	addresses AddressService
}

// New binds the handlers to their services.
func New(designs DesignService, fulfil FulfillmentService, addresses AddressService) *Handlers {
	return &Handlers{designs: designs, fulfil: fulfil, addresses: addresses}
}

//
// DTOs
//

// Amount is a money value accepted as a JSON number or string. The raw
// text is kept so the workflow reports malformed amounts after it has
// checked who is asking.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*a = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(raw)
	}
	return nil
}

// SubmitDesignRequest is the payload for a new design request. ImageURL is
// the reference returned by the image upload service.
type SubmitDesignRequest struct {
	ImageURL    string `json:"image_url"   binding:"required" example:"https://cdn.sparrow.example/designs/7f3a.png"`
	Description string `json:"description" binding:"required" example:"Team crest on the front, names on the back"`
	Quantity    int    `json:"quantity"    binding:"required" example:"2"`
	Size        string `json:"size"        binding:"required" example:"M"`
	Color       string `json:"color"       example:"navy blue"`
	Notes       string `json:"notes"       example:"Matte print please"`
}

// QuoteRequest is the seller's opening quote.
type QuoteRequest struct {
	Amount  Amount `json:"amount"  swaggertype:"string" example:"1200"`
	Message string `json:"message" example:"Includes two-colour print"`
}

// RespondRequest is the customer's answer to a quote. CounterOffer is
// required for negotiate; a message on reject asks for changes.
type RespondRequest struct {
	Action       string `json:"action"        binding:"required" enums:"accept,reject,negotiate" example:"negotiate"`
	CounterOffer Amount `json:"counter_offer" swaggertype:"string" example:"800"`
	Message      string `json:"message"       example:"Can you do 800?"`
}

// NegotiationRequest is the seller's answer to a counter-offer. Amount is
// required for counter.
type NegotiationRequest struct {
	Action  string `json:"action"  binding:"required" enums:"accept,counter,reject" example:"counter"`
	Amount  Amount `json:"amount"  swaggertype:"string" example:"900"`
	Message string `json:"message" example:"Best I can do is 900"`
}

// MessageRequest carries a free-text message for reopen and decline.
type MessageRequest struct {
	Message string `json:"message" example:"Will switch to the darker blue"`
}

// PaymentRequest is a payment outcome reported by the payment service.
type PaymentRequest struct {
	Amount  Amount `json:"amount"  swaggertype:"string" example:"1200"`
	Method  string `json:"method"  binding:"required" example:"mercadopago"`
	Status  string `json:"status"  binding:"required" enums:"Pending,Paid,Failed,Refunded" example:"Paid"`
	Details string `json:"details" example:"1318284372"`
}

// DesignView is a design request plus the caller's next possible actions.
type DesignView struct {
	*domain.DesignRequest
	Actions []string `json:"actions"`
}

// Pagination carries list metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListDesignsResponse wraps one page of designs.
type ListDesignsResponse struct {
	Designs    []DesignView `json:"designs"`
	Pagination Pagination   `json:"pagination"`
}

func view(d *domain.DesignRequest, a workflow.Actor) DesignView {
	triggers := workflow.Allowed(d, a)
	actions := make([]string, len(triggers))
	for i, tr := range triggers {
		actions[i] = string(tr)
	}
	return DesignView{DesignRequest: d, Actions: actions}
}

// designResult writes d or the error from the service call that made it.
func designResult(c *gin.Context, status int, d *domain.DesignRequest, err error) {
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, status, view(d, actor(c)))
}

// bindOptional decodes a JSON body when one was sent. Empty bodies are fine
// for endpoints whose fields are all optional.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

//
// Handlers
//

// SubmitDesign godoc
// @ID          submitDesign
// @Summary     Submit a custom design request
// @Description A customer submits an uploaded image with order details. The request starts pending.
// @Tags        Designs
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
// @Param       body       body    handlers.SubmitDesignRequest  true  "Design details"
//
// @Success     201  {object}  handlers.DesignView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     403  {object}  handlers.ErrorResponse  "Sellers cannot submit"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /designs [post]
func (h *Handlers) SubmitDesign(c *gin.Context) {
	var req SubmitDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image_url, description, quantity and size are required")
		return
	}
	d, err := h.designs.Submit(c.Request.Context(), actor(c), services.SubmitInput{
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Quantity:    req.Quantity,
		Size:        req.Size,
		Color:       req.Color,
		Notes:       req.Notes,
	})
	designResult(c, http.StatusCreated, d, err)
}

// ListDesigns godoc
// @ID          listDesigns
// @Summary     List design requests (paginated)
// @Description Customers see their own requests, sellers see all. Supports a weak ETag via If-None-Match.
// @Tags        Designs
// @Produce     json
//
// @Param       X-User-ID      header  string  true   "Caller identity"             example(cust-1)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"designs:cust-1::3:1714550400\")
// @Param       status         query   string  false  "Filter by status"            Enums(pending,quoted,negotiating,approved,rejected,completed)
// @Param       page           query   int     false  "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListDesignsResponse
// @Header      200  {string}  ETag  "Weak ETag for the current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /designs [get]
func (h *Handlers) ListDesigns(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	pg := utils.ParsePage(c.Query("page"), c.Query("page_size"))

	// ETag pre-check; a stats failure just skips the conditional path.
	if count, latest, err := h.designs.Stats(ctx, a, status); err == nil {
		etag := designsETag(a, status, count, latest)
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.designs.ListPage(ctx, a, status, pg.Number, pg.Size)
	if err != nil {
		failErr(c, err)
		return
	}
	views := make([]DesignView, len(items))
	for i := range items {
		views[i] = view(&items[i], a)
	}
	ok(c, http.StatusOK, ListDesignsResponse{
		Designs: views,
		Pagination: Pagination{
			Page:       pg.Number,
			PageSize:   pg.Size,
			Total:      total,
			TotalPages: pg.TotalPages(total),
			HasNext:    pg.HasNext(total),
		},
	})
}

func designsETag(a workflow.Actor, status string, count int64, latest *time.Time) string {
	scope := a.ID
	if a.Role == workflow.RoleSeller {
		scope = "seller"
	}
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	return fmt.Sprintf(`W/"designs:%s:%s:%d:%d"`, scope, status, count, ts)
}

// GetDesign godoc
// @ID          getDesign
// @Summary     Fetch a design request
// @Tags        Designs
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
// @Param       id         path    string  true  "Design ID"  format(uuid)
//
// @Success     200  {object}  handlers.DesignView
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /designs/{id} [get]
func (h *Handlers) GetDesign(c *gin.Context) {
	d, err := h.designs.Get(c.Request.Context(), actor(c), c.Param("id"))
	designResult(c, http.StatusOK, d, err)
}

// QuoteDesign godoc
// @ID          quoteDesign
// @Summary     Quote a pending design
// @Description The seller places the opening quote. The design moves to quoted.
// @Tags        Negotiation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Seller identity"  example(seller-1)
// @Param       id         path    string  true  "Design ID"  format(uuid)
// @Param       body       body    handlers.QuoteRequest  true  "Quote"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid amount"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a seller"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /designs/{id}/quote [post]
func (h *Handlers) QuoteDesign(c *gin.Context) {
	var req QuoteRequest
	if !bindOptional(c, &req) {
		return
	}
	d, err := h.designs.Quote(c.Request.Context(), actor(c), c.Param("id"), string(req.Amount), req.Message)
	designResult(c, http.StatusOK, d, err)
}

// RespondToQuote godoc
// @ID          respondToQuote
// @Summary     Answer a quote
// @Description The owning customer accepts, rejects (a message asks for changes) or negotiates with a counter-offer.
// @Tags        Negotiation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Customer identity"  example(cust-1)
// @Param       id         path    string  true  "Design ID"  format(uuid)
// @Param       body       body    handlers.RespondRequest  true  "Response"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or invalid amount"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /designs/{id}/response [post]
func (h *Handlers) RespondToQuote(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action is required")
		return
	}
	d, err := h.designs.Respond(c.Request.Context(), actor(c), c.Param("id"), req.Action, string(req.CounterOffer), req.Message)
	designResult(c, http.StatusOK, d, err)
}

// RespondToNegotiation godoc
// @ID          respondToNegotiation
// @Summary     Answer a counter-offer
// @Description The seller accepts the customer's counter-offer, counters with a new amount, or rejects it so the standing quote applies.
// @Tags        Negotiation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Seller identity"  example(seller-1)
// @Param       id         path    string  true  "Design ID"  format(uuid)
// @Param       body       body    handlers.NegotiationRequest  true  "Answer"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or invalid amount"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a seller"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /designs/{id}/negotiation [post]
func (h *Handlers) RespondToNegotiation(c *gin.Context) {
	var req NegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action is required")
		return
	}
	d, err := h.designs.RespondToNegotiation(c.Request.Context(), actor(c), c.Param("id"), req.Action, string(req.Amount), req.Message)
	designResult(c, http.StatusOK, d, err)
}

// ReopenDesign godoc
// @ID          reopenDesign
// @Summary     Answer a change request
// @Description The seller responds to a customer rejection that asked for changes; the quote goes back on the table.
// @Tags        Negotiation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Seller identity"  example(seller-1)
// @Param       id         path    string  true   "Design ID"  format(uuid)
// @Param       body       body    handlers.MessageRequest  false  "Message to the customer"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     403  {object}  handlers.ErrorResponse  "Not a seller"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /designs/{id}/reopen [post]
func (h *Handlers) ReopenDesign(c *gin.Context) {
	var req MessageRequest
	if !bindOptional(c, &req) {
		return
	}
	d, err := h.designs.Reopen(c.Request.Context(), actor(c), c.Param("id"), req.Message)
	designResult(c, http.StatusOK, d, err)
}

// DeclineDesign godoc
// @ID          declineDesign
// @Summary     Reject a design outright
// @Description Terminal seller rejection from pending, quoted or negotiating. It cannot be reopened.
// @Tags        Negotiation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Seller identity"  example(seller-1)
// @Param       id         path    string  true   "Design ID"  format(uuid)
// @Param       body       body    handlers.MessageRequest  false  "Reason"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     403  {object}  handlers.ErrorResponse  "Not a seller"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /designs/{id}/decline [post]
func (h *Handlers) DeclineDesign(c *gin.Context) {
	var req MessageRequest
	if !bindOptional(c, &req) {
		return
	}
	d, err := h.designs.Decline(c.Request.Context(), actor(c), c.Param("id"), req.Message)
	designResult(c, http.StatusOK, d, err)
}

// RecordPayment godoc
// @ID          recordPayment
// @Summary     Record the advance payment
// @Description Stores the payment outcome on an approved design and marks it priority. MercadoPago payments may be verified with the gateway.
// @Tags        Fulfillment
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
// @Param       id         path    string  true  "Design ID"  format(uuid)
// @Param       body       body    handlers.PaymentRequest  true  "Payment outcome"
//
// @Success     200  {object}  handlers.DesignView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or invalid amount"
// @Failure     403  {object}  handlers.ErrorResponse  "Not allowed"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Failure     502  {object}  handlers.ErrorResponse  "Payment verification failed"
// @Router      /designs/{id}/payment [post]
func (h *Handlers) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "method and status are required")
		return
	}
	d, err := h.designs.RecordPayment(c.Request.Context(), actor(c), c.Param("id"), services.PaymentInput{
		Amount:  string(req.Amount),
		Method:  req.Method,
		Status:  req.Status,
		Details: req.Details,
	})
	designResult(c, http.StatusOK, d, err)
}
