// Order HTTP handlers.
//
//   - POST /designs/{id}/order   (convert an approved design, Idempotency-Key aware)
//   - GET  /orders/{id}          (fetch)
//   - PUT  /orders/{id}/status   (seller moves the order through fulfillment)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/http/middleware"
	"github.com/tbourn/sparrow-design-service/internal/services"
)

// HeaderIdempotencyReplayed marks a conversion served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// ConvertRequest optionally overrides the payment data copied onto the
// order. Omitted fields come from the design's advance payment.
type ConvertRequest struct {
	PaymentMethod  string `json:"payment_method"  example:"mercadopago"`
	PaymentStatus  string `json:"payment_status"  enums:"Pending,Paid,Failed,Refunded" example:"Paid"`
	PaymentDetails string `json:"payment_details" example:"1318284372"`
}

// ConvertResponse is the created order and the completed design. Warning
// is set when the order exists but the design could not be marked
// completed yet.
type ConvertResponse struct {
	Order   *domain.Order `json:"order"`
	Design  *DesignView   `json:"design,omitempty"`
	Warning string        `json:"warning,omitempty" example:"order created; design status update failed and will be reconciled"`
}

// UpdateOrderStatusRequest is the new fulfillment status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" enums:"Pending,Processing,Shipped,Delivered,Cancelled" example:"Shipped"`
}

// ConvertToOrder godoc
// @ID          convertToOrder
// @Summary     Convert an approved design into an order
// @Description Creates exactly one order for the design and marks it completed. Customers need a payment record and a shipping address; sellers get a placeholder address when the customer has none. Retries with the same Idempotency-Key return the first result.
// @Tags        Fulfillment
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Caller identity"  example(cust-1)
// @Param       Idempotency-Key  header  string  false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true   "Design ID"  format(uuid)
// @Param       body             body    handlers.ConvertRequest  false  "Payment overrides"
//
// @Success     201  {object}  handlers.ConvertResponse
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not allowed"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition or already converted"
// @Failure     422  {object}  handlers.ErrorResponse  "No shipping address"
// @Failure     502  {object}  handlers.ErrorResponse  "Order or address service failed"
// @Router      /designs/{id}/order [post]
func (h *Handlers) ConvertToOrder(c *gin.Context) {
	var req ConvertRequest
	if !bindOptional(c, &req) {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)
	a := actor(c)

	res, err := h.fulfil.ConvertToOrder(c.Request.Context(), a, c.Param("id"), services.ConvertInput{
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		PaymentDetails: req.PaymentDetails,
		IdempotencyKey: key,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	if res.Replayed {
		c.Header(HeaderIdempotencyReplayed, "true")
	}
	if res.Warning != "" {
		middleware.LoggerFrom(c).Warn().
			Str("design_id", c.Param("id")).
			Str("order_id", res.Order.ID).
			Msg(res.Warning)
	}
	resp := ConvertResponse{Order: res.Order, Warning: res.Warning}
	if res.Design != nil {
		v := view(res.Design, a)
		resp.Design = &v
	}
	ok(c, http.StatusCreated, resp)
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch an order
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
// @Param       id         path    string  true  "Order ID"  format(uuid)
//
// @Success     200  {object}  domain.Order
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := h.fulfil.GetOrder(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, o)
}

// UpdateOrderStatus godoc
// @ID          updateOrderStatus
// @Summary     Update an order's fulfillment status
// @Tags        Orders
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Seller identity"  example(seller-1)
// @Param       id         path    string  true  "Order ID"  format(uuid)
// @Param       body       body    handlers.UpdateOrderStatusRequest  true  "New status"
//
// @Success     200  {object}  domain.Order
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a seller"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /orders/{id}/status [put]
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}
	o, err := h.fulfil.UpdateOrderStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, o)
}
