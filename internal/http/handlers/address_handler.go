package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/services"
)

// CreateAddressRequest is a new shipping address.
type CreateAddressRequest struct {
	Name       string `json:"name"        binding:"required" example:"Asha Rao"`
	Line1      string `json:"line1"       binding:"required" example:"12 MG Road"`
	Line2      string `json:"line2"       example:"Flat 4B"`
	City       string `json:"city"        binding:"required" example:"Pune"`
	State      string `json:"state"       example:"MH"`
	PostalCode string `json:"postal_code" example:"411001"`
	Country    string `json:"country"     binding:"required" example:"IN"`
	Phone      string `json:"phone"       example:"+91 98200 00000"`
	IsDefault  bool   `json:"is_default"`
}

// ListAddressesResponse wraps the caller's addresses, default first.
type ListAddressesResponse struct {
	Addresses []domain.Address `json:"addresses"`
}

// CreateAddress godoc
// @ID          createAddress
// @Summary     Add a shipping address
// @Description The first address becomes the default; is_default moves the default to the new one.
// @Tags        Addresses
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
// @Param       body       body    handlers.CreateAddressRequest  true  "Address"
//
// @Success     201  {object}  domain.Address
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Router      /addresses [post]
func (h *Handlers) CreateAddress(c *gin.Context) {
	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, line1, city and country are required")
		return
	}
	addr, err := h.addresses.Create(c.Request.Context(), actor(c), services.AddressInput{
		Name:       req.Name,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, addr)
}

// ListAddresses godoc
// @ID          listAddresses
// @Summary     List the caller's shipping addresses
// @Tags        Addresses
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(cust-1)
//
// @Success     200  {object}  handlers.ListAddressesResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Router      /addresses [get]
func (h *Handlers) ListAddresses(c *gin.Context) {
	list, err := h.addresses.List(c.Request.Context(), actor(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if list == nil {
		list = []domain.Address{}
	}
	ok(c, http.StatusOK, ListAddressesResponse{Addresses: list})
}
