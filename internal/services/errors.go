// Package services implements the design request workflow on top of the
// persistence layer: submission, quoting and negotiation (DesignService),
// conversion into orders (FulfillmentService), and shipping addresses
// (AddressService).
//
// The failure kinds below are the workflow's own sentinels re-exported so
// handlers only depend on this package. Translation into HTTP status codes
// happens in the handler layer.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// Workflow failure kinds.
var (
	ErrInvalidTransition  = workflow.ErrInvalidTransition
	ErrUnauthorized       = workflow.ErrUnauthorized
	ErrInvalidQuoteAmount = workflow.ErrInvalidQuoteAmount
	ErrInvalidInput       = workflow.ErrInvalidInput
	ErrNotFound           = workflow.ErrNotFound
	ErrMissingAddress     = workflow.ErrMissingAddress
	ErrAlreadyConverted   = workflow.ErrAlreadyConverted
	ErrDependencyFailure  = workflow.ErrDependencyFailure
)

var (
	// ErrOrderNotFound indicates that the order does not exist or is not
	// visible to the current user.
	ErrOrderNotFound = errors.New("order not found")
)

// kindOf returns a short label for err, used as a metric dimension.
func kindOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidQuoteAmount):
		return "invalid_quote_amount"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingAddress):
		return "missing_address"
	case errors.Is(err, ErrAlreadyConverted):
		return "already_converted"
	case errors.Is(err, ErrDependencyFailure):
		return "dependency_failure"
	default:
		return "internal"
	}
}

// isNotFound reports whether err represents a missing record.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNotFound)
}

// authorize runs workflow.Authorize, reporting any failure by a customer on
// someone else's design as ErrNotFound so the id's existence stays hidden.
func authorize(d *domain.DesignRequest, a workflow.Actor, tr workflow.Trigger) error {
	err := workflow.Authorize(d, a, tr)
	if err != nil && a.Role != workflow.RoleSeller && d.CustomerID != a.ID {
		return ErrNotFound
	}
	return err
}
