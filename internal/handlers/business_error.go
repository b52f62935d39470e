package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
)

// writeBusinessError maps a use-case BusinessError onto an HTTP response and
// reports whether it handled the error. Call sites that need a different
// status for a specific code (e.g. unassign's 404) check that code first.
func writeBusinessError(c *gin.Context, err error) bool {
	code := httperr.BusinessCode(err)
	if code == "" {
		return false
	}

	switch code {
	case httperr.CodeTicketNotFound:
		httperr.NotFound(c, code, "Service ticket not found.")
	case httperr.CodeCustomerNotFound:
		httperr.NotFound(c, code, "Customer not found.")
	case httperr.CodeMechanicNotFound:
		httperr.NotFound(c, code, "Mechanic not found.")
	case httperr.CodePartNotFound:
		httperr.NotFound(c, code, "Part not found.")
	case httperr.CodeLaborLogNotFound:
		httperr.NotFound(c, code, "Labor log not found.")
	case httperr.CodeForbidden:
		httperr.Forbidden(c, code, "You are not authorized to perform this action.")
	case httperr.CodeInvalidVIN:
		httperr.BadRequest(c, code, "Invalid VIN format. Must be 17 alphanumeric characters (excluding I, O, Q).")
	case httperr.CodeDuplicateVIN:
		httperr.Conflict(c, code, "A service ticket with this VIN already exists.")
	case httperr.CodeDuplicateEmail:
		httperr.Conflict(c, code, "An account with this email already exists.")
	case httperr.CodeNotAssigned:
		httperr.BadRequest(c, code, "Mechanic is not assigned to this ticket.")
	case httperr.CodeInsufficientStock:
		httperr.BadRequest(c, code, "Not enough parts in stock.")
	case httperr.CodeInvalidQuantity:
		httperr.BadRequest(c, code, "Invalid quantity. Must be a positive integer.")
	case httperr.CodeMechanicHasLogs:
		httperr.Conflict(c, code, "Cannot delete mechanic with existing labor logs.")
	case httperr.CodeMechanicHasTickets:
		httperr.Conflict(c, code, "Cannot delete mechanic with assigned service tickets.")
	case httperr.CodeCustomerHasTickets:
		httperr.Conflict(c, code, "Cannot delete customer with existing service tickets.")
	case httperr.CodeValidation:
		httperr.BadRequest(c, code, "Invalid or missing fields.")
	default:
		httperr.BadRequest(c, code, "Request could not be processed.")
	}
	return true
}

// translateDuplicateEmail turns the store's unique-constraint failure on the
// email column into the conflict the API contract promises. The constraint is
// the final arbiter; a race that slips past any pre-check still ends here.
func translateDuplicateEmail(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrBusiness(httperr.CodeDuplicateEmail)
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") {
		return httperr.ErrBusiness(httperr.CodeDuplicateEmail)
	}
	return err
}
