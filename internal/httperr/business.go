package httperr

import "errors"

// BusinessError carries a stable machine-readable code from a use case to the
// handler boundary, where it is mapped onto an HTTP status.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code of a wrapped BusinessError, or "".
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Codes produced by the shop use cases.
const (
	CodeValidation         = "validation_error"
	CodeInvalidVIN         = "invalid_vin"
	CodeDuplicateVIN       = "duplicate_vin"
	CodeDuplicateEmail     = "duplicate_email"
	CodeForbidden          = "forbidden"
	CodeTicketNotFound     = "ticket_not_found"
	CodeCustomerNotFound   = "customer_not_found"
	CodeMechanicNotFound   = "mechanic_not_found"
	CodePartNotFound       = "part_not_found"
	CodeLaborLogNotFound   = "labor_log_not_found"
	CodeNotAssigned        = "mechanic_not_assigned"
	CodeInsufficientStock  = "insufficient_stock"
	CodeInvalidQuantity    = "invalid_quantity"
	CodeMechanicHasLogs    = "mechanic_has_labor_logs"
	CodeMechanicHasTickets = "mechanic_has_tickets"
	CodeCustomerHasTickets = "customer_has_tickets"
)
