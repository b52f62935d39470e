package ticket

import (
	"regexp"
	"strings"

	"github.com/redlineautoworks/mechanic-shop/internal/httperr"
)

// Standard VIN: 17 alphanumeric characters, excluding I, O and Q.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

func NormalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

func ValidateVIN(vin string) error {
	if !vinPattern.MatchString(NormalizeVIN(vin)) {
		return httperr.ErrBusiness(httperr.CodeInvalidVIN)
	}
	return nil
}
