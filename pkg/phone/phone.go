package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber возвращается, когда номер нельзя привести к E.164
var ErrInvalidNumber = errors.New("phone: invalid phone number")

// Normalize приводит номер к формату E.164.
// Номер без "+" интерпретируется в регионе defaultRegion (ISO 3166-1, например "CN", "US").
func Normalize(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidNumber)
	}

	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidNumber, raw, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("%w: %q is not a possible number", ErrInvalidNumber, raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
