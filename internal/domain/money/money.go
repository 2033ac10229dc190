package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	centsPerUnit   = 100
	fractionDigits = 2

	errEmptyAmount        = "amount cannot be empty"
	errInvalidAmountFmt   = "invalid amount: %q"
	errTooManyDecimalsFmt = "amount %q has more than %d decimal places"
	errAmountOverflowFmt  = "amount %q is too large"
)

// Cents is a fixed-point currency amount in minor units.
type Cents int64

// Parse reads a non-negative decimal amount such as "10", "10.5" or "10.50".
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errEmptyAmount)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !isDigits(whole) || (hasFrac && (frac == "" || !isDigits(frac))) {
		return 0, fmt.Errorf(errInvalidAmountFmt, s)
	}
	if len(frac) > fractionDigits {
		return 0, fmt.Errorf(errTooManyDecimalsFmt, s, fractionDigits)
	}
	for len(frac) < fractionDigits {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/centsPerUnit-1 {
		return 0, fmt.Errorf(errAmountOverflowFmt, s)
	}
	minor, _ := strconv.ParseInt(frac, 10, 64)

	return Cents(units*centsPerUnit + minor), nil
}

// Mul returns c * qty and reports false on overflow.
func (c Cents) Mul(qty int) (Cents, bool) {
	if qty < 0 || c < 0 {
		return 0, false
	}
	if qty != 0 && int64(c) > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return c * Cents(qty), true
}

// Add returns c + other and reports false on overflow.
func (c Cents) Add(other Cents) (Cents, bool) {
	if other > 0 && c > Cents(math.MaxInt64)-other {
		return 0, false
	}
	return c + other, true
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf(errInvalidAmountFmt, string(data))
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
