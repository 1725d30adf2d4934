// Package format renders amounts and dates for display.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MissingAmount is shown when no amount is available.
const MissingAmount = "$---"

var printer = message.NewPrinter(language.English)

// ErrInvalidAmount is returned when a submitted amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Currency formats minor units as dollars, e.g. 123456 -> "$1,234.56"
// and -500 -> "-$5.00".
func Currency(amount int64) string {
	abs := uint64(amount)
	if amount < 0 {
		abs = uint64(-(amount + 1)) + 1
	}

	s := "$" + printer.Sprintf("%d", abs/100) + fmt.Sprintf(".%02d", abs%100)
	if amount < 0 {
		return "-" + s
	}
	return s
}

// OptionalCurrency is Currency for a value that may be absent.
func OptionalCurrency(amount *int64) string {
	if amount == nil {
		return MissingAmount
	}
	return Currency(*amount)
}

// ParseAmount converts a decimal dollar string into minor units.
// Fractions of a cent are truncated toward zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := f * 100
	if math.IsNaN(cents) || math.IsInf(cents, 0) || cents > math.MaxInt64 || cents < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return int64(cents), nil
}
