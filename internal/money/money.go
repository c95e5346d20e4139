// Package money holds the fixed-point helpers shared by the share calculator
// and the settlement engine. Amounts are shopspring decimals; nothing here
// ever goes through float64.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
)

// DefaultPlaces is the minor-unit scale of conventional currencies.
const DefaultPlaces int32 = 2

// minorUnits lists currencies whose minor unit is not two digits.
var minorUnits = map[string]int32{
	"CLP": 0, "ISK": 0, "JPY": 0, "KRW": 0, "UGX": 0, "VND": 0, "XAF": 0, "XOF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

var hundred = decimal.NewFromInt(100)

// Hundred returns 100 as a decimal.
func Hundred() decimal.Decimal {
	return hundred
}

// Places returns the number of minor-unit digits for a currency code.
// Unknown or empty codes use DefaultPlaces.
func Places(currency string) int32 {
	if p, ok := minorUnits[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return p
	}
	return DefaultPlaces
}

// Unit returns one minor unit at the given scale, e.g. 0.01 for two places.
func Unit(places int32) decimal.Decimal {
	return decimal.New(1, -places)
}

// Epsilon is the tolerance used when testing a balance for zero: half a
// minor unit, so any amount of at least one minor unit is significant.
func Epsilon(places int32) decimal.Decimal {
	return decimal.New(5, -(places + 1))
}

// Round rounds half away from zero to the given number of places.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundDown rounds towards negative infinity to the given number of places.
func RoundDown(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundFloor(places)
}

// Sum adds up a list of decimals. The sum of an empty list is zero.
func Sum(ds []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// IsZero reports whether d is within Epsilon of zero.
func IsZero(d decimal.Decimal, places int32) bool {
	return d.Abs().LessThan(Epsilon(places))
}

// HasPlaces reports whether d can be expressed with at most places digits
// after the decimal point.
func HasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// NormalizeCurrency trims and upper-cases an ISO 4217 style code.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: currency %q must be a 3-letter code", models.ErrInvalidInput, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: currency %q must be a 3-letter code", models.ErrInvalidInput, code)
		}
	}
	return c, nil
}
