package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Amount is the monetary type used across quoting and persistence. Values are
// decimal units (dollars), stored in NUMERIC columns.
type Amount = decimal.Decimal

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// ErrNotFinite reports a client-supplied amount that is NaN or infinite.
type ErrNotFinite struct{}

func (ErrNotFinite) Error() string { return "invalid monetary values" }

// Resolve collapses the dual wire encoding of a monetary field. Clients may
// send a field as decimal units, integer cents, or both; cents win when both
// are present. A nil result means the field was absent.
func Resolve(units *float64, cents *int64) (*Amount, error) {
	if cents != nil {
		v := decimal.NewFromInt(*cents).Div(Hundred)
		return &v, nil
	}
	if units != nil {
		if math.IsNaN(*units) || math.IsInf(*units, 0) {
			return nil, ErrNotFinite{}
		}
		v := decimal.NewFromFloat(*units)
		return &v, nil
	}
	return nil, nil
}

// ResolveOr is Resolve with a fallback for absent fields.
func ResolveOr(units *float64, cents *int64, fallback Amount) (Amount, error) {
	v, err := Resolve(units, cents)
	if err != nil {
		return Zero, err
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}

// FloorZero clamps negative totals to zero.
func FloorZero(v Amount) Amount {
	if v.IsNegative() {
		return Zero
	}
	return v
}

// RoundCents rounds to 2 decimal places, the precision of every persisted
// monetary column.
func RoundCents(v Amount) Amount {
	return v.Round(2)
}
