// Package core holds the domain model: entities, enumerations, money and
// date types, validation rules and the monthly aggregation.
package core

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal currency amount with a fixed scale of two.
// All arithmetic goes through shopspring/decimal; float64 never enters the
// calculation path.
type Money struct {
	d decimal.Decimal
}

// Scale is the number of fractional digits amounts are kept at.
const Scale = 2

// ParseMoney parses a user-supplied amount string. Both dot and comma are
// accepted as decimal separators. The value must be a finite, non-negative
// decimal; a third fractional digit is rounded half-up.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, Invalid("amount", "empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Invalid("amount", "not a decimal number")
	}
	if d.IsNegative() {
		return Money{}, Invalid("amount", "must not be negative")
	}
	return Money{d: d.Round(Scale)}, nil
}

// MoneyFromMinorUnits builds an amount from integer minor units (cents).
func MoneyFromMinorUnits(units int64) Money {
	return Money{d: decimal.New(units, -Scale)}
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money        { return Money{d: m.d.Neg()} }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) Cmp(o Money) int  { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool {
	return m.d.Cmp(o.d) == 0
}

// MinorUnits returns the amount in integer minor units.
func (m Money) MinorUnits() int64 {
	return m.d.Shift(Scale).Round(0).IntPart()
}

// String renders the canonical fixed-scale form, e.g. "500.00".
func (m Money) String() string {
	return m.d.StringFixed(Scale)
}

// Display formats the amount with the given ISO currency code for human
// consumption, e.g. "2 000,00 kr" for SEK.
func (m Money) Display(currency string) string {
	c := gomoney.GetCurrency(currency)
	if c == nil {
		return m.String() + " " + currency
	}
	return gomoney.New(m.MinorUnits(), c.Code).Display()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Invalid("amount", "not a decimal number")
	}
	*m = Money{d: d.Round(Scale)}
	return nil
}
