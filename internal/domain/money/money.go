// Package money provides an immutable, currency-tagged decimal value object.
// Arithmetic between two values requires equal currency; a mismatch is reported
// to the caller rather than coerced. Amounts may be negative so that checking
// accounts can represent an overdrawn balance.
package money

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch reports arithmetic or comparison across differing currencies
type ErrCurrencyMismatch struct {
	Left  string
	Right string
}

func (e ErrCurrencyMismatch) Error() string {
	return "currency mismatch: " + e.Left + " vs " + e.Right
}

// Is implements the errors.Is interface for ErrCurrencyMismatch
func (e ErrCurrencyMismatch) Is(target error) bool {
	t, ok := target.(ErrCurrencyMismatch)
	if !ok {
		return false
	}
	// Empty currencies on the target match any mismatch
	if t.Left == "" && t.Right == "" {
		return true
	}
	return e.Left == t.Left && e.Right == t.Right
}

// Money is a currency-tagged decimal amount. The zero value is 0 in the empty
// currency; use the constructors instead. Values are never mutated in place,
// every operation returns a new value.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New creates a Money value from a decimal amount and a currency code
func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// FromFloat creates a Money value from a float64 amount and a currency code
func FromFloat(amount float64, currency string) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: currency}
}

// Zero returns a zero amount in the given currency
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// Add returns m + other, or ErrCurrencyMismatch when the currencies differ
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch{Left: m.currency, Right: other.currency}
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other, or ErrCurrencyMismatch when the currencies differ.
// The result may be negative; rejecting a negative balance is the caller's
// policy, not Money's.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch{Left: m.currency, Right: other.currency}
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Mul returns m scaled by the given factor, keeping the currency
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Neg returns m with the amount negated
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Cmp compares two values of the same currency: -1 if m < other, 0 if equal,
// +1 if m > other. Returns ErrCurrencyMismatch when the currencies differ.
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, ErrCurrencyMismatch{Left: m.currency, Right: other.currency}
	}
	return m.amount.Cmp(other.amount), nil
}

// Equal reports whether two values have the same amount and currency
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsPositive reports whether the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is less than zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount equals zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.amount = raw.Amount
	m.currency = raw.Currency
	return nil
}

// String renders the amount with two decimal places and the currency suffix,
// e.g. "1050.00 TRY"
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}
