package valueobjects

import (
	"fmt"
	"strings"

	"github.com/hearthledger/budget-backend/errors"
	"github.com/shopspring/decimal"
)

const maxCentsPlaces = 2

const (
	ErrInvalidAmount   = "INVALID_AMOUNT"
	ErrTooManyDecimals = "TOO_MANY_DECIMALS"
)

// Money is a non-negative dollar amount with at most cent precision.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates amount as a ledger value.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if res := validate(amount); !res.Valid {
		return Money{}, errors.ValidationFailed("invalid amount", res.Message)
	}
	return Money{amount: amount}, nil
}

// NewPayment validates amount as a repayment: a Money that is also positive.
func NewPayment(amount decimal.Decimal) (Money, error) {
	m, err := NewMoney(amount)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, errors.ValidationFailed("invalid payment amount", "amount must be greater than zero")
	}
	return m, nil
}

// NewMoneyFromString parses and validates a decimal string such as "250.00".
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, errors.ValidationFailed("invalid amount format", err.Error())
	}
	return NewMoney(d)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// String renders the amount for display, e.g. "$1,234.50".
func (m Money) String() string {
	return FormatUSD(m.amount)
}

// FormatUSD renders any decimal with a dollar sign, thousands separators and
// two decimal places, rounding half away from zero.
func FormatUSD(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(maxCentsPlaces)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), cents)
}

type ValidationResult struct {
	Valid   bool
	Code    string
	Message string
}

func validate(amount decimal.Decimal) ValidationResult {
	if amount.IsNegative() {
		return ValidationResult{
			Code:    ErrInvalidAmount,
			Message: "amount cannot be negative",
		}
	}
	// Compare values, not the exponent: 10.500 is valid.
	if !amount.Equal(amount.Truncate(maxCentsPlaces)) {
		return ValidationResult{
			Code:    ErrTooManyDecimals,
			Message: fmt.Sprintf("amount cannot have more than %d decimal places", maxCentsPlaces),
		}
	}
	return ValidationResult{Valid: true}
}
