package overspend

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Responsibility is the share of an overspend a member must repay and its
// weekly installment. Amounts are not rounded.
type Responsibility struct {
	Percent            decimal.Decimal `json:"responsibilityPercent"`
	Amount             decimal.Decimal `json:"responsibilityAmount"`
	WeeklyContribution decimal.Decimal `json:"weeklyContribution"`
	WeekCount          int             `json:"weekCount"`
}

// Calculate derives the responsibility amount and weekly installment.
func Calculate(d Detection, percent decimal.Decimal, weekCount int) (Responsibility, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return Responsibility{}, fmt.Errorf("responsibility percent must be between 0 and 100, got %s", percent)
	}
	if weekCount <= 0 {
		return Responsibility{}, fmt.Errorf("week count must be positive, got %d", weekCount)
	}

	amount := d.TotalCharges.Mul(percent).Div(hundred)
	return Responsibility{
		Percent:            percent,
		Amount:             amount,
		WeeklyContribution: amount.Div(decimal.NewFromInt(int64(weekCount))),
		WeekCount:          weekCount,
	}, nil
}
