package overspend

import (
	"fmt"

	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config holds the service-wide defaults. Households override Threshold,
// AutoCreateThreshold and WeekCount through their settings, and
// ResponsibilityPercent per member through their income split.
type Config struct {
	Threshold             decimal.Decimal
	AutoCreateThreshold   decimal.Decimal
	ResponsibilityPercent decimal.Decimal
	WeekCount             int
}

// DefaultConfig returns 500 / 1000 / 50% / 4 weeks.
func DefaultConfig() Config {
	return Config{
		Threshold:             decimal.NewFromInt(500),
		AutoCreateThreshold:   decimal.NewFromInt(1000),
		ResponsibilityPercent: decimal.NewFromInt(50),
		WeekCount:             4,
	}
}

// HouseholdConfig is Config resolved against one household's settings.
type HouseholdConfig struct {
	Threshold           decimal.Decimal
	AutoCreateThreshold decimal.Decimal
	WeekCount           int
	defaultPercent      decimal.Decimal
}

// Resolve applies household overrides on top of c. Missing or negative
// threshold overrides and missing or non-positive week count overrides fall
// back to the default.
func (c Config) Resolve(settings types.HouseholdSettings) HouseholdConfig {
	hc := HouseholdConfig{
		Threshold:           c.Threshold,
		AutoCreateThreshold: c.AutoCreateThreshold,
		WeekCount:           c.WeekCount,
		defaultPercent:      c.ResponsibilityPercent,
	}
	if settings.CreditCardOverspendThreshold != nil && !settings.CreditCardOverspendThreshold.IsNegative() {
		hc.Threshold = *settings.CreditCardOverspendThreshold
	}
	if settings.AutoCreateOverspendProject != nil && !settings.AutoCreateOverspendProject.IsNegative() {
		hc.AutoCreateThreshold = *settings.AutoCreateOverspendProject
	}
	if settings.OverspendWeekCount != nil && *settings.OverspendWeekCount > 0 {
		hc.WeekCount = *settings.OverspendWeekCount
	}
	return hc
}

// PercentFor returns the member's responsibility percent: their income split
// when configured, otherwise the default.
func (hc HouseholdConfig) PercentFor(member types.HouseholdMember) (decimal.Decimal, error) {
	if member.IncomePercentage == nil {
		return hc.defaultPercent, nil
	}
	p := *member.IncomePercentage
	if p.IsNegative() || p.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("income percentage for member %s must be between 0 and 100, got %s", member.UserID, p)
	}
	return p, nil
}
