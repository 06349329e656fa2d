package config

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func parseNonNegative(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative, got %s", name, raw)
	}
	return d, nil
}

// Amounts parses the monetary defaults. LoadConfig has already validated them,
// so an error here only happens for hand-built configs.
func (c OverspendConfig) Amounts() (threshold, autoCreateThreshold, responsibilityPercent decimal.Decimal, err error) {
	if threshold, err = parseNonNegative("overspend threshold", c.Threshold); err != nil {
		return
	}
	if autoCreateThreshold, err = parseNonNegative("overspend auto-create threshold", c.AutoCreateThreshold); err != nil {
		return
	}
	responsibilityPercent, err = parseNonNegative("overspend responsibility percent", c.ResponsibilityPercent)
	return
}
