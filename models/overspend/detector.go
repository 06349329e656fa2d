package overspend

import (
	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
)

// Detection is the result of a member's charges exceeding the threshold.
type Detection struct {
	MemberID     string          `json:"memberId"`
	MemberName   string          `json:"memberName"`
	TotalCharges decimal.Decimal `json:"totalCharges"`
	Threshold    decimal.Decimal `json:"threshold"`
}

// Detect sums a member's charges and returns a Detection when the total is
// strictly greater than threshold, or nil otherwise. Credits and refunds
// carry negative amounts and reduce the total.
func Detect(member types.HouseholdMember, charges []types.Charge, threshold decimal.Decimal) *Detection {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}

	if !total.GreaterThan(threshold) {
		return nil
	}

	return &Detection{
		MemberID:     member.UserID,
		MemberName:   member.Name,
		TotalCharges: total,
		Threshold:    threshold,
	}
}
