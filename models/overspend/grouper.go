package overspend

import "github.com/hearthledger/budget-backend/types"

// MemberCharges is one member's charges in statement order.
type MemberCharges struct {
	MemberID string
	Charges  []types.Charge
}

// GroupCharges partitions charges by member. Groups appear in order of the
// member's first charge; charges without a member id are dropped.
func GroupCharges(charges []types.Charge) []MemberCharges {
	index := make(map[string]int)
	var groups []MemberCharges

	for _, c := range charges {
		if c.MemberID == "" {
			continue
		}
		i, ok := index[c.MemberID]
		if !ok {
			i = len(groups)
			index[c.MemberID] = i
			groups = append(groups, MemberCharges{MemberID: c.MemberID})
		}
		groups[i].Charges = append(groups[i].Charges, c)
	}

	return groups
}
