package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// HouseholdRole is a member's role within a household. Roles are ranked:
// owner > co-owner > manager > member.
type HouseholdRole string

const (
	HouseholdRoleNone    HouseholdRole = "none"
	HouseholdRoleOwner   HouseholdRole = "owner"
	HouseholdRoleCoOwner HouseholdRole = "co-owner"
	HouseholdRoleManager HouseholdRole = "manager"
	HouseholdRoleMember  HouseholdRole = "member"
)

func (r HouseholdRole) rank() int {
	switch r {
	case HouseholdRoleOwner:
		return 4
	case HouseholdRoleCoOwner:
		return 3
	case HouseholdRoleManager:
		return 2
	case HouseholdRoleMember:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether r is one of the known household roles.
func (r HouseholdRole) IsValid() bool {
	return r.rank() > 0
}

// IsAuthorizedFor reports whether r ranks at least as high as required.
func (r HouseholdRole) IsAuthorizedFor(required HouseholdRole) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

// IsManager reports whether r is one of the roles that receive manager
// notifications (owner, co-owner, manager).
func (r HouseholdRole) IsManager() bool {
	return r.IsAuthorizedFor(HouseholdRoleManager)
}

type HouseholdMember struct {
	UserID string        `json:"userId"`
	Name   string        `json:"name"`
	Email  string        `json:"email,omitempty"`
	Role   HouseholdRole `json:"role"`
	// IncomePercentage is the member's share of household income (0-100).
	// Nil means no split is configured for this member.
	IncomePercentage *decimal.Decimal `json:"incomePercentage,omitempty"`
}

// HouseholdSettings holds the per-household overspend overrides. Nil fields
// fall back to service defaults.
type HouseholdSettings struct {
	CreditCardOverspendThreshold *decimal.Decimal `json:"creditCardOverspendThreshold,omitempty"`
	AutoCreateOverspendProject   *decimal.Decimal `json:"autoCreateOverspendProject,omitempty"`
	OverspendWeekCount           *int             `json:"overspendWeekCount,omitempty"`
}

type Household struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Settings  HouseholdSettings `json:"settings"`
	Members   []HouseholdMember `json:"members"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Member looks up a member by user id.
func (h *Household) Member(userID string) (HouseholdMember, bool) {
	for _, m := range h.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return HouseholdMember{}, false
}

// ManagerIDs returns the user ids of all owner, co-owner and manager members
// in membership order.
func (h *Household) ManagerIDs() []string {
	var ids []string
	for _, m := range h.Members {
		if m.Role.IsManager() {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}
