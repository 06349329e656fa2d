package overspend

import (
	"fmt"

	"github.com/hearthledger/budget-backend/pkg/valueobjects"
	"github.com/hearthledger/budget-backend/types"
)

// Compose produces the two notifications for a newly created project: one to
// the household managers and one to the responsible member.
func Compose(p *types.AccountabilityProject, managerIDs []string) []types.Notification {
	weekly := valueobjects.FormatUSD(p.WeeklyContribution)
	total := valueobjects.FormatUSD(p.ResponsibilityAmount)
	charges := valueobjects.FormatUSD(p.OriginalChargeAmount)

	managers := append([]string{}, managerIDs...)

	if IsAutoCreated(p) {
		return []types.Notification{
			{
				Type:       types.NotificationOverspendAutoCreated,
				Recipients: managers,
				Title:      "Overspend plan created",
				Message: fmt.Sprintf("%s charged %s this statement. A %d-week plan of %s per week (%s total) is now active.",
					p.MemberName, charges, p.WeekCount, weekly, total),
				ProjectID: p.ID,
				Priority:  types.NotificationPriorityNormal,
			},
			{
				Type:       types.NotificationOverspendAssigned,
				Recipients: []string{p.MemberID},
				Title:      "Your overspend repayment plan",
				Message: fmt.Sprintf("Your charges of %s exceeded the household limit. Please contribute %s per week for %d weeks (%s total).",
					charges, weekly, p.WeekCount, total),
				ProjectID: p.ID,
				Priority:  types.NotificationPriorityNormal,
			},
		}
	}

	return []types.Notification{
		{
			Type:       types.NotificationOverspendApprovalRequired,
			Recipients: managers,
			Title:      "Overspend plan needs approval",
			Message: fmt.Sprintf("%s charged %s this statement. A repayment of %s over %d weeks is waiting for your approval.",
				p.MemberName, charges, total, p.WeekCount),
			ProjectID: p.ID,
			Priority:  types.NotificationPriorityHigh,
		},
		{
			Type:       types.NotificationOverspendAssigned,
			Recipients: []string{p.MemberID},
			Title:      "Overspend plan pending approval",
			Message: fmt.Sprintf("Your charges of %s exceeded the household limit. A plan of %s per week for %d weeks is pending manager approval.",
				charges, weekly, p.WeekCount),
			ProjectID: p.ID,
			Priority:  types.NotificationPriorityHigh,
		},
	}
}
