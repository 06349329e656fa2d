package overspend

import (
	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
)

// Summarize aggregates a household's projects, totalled overall and per member.
func Summarize(projects []types.AccountabilityProject) types.OverspendSummary {
	summary := types.OverspendSummary{
		TotalResponsibility: decimal.Zero,
		TotalCollected:      decimal.Zero,
		ByMember:            make(map[string]*types.MemberOverspendSummary),
	}

	for _, p := range projects {
		summary.TotalProjects++
		switch p.Status {
		case types.ProjectStatusActive:
			summary.ActiveProjects++
		case types.ProjectStatusPendingApproval:
			summary.PendingApproval++
		}
		summary.TotalResponsibility = summary.TotalResponsibility.Add(p.ResponsibilityAmount)
		summary.TotalCollected = summary.TotalCollected.Add(p.TotalCollected)

		m, ok := summary.ByMember[p.MemberID]
		if !ok {
			m = &types.MemberOverspendSummary{
				MemberID:            p.MemberID,
				MemberName:          p.MemberName,
				TotalResponsibility: decimal.Zero,
				TotalCollected:      decimal.Zero,
			}
			summary.ByMember[p.MemberID] = m
		}
		m.ProjectCount++
		m.TotalResponsibility = m.TotalResponsibility.Add(p.ResponsibilityAmount)
		m.TotalCollected = m.TotalCollected.Add(p.TotalCollected)
	}

	return summary
}
