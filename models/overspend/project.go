package overspend

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/pkg/valueobjects"
	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
)

const week = 7 * 24 * time.Hour

// NewProject builds the accountability project for a detection. The project
// auto-activates when the responsibility amount is strictly below
// autoCreateThreshold and waits for approval otherwise.
func NewProject(householdID, statementID string, d Detection, r Responsibility, autoCreateThreshold decimal.Decimal, now time.Time) *types.AccountabilityProject {
	status := types.ProjectStatusActive
	requiresApproval := false
	if !r.Amount.LessThan(autoCreateThreshold) {
		status = types.ProjectStatusPendingApproval
		requiresApproval = true
	}

	return &types.AccountabilityProject{
		ID:                    uuid.NewString(),
		HouseholdID:           householdID,
		StatementID:           statementID,
		MemberID:              d.MemberID,
		MemberName:            d.MemberName,
		OriginalChargeAmount:  d.TotalCharges,
		ResponsibilityPercent: r.Percent,
		ResponsibilityAmount:  r.Amount,
		WeeklyContribution:    r.WeeklyContribution,
		WeekCount:             r.WeekCount,
		Status:                status,
		RequiresApproval:      requiresApproval,
		ApprovedBy:            []string{},
		Payments:              []types.Payment{},
		TotalCollected:        decimal.Zero,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// IsAutoCreated reports whether the project skipped the approval step.
func IsAutoCreated(p *types.AccountabilityProject) bool {
	return !p.RequiresApproval
}

// Approve moves a pending project to active and activates every task still
// waiting on approval. Authorization is checked separately by AuthorizeApprove.
func Approve(p *types.AccountabilityProject, tasks []types.PaymentTask, approverID string, now time.Time) error {
	if p.Status != types.ProjectStatusPendingApproval {
		return apperrors.InvalidStatusTransition(string(p.Status), string(types.ProjectStatusActive))
	}

	if !slices.Contains(p.ApprovedBy, approverID) {
		p.ApprovedBy = append(p.ApprovedBy, approverID)
	}
	p.ApprovalDate = &now
	p.Status = types.ProjectStatusActive
	p.UpdatedAt = now

	for i := range tasks {
		if tasks[i].Status == types.TaskStatusPendingApproval {
			tasks[i].Status = types.TaskStatusActive
			tasks[i].UpdatedAt = now
		}
	}
	return nil
}

// RecordPayment appends a ledger entry and adds to TotalCollected. It never
// changes the project status, even when the ledger covers the full amount.
// A zero week is derived from the payment date relative to project creation.
func RecordPayment(p *types.AccountabilityProject, amount decimal.Decimal, week int, date time.Time, recordedBy string) (types.Payment, error) {
	if p.Status == types.ProjectStatusCompleted {
		return types.Payment{}, apperrors.NewConflictError("Project is completed", fmt.Sprintf("cannot record payment on completed project %s", p.ID))
	}
	if _, err := valueobjects.NewPayment(amount); err != nil {
		return types.Payment{}, err
	}
	if week < 0 || week > p.WeekCount {
		return types.Payment{}, apperrors.ValidationFailed("invalid payment week", fmt.Sprintf("week must be between 1 and %d", p.WeekCount))
	}
	if week == 0 {
		week = weekFor(p, date)
	}

	payment := types.Payment{
		ID:         uuid.NewString(),
		Amount:     amount,
		Date:       date,
		Week:       week,
		RecordedBy: recordedBy,
	}
	p.Payments = append(p.Payments, payment)
	p.TotalCollected = p.TotalCollected.Add(amount)
	p.UpdatedAt = date
	return payment, nil
}

func weekFor(p *types.AccountabilityProject, date time.Time) int {
	w := int(date.Sub(p.CreatedAt)/week) + 1
	if w < 1 {
		return 1
	}
	if w > p.WeekCount {
		return p.WeekCount
	}
	return w
}

// SetStatus applies a manual lifecycle transition: active and on_hold toggle,
// and any non-completed project may be completed. Completion stamps
// CompletedAt and forces every task to completed. Pending projects only
// become active through Approve.
func SetStatus(p *types.AccountabilityProject, tasks []types.PaymentTask, newStatus types.ProjectStatus, now time.Time) error {
	if !newStatus.IsValid() {
		return apperrors.ValidationFailed("invalid project status", fmt.Sprintf("unknown status %q", newStatus))
	}
	if !canTransition(p.Status, newStatus) {
		return apperrors.InvalidStatusTransition(string(p.Status), string(newStatus))
	}

	p.Status = newStatus
	p.UpdatedAt = now

	if newStatus == types.ProjectStatusCompleted {
		p.CompletedAt = &now
		for i := range tasks {
			tasks[i].Status = types.TaskStatusCompleted
			tasks[i].CompletedAt = &now
			tasks[i].UpdatedAt = now
		}
	}
	return nil
}

func canTransition(from, to types.ProjectStatus) bool {
	switch from {
	case types.ProjectStatusCompleted:
		return false
	case types.ProjectStatusActive:
		return to == types.ProjectStatusOnHold || to == types.ProjectStatusCompleted
	case types.ProjectStatusOnHold:
		return to == types.ProjectStatusActive || to == types.ProjectStatusCompleted
	case types.ProjectStatusPendingApproval:
		return to == types.ProjectStatusCompleted
	}
	return false
}
