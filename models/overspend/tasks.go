package overspend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/types"
)

// GenerateTasks creates one high-priority task per installment week. Each task
// mirrors the project's initial gating status and is due weekNumber weeks
// after now.
func GenerateTasks(p *types.AccountabilityProject, now time.Time) []types.PaymentTask {
	status := types.TaskStatusActive
	if p.Status == types.ProjectStatusPendingApproval {
		status = types.TaskStatusPendingApproval
	}

	tasks := make([]types.PaymentTask, 0, p.WeekCount)
	for n := 1; n <= p.WeekCount; n++ {
		tasks = append(tasks, types.PaymentTask{
			ID:           uuid.NewString(),
			ProjectID:    p.ID,
			HouseholdID:  p.HouseholdID,
			AssignedTo:   p.MemberID,
			WeekNumber:   n,
			WeeklyAmount: p.WeeklyContribution,
			DueDate:      now.Add(time.Duration(n) * week),
			Status:       status,
			Priority:     types.TaskPriorityHigh,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return tasks
}

// CompleteTask marks an active or overdue task as paid. Tasks progress
// independently, so week ordering is not enforced.
func CompleteTask(t *types.PaymentTask, now time.Time) error {
	if t.Status != types.TaskStatusActive && t.Status != types.TaskStatusOverdue {
		return apperrors.InvalidStatusTransition(string(t.Status), string(types.TaskStatusCompleted))
	}
	t.Status = types.TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// DismissTask closes a task without payment.
func DismissTask(t *types.PaymentTask, dismissedBy string, now time.Time) error {
	if t.Status.IsTerminal() {
		return apperrors.InvalidStatusTransition(string(t.Status), string(types.TaskStatusDismissed))
	}
	if dismissedBy == "" {
		return apperrors.ValidationFailed("invalid dismissal", fmt.Sprintf("task %s dismissal requires a user", t.ID))
	}
	t.Status = types.TaskStatusDismissed
	t.DismissedBy = dismissedBy
	t.UpdatedAt = now
	return nil
}
