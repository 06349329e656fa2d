package overspend

import (
	"fmt"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/types"
)

// AuthorizeApprove permits owners and co-owners.
func AuthorizeApprove(role types.HouseholdRole) error {
	if !types.CanPerform(role, types.ActionApprove, types.ResourceProject) {
		return apperrors.Forbidden("Only owners and co-owners can approve overspend projects",
			fmt.Sprintf("role %q cannot approve", role))
	}
	return nil
}

// AuthorizeDismiss permits owners, co-owners and managers.
func AuthorizeDismiss(role types.HouseholdRole) error {
	if !types.CanPerform(role, types.ActionDismiss, types.ResourceTask) {
		return apperrors.Forbidden("Only household managers can dismiss payment tasks",
			fmt.Sprintf("role %q cannot dismiss", role))
	}
	return nil
}

// AuthorizeComplete permits only the task's assignee, whatever their role.
func AuthorizeComplete(t *types.PaymentTask, userID string, role types.HouseholdRole) error {
	if !types.CanPerformAsSubject(role, types.ActionComplete, types.ResourceTask, t.AssignedTo == userID) {
		return apperrors.Forbidden("Only the assigned member can complete this task",
			fmt.Sprintf("task %s is assigned to another member", t.ID))
	}
	return nil
}

// AuthorizeStatusChange permits owners, co-owners and managers.
func AuthorizeStatusChange(role types.HouseholdRole) error {
	if !types.CanPerform(role, types.ActionUpdateStatus, types.ResourceProject) {
		return apperrors.Forbidden("Only household managers can change project status",
			fmt.Sprintf("role %q cannot change status", role))
	}
	return nil
}

// AuthorizePayment permits managers and the project's own member.
func AuthorizePayment(p *types.AccountabilityProject, userID string, role types.HouseholdRole) error {
	if !types.CanPerformAsSubject(role, types.ActionRecordPayment, types.ResourceProject, p.MemberID == userID) {
		return apperrors.Forbidden("Only household managers or the responsible member can record payments",
			fmt.Sprintf("role %q cannot record payments for project %s", role, p.ID))
	}
	return nil
}
