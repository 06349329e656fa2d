package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/events"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/models/overspend"
	"github.com/hearthledger/budget-backend/types"
	"go.uber.org/zap"
)

const eventSourceProjects = "project_service"

// ProjectService handles the lifecycle of accountability projects and their
// payment tasks after creation.
type ProjectService struct {
	households store.HouseholdStore
	projects   store.OverspendStore
	publisher  types.EventPublisher
	now        func() time.Time
	log        *zap.SugaredLogger
}

// NewProjectService builds the project read and workflow service.
func NewProjectService(households store.HouseholdStore, projects store.OverspendStore, publisher types.EventPublisher) *ProjectService {
	return &ProjectService{
		households: households,
		projects:   projects,
		publisher:  publisher,
		now:        time.Now,
		log:        logger.GetLogger().Named("overspend"),
	}
}

// WithClock replaces the service's time source.
func (s *ProjectService) WithClock(now func() time.Time) *ProjectService {
	s.now = now
	return s
}

// callerRole resolves the user's role in the household. Non-members are
// denied access.
func (s *ProjectService) callerRole(ctx context.Context, householdID, userID string) (types.HouseholdRole, error) {
	role, err := s.households.GetMemberRole(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || apperrors.IsType(err, apperrors.NotFoundError) {
			return types.HouseholdRoleNone, apperrors.HouseholdAccessDenied(userID, householdID)
		}
		return types.HouseholdRoleNone, err
	}
	return role, nil
}

func (s *ProjectService) denied(err error, householdID, userID, action string) error {
	s.log.Infow("Overspend action denied",
		"householdID", householdID,
		"userID", userID,
		"action", action,
		"reason", err)
	return err
}

func (s *ProjectService) publish(ctx context.Context, eventType types.EventType, householdID, userID string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishEventWithContext(ctx, s.publisher, eventType, householdID, userID, payload, eventSourceProjects); err != nil {
		s.log.Warnw("Failed to publish overspend event", "type", eventType, "householdID", householdID, "error", err)
	}
}

func (s *ProjectService) projectTasks(ctx context.Context, householdID, projectID string) ([]types.PaymentTask, error) {
	return s.projects.ListTasks(ctx, householdID, store.TaskFilter{ProjectID: projectID})
}

// GetProject returns a project with its tasks.
func (s *ProjectService) GetProject(ctx context.Context, householdID, projectID string) (*types.ProjectWithTasks, error) {
	project, err := s.projects.GetProject(ctx, householdID, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.projectTasks(ctx, householdID, projectID)
	if err != nil {
		return nil, err
	}
	return &types.ProjectWithTasks{AccountabilityProject: *project, Tasks: tasks}, nil
}

// ListProjects returns the household's projects matching filter.
func (s *ProjectService) ListProjects(ctx context.Context, householdID string, filter store.ProjectFilter) ([]types.AccountabilityProject, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.ValidationFailed("invalid project status", string(filter.Status))
	}
	return s.projects.ListProjects(ctx, householdID, filter)
}

// ListTasks returns the household's payment tasks matching filter.
func (s *ProjectService) ListTasks(ctx context.Context, householdID string, filter store.TaskFilter) ([]types.PaymentTask, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.ValidationFailed("invalid task status", string(filter.Status))
	}
	return s.projects.ListTasks(ctx, householdID, filter)
}

// GetOverspendSummary aggregates every project in the household.
func (s *ProjectService) GetOverspendSummary(ctx context.Context, householdID string) (*types.OverspendSummary, error) {
	projects, err := s.projects.ListProjects(ctx, householdID, store.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	summary := overspend.Summarize(projects)
	return &summary, nil
}

// ApproveProject activates a pending project and its tasks.
func (s *ProjectService) ApproveProject(ctx context.Context, householdID, projectID, userID string) (*types.ProjectWithTasks, error) {
	role, err := s.callerRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	if err := overspend.AuthorizeApprove(role); err != nil {
		return nil, s.denied(err, householdID, userID, "approve")
	}

	detail, err := s.GetProject(ctx, householdID, projectID)
	if err != nil {
		return nil, err
	}
	project := &detail.AccountabilityProject

	if err := overspend.Approve(project, detail.Tasks, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.projects.ApproveProject(ctx, project); err != nil {
		return nil, err
	}

	s.log.Infow("Overspend project approved", "projectID", projectID, "approvedBy", userID)
	s.publish(ctx, types.EventTypeOverspendProjectApproved, householdID, userID,
		types.ProjectEventPayload{ProjectID: project.ID, MemberID: project.MemberID, Status: project.Status})
	return detail, nil
}

// UpdateProjectStatus applies a manual status change. Completing a project
// completes all of its tasks.
func (s *ProjectService) UpdateProjectStatus(ctx context.Context, householdID, projectID, userID string, status types.ProjectStatus) (*types.ProjectWithTasks, error) {
	role, err := s.callerRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	if err := overspend.AuthorizeStatusChange(role); err != nil {
		return nil, s.denied(err, householdID, userID, "update_status")
	}

	detail, err := s.GetProject(ctx, householdID, projectID)
	if err != nil {
		return nil, err
	}
	project := &detail.AccountabilityProject
	from := project.Status

	if err := overspend.SetStatus(project, detail.Tasks, status, s.now()); err != nil {
		return nil, err
	}
	if err := s.projects.UpdateProjectStatus(ctx, project, from); err != nil {
		return nil, err
	}

	s.log.Infow("Overspend project status updated", "projectID", projectID, "from", from, "to", status)
	s.publish(ctx, types.EventTypeOverspendStatusUpdated, householdID, userID,
		types.ProjectEventPayload{ProjectID: project.ID, MemberID: project.MemberID, Status: project.Status})
	return detail, nil
}

// RecordPayment appends a payment to the project's ledger. The project's
// status is left unchanged.
func (s *ProjectService) RecordPayment(ctx context.Context, householdID, projectID, userID string, req types.PaymentCreate) (*types.AccountabilityProject, error) {
	role, err := s.callerRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetProject(ctx, householdID, projectID)
	if err != nil {
		return nil, err
	}
	if err := overspend.AuthorizePayment(project, userID, role); err != nil {
		return nil, s.denied(err, householdID, userID, "record_payment")
	}

	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}
	payment, err := overspend.RecordPayment(project, req.Amount, req.Week, date, userID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.AddPayment(ctx, project, payment); err != nil {
		return nil, err
	}

	s.log.Infow("Overspend payment recorded",
		"projectID", projectID,
		"amount", payment.Amount.String(),
		"week", payment.Week,
		"totalCollected", project.TotalCollected.String())
	s.publish(ctx, types.EventTypeOverspendPaymentRecorded, householdID, userID,
		types.ProjectEventPayload{ProjectID: project.ID, MemberID: project.MemberID, Status: project.Status})
	return project, nil
}

// CompleteTask marks a task paid. Only the assignee may complete it.
func (s *ProjectService) CompleteTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error) {
	role, err := s.callerRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}

	task, err := s.projects.GetTask(ctx, householdID, taskID)
	if err != nil {
		return nil, err
	}
	if err := overspend.AuthorizeComplete(task, userID, role); err != nil {
		return nil, s.denied(err, householdID, userID, "complete_task")
	}

	from := task.Status
	if err := overspend.CompleteTask(task, s.now()); err != nil {
		return nil, err
	}
	if err := s.projects.UpdateTask(ctx, task, from); err != nil {
		return nil, err
	}

	s.publish(ctx, types.EventTypeOverspendTaskCompleted, householdID, userID,
		types.TaskEventPayload{TaskID: task.ID, ProjectID: task.ProjectID, Status: task.Status})
	return task, nil
}

// DismissTask closes a task without payment. Managers only.
func (s *ProjectService) DismissTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error) {
	role, err := s.callerRole(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	if err := overspend.AuthorizeDismiss(role); err != nil {
		return nil, s.denied(err, householdID, userID, "dismiss_task")
	}

	task, err := s.projects.GetTask(ctx, householdID, taskID)
	if err != nil {
		return nil, err
	}

	from := task.Status
	if err := overspend.DismissTask(task, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.projects.UpdateTask(ctx, task, from); err != nil {
		return nil, err
	}

	s.publish(ctx, types.EventTypeOverspendTaskDismissed, householdID, userID,
		types.TaskEventPayload{TaskID: task.ID, ProjectID: task.ProjectID, Status: task.Status})
	return task, nil
}
