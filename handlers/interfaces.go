package handlers

import (
	"context"

	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/models/overspend/service"
	"github.com/hearthledger/budget-backend/types"
)

// ProjectServiceInterface defines the overspend project operations needed by
// OverspendHandler.
type ProjectServiceInterface interface {
	GetProject(ctx context.Context, householdID, projectID string) (*types.ProjectWithTasks, error)
	ListProjects(ctx context.Context, householdID string, filter store.ProjectFilter) ([]types.AccountabilityProject, error)
	ListTasks(ctx context.Context, householdID string, filter store.TaskFilter) ([]types.PaymentTask, error)
	GetOverspendSummary(ctx context.Context, householdID string) (*types.OverspendSummary, error)
	ApproveProject(ctx context.Context, householdID, projectID, userID string) (*types.ProjectWithTasks, error)
	UpdateProjectStatus(ctx context.Context, householdID, projectID, userID string, status types.ProjectStatus) (*types.ProjectWithTasks, error)
	RecordPayment(ctx context.Context, householdID, projectID, userID string, req types.PaymentCreate) (*types.AccountabilityProject, error)
	CompleteTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error)
	DismissTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error)
}

// StatementServiceInterface defines the statement operations needed by
// StatementHandler.
type StatementServiceInterface interface {
	SubmitStatement(ctx context.Context, householdID, userID string, req types.StatementSubmission) (*service.StatementOutcome, error)
	GetStatement(ctx context.Context, householdID, statementID string) (*types.Statement, error)
}

var (
	_ ProjectServiceInterface   = (*service.ProjectService)(nil)
	_ StatementServiceInterface = (*service.StatementService)(nil)
)
