package store

import (
	"context"
	"time"

	"github.com/hearthledger/budget-backend/types"
)

// HouseholdStore reads household configuration and membership. Household and
// member CRUD are owned elsewhere.
type HouseholdStore interface {
	GetHousehold(ctx context.Context, householdID string) (*types.Household, error)
	GetMemberRole(ctx context.Context, householdID, userID string) (types.HouseholdRole, error)
}

// StatementStore persists submitted statements.
type StatementStore interface {
	CreateStatement(ctx context.Context, statement *types.Statement) error
	GetStatement(ctx context.Context, householdID, statementID string) (*types.Statement, error)
	MarkStatementProcessed(ctx context.Context, statementID string, flaggedMembers []string, processedAt time.Time) error
}

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	Status   types.ProjectStatus
	MemberID string
}

// TaskFilter narrows ListTasks. Zero values match everything.
type TaskFilter struct {
	ProjectID  string
	AssignedTo string
	Status     types.TaskStatus
}

// OverspendStore persists accountability projects, their payment ledgers and
// payment tasks. Every lookup is scoped to a household; a record belonging to
// another household is reported as not found.
type OverspendStore interface {
	// CreateProjectWithTasks inserts the project and all of its tasks atomically.
	CreateProjectWithTasks(ctx context.Context, project *types.AccountabilityProject, tasks []types.PaymentTask) error
	GetProject(ctx context.Context, householdID, projectID string) (*types.AccountabilityProject, error)
	ListProjects(ctx context.Context, householdID string, filter ProjectFilter) ([]types.AccountabilityProject, error)
	// ApproveProject persists an approved project and activates its pending
	// tasks. It fails with a conflict when the project is no longer pending.
	ApproveProject(ctx context.Context, project *types.AccountabilityProject) error
	// UpdateProjectStatus persists a manual transition from the given status,
	// completing every task when the new status is completed.
	UpdateProjectStatus(ctx context.Context, project *types.AccountabilityProject, from types.ProjectStatus) error
	AddPayment(ctx context.Context, project *types.AccountabilityProject, payment types.Payment) error

	GetTask(ctx context.Context, householdID, taskID string) (*types.PaymentTask, error)
	ListTasks(ctx context.Context, householdID string, filter TaskFilter) ([]types.PaymentTask, error)
	// UpdateTask persists a task transition from the given status.
	UpdateTask(ctx context.Context, task *types.PaymentTask, from types.TaskStatus) error
}

// NotificationStore persists per-recipient notification copies.
type NotificationStore interface {
	CreateNotifications(ctx context.Context, records []types.NotificationRecord) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]types.NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}
