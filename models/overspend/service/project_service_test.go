package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHouseholdStore struct {
	mock.Mock
}

func (m *mockHouseholdStore) GetHousehold(ctx context.Context, householdID string) (*types.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Household), args.Error(1)
}

func (m *mockHouseholdStore) GetMemberRole(ctx context.Context, householdID, userID string) (types.HouseholdRole, error) {
	args := m.Called(ctx, householdID, userID)
	return args.Get(0).(types.HouseholdRole), args.Error(1)
}

// seedProject runs a statement through the processor and returns the created project.
func seedProject(t *testing.T, f *fixture, memberID, amount string) types.AccountabilityProject {
	t.Helper()
	result, err := f.processor.ProcessStatementCharges(context.Background(), "hh-1",
		[]types.Charge{charge(memberID, amount)}, "stmt-seed")
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	f.publisher.Reset()
	return result.Projects[0]
}

func newProjectService(f *fixture) *ProjectService {
	return NewProjectService(f.store, f.store, f.publisher).WithClock(func() time.Time { return testNow.Add(time.Hour) })
}

func TestProjectService_ApproveProject(t *testing.T) {
	f := newFixture(t)
	p := seedProject(t, f, "u-maria", "2000")
	svc := newProjectService(f)

	t.Run("member cannot approve", func(t *testing.T) {
		_, err := svc.ApproveProject(context.Background(), "hh-1", p.ID, "u-maria")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ForbiddenError))
	})

	t.Run("manager cannot approve", func(t *testing.T) {
		_, err := svc.ApproveProject(context.Background(), "hh-1", p.ID, "u-manager")
		assert.True(t, apperrors.IsType(err, apperrors.ForbiddenError))
	})

	t.Run("outsider is denied household access", func(t *testing.T) {
		_, err := svc.ApproveProject(context.Background(), "hh-1", p.ID, "u-stranger")
		assert.True(t, apperrors.IsType(err, apperrors.HouseholdAccessError))
	})

	t.Run("co-owner approves", func(t *testing.T) {
		detail, err := svc.ApproveProject(context.Background(), "hh-1", p.ID, "u-coowner")
		require.NoError(t, err)
		assert.Equal(t, types.ProjectStatusActive, detail.Status)
		assert.Equal(t, []string{"u-coowner"}, detail.ApprovedBy)
		require.NotNil(t, detail.ApprovalDate)
		require.Len(t, detail.Tasks, 4)
		for _, task := range detail.Tasks {
			assert.Equal(t, types.TaskStatusActive, task.Status)
		}

		stored, err := svc.GetProject(context.Background(), "hh-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, types.ProjectStatusActive, stored.Status)
		for _, task := range stored.Tasks {
			assert.Equal(t, types.TaskStatusActive, task.Status)
		}

		published := f.publisher.Events("hh-1")
		require.Len(t, published, 1)
		assert.Equal(t, types.EventTypeOverspendProjectApproved, published[0].Type)
	})

	t.Run("second approval is an invalid transition", func(t *testing.T) {
		_, err := svc.ApproveProject(context.Background(), "hh-1", p.ID, "u-owner")
		assert.True(t, apperrors.IsType(err, apperrors.InvalidStatusTransitionError))
	})

	t.Run("project in another household is not found", func(t *testing.T) {
		other := testHousehold()
		other.ID = "hh-2"
		f.store.PutHousehold(other)
		_, err := svc.ApproveProject(context.Background(), "hh-2", p.ID, "u-owner")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestProjectService_UpdateProjectStatus(t *testing.T) {
	f := newFixture(t)
	p := seedProject(t, f, "u-avis", "800")
	svc := newProjectService(f)
	ctx := context.Background()

	_, err := svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-avis", types.ProjectStatusOnHold)
	assert.True(t, apperrors.IsType(err, apperrors.ForbiddenError), "members cannot change status")

	detail, err := svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-manager", types.ProjectStatusOnHold)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectStatusOnHold, detail.Status)

	_, err = svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-manager", types.ProjectStatusPendingApproval)
	assert.True(t, apperrors.IsType(err, apperrors.InvalidStatusTransitionError))

	_, err = svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-manager", types.ProjectStatus("archived"))
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))

	tasks, err := svc.ListTasks(ctx, "hh-1", store.TaskFilter{ProjectID: p.ID})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, "hh-1", tasks[0].ID, "u-avis")
	require.NoError(t, err)
	_, err = svc.DismissTask(ctx, "hh-1", tasks[1].ID, "u-owner")
	require.NoError(t, err)

	detail, err = svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-owner", types.ProjectStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectStatusCompleted, detail.Status)
	require.NotNil(t, detail.CompletedAt)

	stored, err := svc.GetProject(ctx, "hh-1", p.ID)
	require.NoError(t, err)
	for _, task := range stored.Tasks {
		assert.Equal(t, types.TaskStatusCompleted, task.Status, "completion forces every task to completed")
		assert.NotNil(t, task.CompletedAt)
	}

	_, err = svc.UpdateProjectStatus(ctx, "hh-1", p.ID, "u-owner", types.ProjectStatusActive)
	assert.True(t, apperrors.IsType(err, apperrors.InvalidStatusTransitionError), "completed is terminal")
}

func TestProjectService_RecordPayment(t *testing.T) {
	f := newFixture(t)
	p := seedProject(t, f, "u-avis", "800")
	svc := newProjectService(f)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		req     types.PaymentCreate
		errType apperrors.ErrorType
	}{
		{name: "member pays own project", userID: "u-avis", req: types.PaymentCreate{Amount: d("100"), Week: 1}},
		{name: "manager records payment", userID: "u-manager", req: types.PaymentCreate{Amount: d("300")}},
		{name: "other member is forbidden", userID: "u-maria", req: types.PaymentCreate{Amount: d("50")}, errType: apperrors.ForbiddenError},
		{name: "zero amount", userID: "u-avis", req: types.PaymentCreate{Amount: d("0")}, errType: apperrors.ValidationError},
		{name: "week out of range", userID: "u-avis", req: types.PaymentCreate{Amount: d("10"), Week: 9}, errType: apperrors.ValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, "hh-1", p.ID, tt.userID, tt.req)
			if tt.errType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}

	stored, err := svc.GetProject(ctx, "hh-1", p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 2)
	assert.True(t, d("400").Equal(stored.TotalCollected))
	assert.Equal(t, types.ProjectStatusActive, stored.Status, "a fully paid ledger does not complete the project")
	assert.Equal(t, 1, stored.Payments[1].Week, "week is derived from the payment date")
}

func TestProjectService_Tasks(t *testing.T) {
	f := newFixture(t)
	pending := seedProject(t, f, "u-maria", "2000")
	active := seedProject(t, f, "u-avis", "800")
	svc := newProjectService(f)
	ctx := context.Background()

	avisTasks, err := svc.ListTasks(ctx, "hh-1", store.TaskFilter{AssignedTo: "u-avis"})
	require.NoError(t, err)
	require.Len(t, avisTasks, 4)

	mariaTasks, err := svc.ListTasks(ctx, "hh-1", store.TaskFilter{ProjectID: pending.ID})
	require.NoError(t, err)
	require.Len(t, mariaTasks, 4)

	_, err = svc.ListTasks(ctx, "hh-1", store.TaskFilter{Status: types.TaskStatus("late")})
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))

	t.Run("only the assignee completes", func(t *testing.T) {
		_, err := svc.CompleteTask(ctx, "hh-1", avisTasks[2].ID, "u-owner")
		assert.True(t, apperrors.IsType(err, apperrors.ForbiddenError))

		task, err := svc.CompleteTask(ctx, "hh-1", avisTasks[2].ID, "u-avis")
		require.NoError(t, err)
		assert.Equal(t, types.TaskStatusCompleted, task.Status)
		assert.Equal(t, active.ID, task.ProjectID)
	})

	t.Run("pending tasks cannot be completed", func(t *testing.T) {
		_, err := svc.CompleteTask(ctx, "hh-1", mariaTasks[0].ID, "u-maria")
		assert.True(t, apperrors.IsType(err, apperrors.InvalidStatusTransitionError))
	})

	t.Run("members cannot dismiss", func(t *testing.T) {
		_, err := svc.DismissTask(ctx, "hh-1", avisTasks[0].ID, "u-avis")
		assert.True(t, apperrors.IsType(err, apperrors.ForbiddenError))
	})

	t.Run("manager dismisses a pending task", func(t *testing.T) {
		task, err := svc.DismissTask(ctx, "hh-1", mariaTasks[1].ID, "u-manager")
		require.NoError(t, err)
		assert.Equal(t, types.TaskStatusDismissed, task.Status)
		assert.Equal(t, "u-manager", task.DismissedBy)
	})

	t.Run("dismissed is terminal", func(t *testing.T) {
		_, err := svc.DismissTask(ctx, "hh-1", mariaTasks[1].ID, "u-owner")
		assert.True(t, apperrors.IsType(err, apperrors.InvalidStatusTransitionError))
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := svc.CompleteTask(ctx, "hh-1", "task-missing", "u-avis")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	published := f.publisher.Events("hh-1")
	require.Len(t, published, 2)
	assert.Equal(t, types.EventTypeOverspendTaskCompleted, published[0].Type)
	assert.Equal(t, types.EventTypeOverspendTaskDismissed, published[1].Type)
}

func TestProjectService_GetOverspendSummary(t *testing.T) {
	f := newFixture(t)
	seedProject(t, f, "u-maria", "2000")
	avis := seedProject(t, f, "u-avis", "800")
	seedProject(t, f, "u-avis", "600")
	svc := newProjectService(f)
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, "hh-1", avis.ID, "u-avis", types.PaymentCreate{Amount: d("100"), Week: 1})
	require.NoError(t, err)

	summary, err := svc.GetOverspendSummary(ctx, "hh-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalProjects)
	assert.Equal(t, 2, summary.ActiveProjects)
	assert.Equal(t, 1, summary.PendingApproval)
	assert.True(t, d("1700").Equal(summary.TotalResponsibility))
	assert.True(t, d("100").Equal(summary.TotalCollected))
	require.Contains(t, summary.ByMember, "u-avis")
	assert.Equal(t, 2, summary.ByMember["u-avis"].ProjectCount)
	assert.True(t, d("700").Equal(summary.ByMember["u-avis"].TotalResponsibility))

	projects, err := svc.ListProjects(ctx, "hh-1", store.ProjectFilter{Status: types.ProjectStatusPendingApproval})
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	_, err = svc.ListProjects(ctx, "hh-1", store.ProjectFilter{Status: types.ProjectStatus("archived")})
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestProjectService_RoleLookupFailure(t *testing.T) {
	f := newFixture(t)
	households := &mockHouseholdStore{}
	households.On("GetMemberRole", mock.Anything, "hh-1", "u-owner").
		Return(types.HouseholdRoleNone, apperrors.NewDatabaseError(assert.AnError))

	svc := NewProjectService(households, f.store, f.publisher)
	_, err := svc.ApproveProject(context.Background(), "hh-1", "proj-1", "u-owner")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.DatabaseError))
	households.AssertExpectations(t)
}
