package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/internal/store/memory"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/middleware"
	"github.com/hearthledger/budget-backend/models/overspend/service"
	"github.com/hearthledger/budget-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

const (
	testHouseholdID = "hh-1"
	testUserID      = "u-owner"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockProjectService struct {
	mock.Mock
}

func (m *mockProjectService) GetProject(ctx context.Context, householdID, projectID string) (*types.ProjectWithTasks, error) {
	args := m.Called(ctx, householdID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProjectWithTasks), args.Error(1)
}

func (m *mockProjectService) ListProjects(ctx context.Context, householdID string, filter store.ProjectFilter) ([]types.AccountabilityProject, error) {
	args := m.Called(ctx, householdID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.AccountabilityProject), args.Error(1)
}

func (m *mockProjectService) ListTasks(ctx context.Context, householdID string, filter store.TaskFilter) ([]types.PaymentTask, error) {
	args := m.Called(ctx, householdID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PaymentTask), args.Error(1)
}

func (m *mockProjectService) GetOverspendSummary(ctx context.Context, householdID string) (*types.OverspendSummary, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.OverspendSummary), args.Error(1)
}

func (m *mockProjectService) ApproveProject(ctx context.Context, householdID, projectID, userID string) (*types.ProjectWithTasks, error) {
	args := m.Called(ctx, householdID, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProjectWithTasks), args.Error(1)
}

func (m *mockProjectService) UpdateProjectStatus(ctx context.Context, householdID, projectID, userID string, status types.ProjectStatus) (*types.ProjectWithTasks, error) {
	args := m.Called(ctx, householdID, projectID, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProjectWithTasks), args.Error(1)
}

func (m *mockProjectService) RecordPayment(ctx context.Context, householdID, projectID, userID string, req types.PaymentCreate) (*types.AccountabilityProject, error) {
	args := m.Called(ctx, householdID, projectID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AccountabilityProject), args.Error(1)
}

func (m *mockProjectService) CompleteTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error) {
	args := m.Called(ctx, householdID, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PaymentTask), args.Error(1)
}

func (m *mockProjectService) DismissTask(ctx context.Context, householdID, taskID, userID string) (*types.PaymentTask, error) {
	args := m.Called(ctx, householdID, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PaymentTask), args.Error(1)
}

type mockStatementService struct {
	mock.Mock
}

func (m *mockStatementService) SubmitStatement(ctx context.Context, householdID, userID string, req types.StatementSubmission) (*service.StatementOutcome, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatementOutcome), args.Error(1)
}

func (m *mockStatementService) GetStatement(ctx context.Context, householdID, statementID string) (*types.Statement, error) {
	args := m.Called(ctx, householdID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Statement), args.Error(1)
}

type stubHealth struct {
	status types.HealthStatus
}

func (s stubHealth) CheckHealth(context.Context) types.HealthCheck {
	return types.HealthCheck{Status: s.status}
}

var (
	_ ProjectServiceInterface   = (*mockProjectService)(nil)
	_ StatementServiceInterface = (*mockStatementService)(nil)
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func buildRouter(method, path string, handler gin.HandlerFunc, userID string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
		}
		c.Next()
	})
	r.Handle(method, path, handler)
	return r
}

func perform(r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Type
}

func sampleProject(status types.ProjectStatus) *types.ProjectWithTasks {
	return &types.ProjectWithTasks{
		AccountabilityProject: types.AccountabilityProject{
			ID:                   "proj-1",
			HouseholdID:          testHouseholdID,
			MemberID:             "u-maria",
			MemberName:           "Maria",
			OriginalChargeAmount: decimal.NewFromInt(2000),
			ResponsibilityAmount: decimal.NewFromInt(1000),
			WeeklyContribution:   decimal.NewFromInt(250),
			WeekCount:            4,
			Status:               status,
		},
	}
}

// ---------------------------------------------------------------------------
// Overspend
// ---------------------------------------------------------------------------

func TestOverspendHandler_GetSummary(t *testing.T) {
	svc := new(mockProjectService)
	h := NewOverspendHandler(svc)

	svc.On("GetOverspendSummary", mock.Anything, testHouseholdID).Return(&types.OverspendSummary{
		TotalProjects:       2,
		ActiveProjects:      1,
		PendingApproval:     1,
		TotalResponsibility: decimal.NewFromInt(1400),
		TotalCollected:      decimal.NewFromInt(100),
	}, nil)

	r := buildRouter(http.MethodGet, "/households/:id/overspend/summary", h.GetSummaryHandler, testUserID)
	w := perform(r, http.MethodGet, "/households/hh-1/overspend/summary", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var summary types.OverspendSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalProjects)
	assert.True(t, summary.TotalResponsibility.Equal(decimal.NewFromInt(1400)))
	svc.AssertExpectations(t)
}

func TestOverspendHandler_ListProjects(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		filter         store.ProjectFilter
		err            error
		expectedStatus int
	}{
		{
			name:           "no filter",
			filter:         store.ProjectFilter{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "status and member",
			query:          "?status=active&memberId=u-maria",
			filter:         store.ProjectFilter{Status: types.ProjectStatusActive, MemberID: "u-maria"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "service rejects filter",
			query:          "?status=bogus",
			filter:         store.ProjectFilter{Status: "bogus"},
			err:            apperrors.ValidationFailed("invalid status filter", "bogus"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockProjectService)
			h := NewOverspendHandler(svc)
			if tc.err != nil {
				svc.On("ListProjects", mock.Anything, testHouseholdID, tc.filter).Return(nil, tc.err)
			} else {
				svc.On("ListProjects", mock.Anything, testHouseholdID, tc.filter).
					Return([]types.AccountabilityProject{sampleProject(types.ProjectStatusActive).AccountabilityProject}, nil)
			}

			r := buildRouter(http.MethodGet, "/households/:id/overspend/projects", h.ListProjectsHandler, testUserID)
			w := perform(r, http.MethodGet, "/households/hh-1/overspend/projects"+tc.query, nil)

			assert.Equal(t, tc.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOverspendHandler_GetProjectNotFound(t *testing.T) {
	svc := new(mockProjectService)
	h := NewOverspendHandler(svc)
	svc.On("GetProject", mock.Anything, testHouseholdID, "missing").Return(nil, apperrors.NotFound("Project", "missing"))

	r := buildRouter(http.MethodGet, "/households/:id/overspend/projects/:projectId", h.GetProjectHandler, testUserID)
	w := perform(r, http.MethodGet, "/households/hh-1/overspend/projects/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.NotFoundError), errorType(t, w))
}

func TestOverspendHandler_Approve(t *testing.T) {
	testCases := []struct {
		name           string
		userID         string
		setup          func(*mockProjectService)
		expectedStatus int
	}{
		{
			name:   "approved",
			userID: testUserID,
			setup: func(m *mockProjectService) {
				m.On("ApproveProject", mock.Anything, testHouseholdID, "proj-1", testUserID).
					Return(sampleProject(types.ProjectStatusActive), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "caller is not an approver",
			userID: "u-maria",
			setup: func(m *mockProjectService) {
				m.On("ApproveProject", mock.Anything, testHouseholdID, "proj-1", "u-maria").
					Return(nil, apperrors.Forbidden("Only owners and co-owners can approve", "role member"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "already active",
			userID: testUserID,
			setup: func(m *mockProjectService) {
				m.On("ApproveProject", mock.Anything, testHouseholdID, "proj-1", testUserID).
					Return(nil, apperrors.InvalidStatusTransition("active", "active"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unauthenticated",
			setup:          func(m *mockProjectService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockProjectService)
			tc.setup(svc)
			h := NewOverspendHandler(svc)

			r := buildRouter(http.MethodPost, "/households/:id/overspend/projects/:projectId/approve", h.ApproveProjectHandler, tc.userID)
			w := perform(r, http.MethodPost, "/households/hh-1/overspend/projects/proj-1/approve", nil)

			assert.Equal(t, tc.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOverspendHandler_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name           string
		body           interface{}
		callService    bool
		expectedStatus int
	}{
		{
			name:           "put on hold",
			body:           types.ProjectStatusUpdate{Status: types.ProjectStatusOnHold},
			callService:    true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			body:           types.ProjectStatusUpdate{Status: "archived"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing status",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"status":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockProjectService)
			if tc.callService {
				svc.On("UpdateProjectStatus", mock.Anything, testHouseholdID, "proj-1", testUserID, types.ProjectStatusOnHold).
					Return(sampleProject(types.ProjectStatusOnHold), nil)
			}
			h := NewOverspendHandler(svc)

			r := buildRouter(http.MethodPatch, "/households/:id/overspend/projects/:projectId/status", h.UpdateProjectStatusHandler, testUserID)
			w := perform(r, http.MethodPatch, "/households/hh-1/overspend/projects/proj-1/status", tc.body)

			assert.Equal(t, tc.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestOverspendHandler_RecordPayment(t *testing.T) {
	svc := new(mockProjectService)
	h := NewOverspendHandler(svc)

	svc.On("RecordPayment", mock.Anything, testHouseholdID, "proj-1", "u-maria", mock.MatchedBy(func(req types.PaymentCreate) bool {
		return req.Amount.Equal(decimal.NewFromInt(250)) && req.Week == 1
	})).Return(&sampleProject(types.ProjectStatusActive).AccountabilityProject, nil)

	r := buildRouter(http.MethodPost, "/households/:id/overspend/projects/:projectId/payments", h.RecordPaymentHandler, "u-maria")
	w := perform(r, http.MethodPost, "/households/hh-1/overspend/projects/proj-1/payments", `{"amount":"250","week":1}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestOverspendHandler_ListTasks(t *testing.T) {
	svc := new(mockProjectService)
	h := NewOverspendHandler(svc)

	expected := store.TaskFilter{ProjectID: "proj-1", AssignedTo: "u-maria", Status: types.TaskStatusActive}
	svc.On("ListTasks", mock.Anything, testHouseholdID, expected).Return([]types.PaymentTask{
		{ID: "task-1", ProjectID: "proj-1", AssignedTo: "u-maria", WeekNumber: 1, DueDate: time.Now()},
	}, nil)

	r := buildRouter(http.MethodGet, "/households/:id/overspend/tasks", h.ListTasksHandler, "u-maria")
	w := perform(r, http.MethodGet, "/households/hh-1/overspend/tasks?assignedTo=me&status=active&projectId=proj-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var tasks []types.PaymentTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].ID)
	svc.AssertExpectations(t)
}

func TestOverspendHandler_TaskActions(t *testing.T) {
	task := &types.PaymentTask{ID: "task-1", Status: types.TaskStatusCompleted}

	t.Run("complete", func(t *testing.T) {
		svc := new(mockProjectService)
		svc.On("CompleteTask", mock.Anything, testHouseholdID, "task-1", "u-maria").Return(task, nil)
		h := NewOverspendHandler(svc)

		r := buildRouter(http.MethodPost, "/households/:id/overspend/tasks/:taskId/complete", h.CompleteTaskHandler, "u-maria")
		w := perform(r, http.MethodPost, "/households/hh-1/overspend/tasks/task-1/complete", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("complete by someone else", func(t *testing.T) {
		svc := new(mockProjectService)
		svc.On("CompleteTask", mock.Anything, testHouseholdID, "task-1", "u-avis").
			Return(nil, apperrors.Forbidden("Only the assignee can complete this task", "assigned to u-maria"))
		h := NewOverspendHandler(svc)

		r := buildRouter(http.MethodPost, "/households/:id/overspend/tasks/:taskId/complete", h.CompleteTaskHandler, "u-avis")
		w := perform(r, http.MethodPost, "/households/hh-1/overspend/tasks/task-1/complete", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, string(apperrors.ForbiddenError), errorType(t, w))
	})

	t.Run("dismiss", func(t *testing.T) {
		svc := new(mockProjectService)
		svc.On("DismissTask", mock.Anything, testHouseholdID, "task-1", "u-manager").
			Return(&types.PaymentTask{ID: "task-1", Status: types.TaskStatusDismissed, DismissedBy: "u-manager"}, nil)
		h := NewOverspendHandler(svc)

		r := buildRouter(http.MethodPost, "/households/:id/overspend/tasks/:taskId/dismiss", h.DismissTaskHandler, "u-manager")
		w := perform(r, http.MethodPost, "/households/hh-1/overspend/tasks/task-1/dismiss", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got types.PaymentTask
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, types.TaskStatusDismissed, got.Status)
		svc.AssertExpectations(t)
	})
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func TestStatementHandler_Submit(t *testing.T) {
	statementDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		body           interface{}
		setup          func(*mockStatementService)
		expectedStatus int
	}{
		{
			name: "processed",
			body: map[string]interface{}{
				"cardId":        "card-1",
				"statementDate": statementDate,
				"charges": []map[string]interface{}{
					{"memberId": "u-maria", "amount": "2000", "date": statementDate},
				},
			},
			setup: func(m *mockStatementService) {
				m.On("SubmitStatement", mock.Anything, testHouseholdID, testUserID, mock.MatchedBy(func(req types.StatementSubmission) bool {
					return req.CardID == "card-1" && len(req.Charges) == 1 && req.Charges[0].Amount.Equal(decimal.NewFromInt(2000))
				})).Return(&service.StatementOutcome{
					Statement: &types.Statement{ID: "st-1", Processed: true, FlaggedMembers: []string{"u-maria"}},
					Result:    &service.ProcessResult{},
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing card",
			body:           map[string]interface{}{"statementDate": statementDate},
			setup:          func(m *mockStatementService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "household missing",
			body: map[string]interface{}{"cardId": "card-1", "statementDate": statementDate},
			setup: func(m *mockStatementService) {
				m.On("SubmitStatement", mock.Anything, testHouseholdID, testUserID, mock.Anything).
					Return(nil, apperrors.NotFound("Household", testHouseholdID))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockStatementService)
			tc.setup(svc)
			h := NewStatementHandler(svc)

			r := buildRouter(http.MethodPost, "/households/:id/statements", h.SubmitStatementHandler, testUserID)
			w := perform(r, http.MethodPost, "/households/hh-1/statements", tc.body)

			assert.Equal(t, tc.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestStatementHandler_Get(t *testing.T) {
	svc := new(mockStatementService)
	svc.On("GetStatement", mock.Anything, testHouseholdID, "st-1").Return(&types.Statement{ID: "st-1", CardID: "card-1"}, nil)
	h := NewStatementHandler(svc)

	r := buildRouter(http.MethodGet, "/households/:id/statements/:statementId", h.GetStatementHandler, testUserID)
	w := perform(r, http.MethodGet, "/households/hh-1/statements/st-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got types.Statement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "card-1", got.CardID)
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

func TestNotificationHandler(t *testing.T) {
	st := memory.New()
	records := make([]types.NotificationRecord, 0, 3)
	for _, id := range []string{"n-1", "n-2", "n-3"} {
		records = append(records, types.NotificationRecord{
			ID:     id,
			UserID: "u-maria",
			Type:   types.NotificationOverspendAssigned,
			Title:  "Overspend plan pending approval",
		})
	}
	records = append(records, types.NotificationRecord{ID: "n-other", UserID: "u-avis"})
	require.NoError(t, st.CreateNotifications(context.Background(), records))

	h := NewNotificationHandler(st)

	t.Run("newest first with limit", func(t *testing.T) {
		r := buildRouter(http.MethodGet, "/notifications", h.ListNotificationsHandler, "u-maria")
		w := perform(r, http.MethodGet, "/notifications?limit=2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []types.NotificationRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "n-3", got[0].ID)
		assert.Equal(t, "n-2", got[1].ID)
	})

	t.Run("invalid limit falls back to default", func(t *testing.T) {
		r := buildRouter(http.MethodGet, "/notifications", h.ListNotificationsHandler, "u-maria")
		w := perform(r, http.MethodGet, "/notifications?limit=abc", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []types.NotificationRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 3)
	})

	t.Run("mark read", func(t *testing.T) {
		r := buildRouter(http.MethodPatch, "/notifications/:notificationId/read", h.MarkNotificationReadHandler, "u-maria")
		w := perform(r, http.MethodPatch, "/notifications/n-1/read", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		list, err := st.ListNotifications(context.Background(), "u-maria", 0)
		require.NoError(t, err)
		assert.True(t, list[2].IsRead)
	})

	t.Run("mark read of another user's notification", func(t *testing.T) {
		r := buildRouter(http.MethodPatch, "/notifications/:notificationId/read", h.MarkNotificationReadHandler, "u-maria")
		w := perform(r, http.MethodPatch, "/notifications/n-other/read", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := buildRouter(http.MethodGet, "/notifications", h.ListNotificationsHandler, "")
		w := perform(r, http.MethodGet, "/notifications", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealthHandler(t *testing.T) {
	testCases := []struct {
		name              string
		status            types.HealthStatus
		expectedReadiness int
	}{
		{name: "up", status: types.HealthStatusUp, expectedReadiness: http.StatusOK},
		{name: "degraded", status: types.HealthStatusDegraded, expectedReadiness: http.StatusOK},
		{name: "down", status: types.HealthStatusDown, expectedReadiness: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(stubHealth{status: tc.status})
			r := gin.New()
			r.GET("/health", h.DetailedHealth)
			r.GET("/health/liveness", h.LivenessCheck)
			r.GET("/health/readiness", h.ReadinessCheck)

			assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health/liveness", nil).Code)
			assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", nil).Code)
			assert.Equal(t, tc.expectedReadiness, perform(r, http.MethodGet, "/health/readiness", nil).Code)
		})
	}
}
