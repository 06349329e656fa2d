// Package memory provides in-process implementations of the store
// interfaces. It backs the replay CLI and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/types"
)

// Store holds households, statements, projects, tasks and notifications in
// maps guarded by a single mutex. Values are copied on the way in and out.
type Store struct {
	mu            sync.RWMutex
	households    map[string]types.Household
	statements    map[string]types.Statement
	projects      map[string]types.AccountabilityProject
	projectOrder  []string
	tasks         map[string]types.PaymentTask
	taskOrder     []string
	notifications []types.NotificationRecord
}

func New() *Store {
	return &Store{
		households: make(map[string]types.Household),
		statements: make(map[string]types.Statement),
		projects:   make(map[string]types.AccountabilityProject),
		tasks:      make(map[string]types.PaymentTask),
	}
}

var (
	_ store.HouseholdStore    = (*Store)(nil)
	_ store.StatementStore    = (*Store)(nil)
	_ store.OverspendStore    = (*Store)(nil)
	_ store.NotificationStore = (*Store)(nil)
)

func notFound(entity, id string) error {
	err := apperrors.NotFound(entity, id)
	err.Raw = store.ErrNotFound
	return err
}

func conflict(message, detail string) error {
	err := apperrors.NewConflictError(message, detail)
	err.Raw = store.ErrConflict
	return err
}

// PutHousehold seeds or replaces a household.
func (s *Store) PutHousehold(h types.Household) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.Members = append([]types.HouseholdMember(nil), h.Members...)
	s.households[h.ID] = h
}

func (s *Store) GetHousehold(_ context.Context, householdID string) (*types.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.households[householdID]
	if !ok {
		return nil, notFound("Household", householdID)
	}
	h.Members = append([]types.HouseholdMember(nil), h.Members...)
	return &h, nil
}

func (s *Store) GetMemberRole(_ context.Context, householdID, userID string) (types.HouseholdRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.households[householdID]
	if !ok {
		return types.HouseholdRoleNone, notFound("Household", householdID)
	}
	m, ok := h.Member(userID)
	if !ok {
		return types.HouseholdRoleNone, notFound("Household membership", fmt.Sprintf("user %s in household %s", userID, householdID))
	}
	return m.Role, nil
}

func (s *Store) CreateStatement(_ context.Context, st *types.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.statements[st.ID]; exists {
		return conflict("Statement already exists", st.ID)
	}
	cp := *st
	cp.Charges = append([]types.Charge(nil), st.Charges...)
	s.statements[st.ID] = cp
	return nil
}

func (s *Store) GetStatement(_ context.Context, householdID, statementID string) (*types.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statements[statementID]
	if !ok || st.HouseholdID != householdID {
		return nil, notFound("Statement", statementID)
	}
	return &st, nil
}

func (s *Store) MarkStatementProcessed(_ context.Context, statementID string, flaggedMembers []string, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statements[statementID]
	if !ok {
		return notFound("Statement", statementID)
	}
	st.Processed = true
	st.ProcessedAt = &processedAt
	st.FlaggedMembers = append([]string{}, flaggedMembers...)
	s.statements[statementID] = st
	return nil
}

func (s *Store) CreateProjectWithTasks(_ context.Context, p *types.AccountabilityProject, tasks []types.PaymentTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return conflict("Project already exists", p.ID)
	}
	for _, t := range tasks {
		if _, exists := s.tasks[t.ID]; exists {
			return conflict("Task already exists", t.ID)
		}
	}

	s.projects[p.ID] = copyProject(*p)
	s.projectOrder = append(s.projectOrder, p.ID)
	for _, t := range tasks {
		s.tasks[t.ID] = t
		s.taskOrder = append(s.taskOrder, t.ID)
	}
	return nil
}

func (s *Store) GetProject(_ context.Context, householdID, projectID string) (*types.AccountabilityProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok || p.HouseholdID != householdID {
		return nil, notFound("Project", projectID)
	}
	cp := copyProject(p)
	return &cp, nil
}

func (s *Store) ListProjects(_ context.Context, householdID string, filter store.ProjectFilter) ([]types.AccountabilityProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := []types.AccountabilityProject{}
	for _, id := range s.projectOrder {
		p := s.projects[id]
		if p.HouseholdID != householdID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.MemberID != "" && p.MemberID != filter.MemberID {
			continue
		}
		projects = append(projects, copyProject(p))
	}
	return projects, nil
}

func (s *Store) ApproveProject(_ context.Context, p *types.AccountabilityProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects[p.ID]
	if !ok || cur.HouseholdID != p.HouseholdID {
		return notFound("Project", p.ID)
	}
	if cur.Status != types.ProjectStatusPendingApproval {
		return conflict("Project is no longer pending approval", fmt.Sprintf("project %s", p.ID))
	}

	cur.Status = p.Status
	cur.ApprovedBy = append([]string{}, p.ApprovedBy...)
	cur.ApprovalDate = p.ApprovalDate
	cur.UpdatedAt = p.UpdatedAt
	s.projects[p.ID] = cur

	for id, t := range s.tasks {
		if t.ProjectID == p.ID && t.Status == types.TaskStatusPendingApproval {
			t.Status = types.TaskStatusActive
			t.UpdatedAt = p.UpdatedAt
			s.tasks[id] = t
		}
	}
	return nil
}

func (s *Store) UpdateProjectStatus(_ context.Context, p *types.AccountabilityProject, from types.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects[p.ID]
	if !ok || cur.HouseholdID != p.HouseholdID {
		return notFound("Project", p.ID)
	}
	if cur.Status != from {
		return conflict("Project status changed concurrently", fmt.Sprintf("project %s is no longer %s", p.ID, from))
	}

	cur.Status = p.Status
	cur.CompletedAt = p.CompletedAt
	cur.UpdatedAt = p.UpdatedAt
	s.projects[p.ID] = cur

	if p.Status == types.ProjectStatusCompleted {
		for id, t := range s.tasks {
			if t.ProjectID == p.ID {
				t.Status = types.TaskStatusCompleted
				t.CompletedAt = p.CompletedAt
				if p.CompletedAt != nil {
					t.UpdatedAt = *p.CompletedAt
				}
				s.tasks[id] = t
			}
		}
	}
	return nil
}

func (s *Store) AddPayment(_ context.Context, p *types.AccountabilityProject, pay types.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects[p.ID]
	if !ok || cur.HouseholdID != p.HouseholdID {
		return notFound("Project", p.ID)
	}
	if cur.Status == types.ProjectStatusCompleted {
		return conflict("Project is completed", fmt.Sprintf("cannot record payment on project %s", p.ID))
	}

	cur.Payments = append(cur.Payments, pay)
	cur.TotalCollected = cur.TotalCollected.Add(pay.Amount)
	cur.UpdatedAt = p.UpdatedAt
	s.projects[p.ID] = cur
	return nil
}

func (s *Store) GetTask(_ context.Context, householdID, taskID string) (*types.PaymentTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok || t.HouseholdID != householdID {
		return nil, notFound("Task", taskID)
	}
	return &t, nil
}

func (s *Store) ListTasks(_ context.Context, householdID string, filter store.TaskFilter) ([]types.PaymentTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []types.PaymentTask{}
	for _, id := range s.taskOrder {
		t := s.tasks[id]
		if t.HouseholdID != householdID {
			continue
		}
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return tasks[i].WeekNumber < tasks[j].WeekNumber
	})
	return tasks, nil
}

func (s *Store) UpdateTask(_ context.Context, t *types.PaymentTask, from types.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tasks[t.ID]
	if !ok || cur.HouseholdID != t.HouseholdID {
		return notFound("Task", t.ID)
	}
	if cur.Status != from {
		return conflict("Task status changed concurrently", fmt.Sprintf("task %s is no longer %s", t.ID, from))
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) CreateNotifications(_ context.Context, records []types.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, records...)
	return nil
}

// ListNotifications returns the newest records first.
func (s *Store) ListNotifications(_ context.Context, userID string, limit int) ([]types.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.NotificationRecord{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if s.notifications[i].UserID == userID {
			out = append(out, s.notifications[i])
		}
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return notFound("Notification", notificationID)
}

func copyProject(p types.AccountabilityProject) types.AccountabilityProject {
	p.ApprovedBy = append([]string{}, p.ApprovedBy...)
	p.Payments = append([]types.Payment{}, p.Payments...)
	return p
}
