package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, household_id, statement_id, member_id, member_name, original_charge_amount,
	responsibility_percent, responsibility_amount, weekly_contribution, week_count, status,
	requires_approval, approved_by, approval_date, total_collected, completed_at, created_at, updated_at`

const taskColumns = `id, project_id, household_id, assigned_to, week_number, weekly_amount, due_date,
	status, priority, completed_at, COALESCE(dismissed_by, ''), created_at, updated_at`

type OverspendStore struct {
	db DBPool
}

func NewOverspendStore(db DBPool) *OverspendStore {
	return &OverspendStore{db: db}
}

func (s *OverspendStore) CreateProjectWithTasks(ctx context.Context, p *types.AccountabilityProject, tasks []types.PaymentTask) error {
	log := logger.GetLogger()

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO accountability_projects (`+projectColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			p.ID, p.HouseholdID, p.StatementID, p.MemberID, p.MemberName, p.OriginalChargeAmount,
			p.ResponsibilityPercent, p.ResponsibilityAmount, p.WeeklyContribution, p.WeekCount, p.Status,
			p.RequiresApproval, nonNil(p.ApprovedBy), p.ApprovalDate, p.TotalCollected, p.CompletedAt, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}

		for _, t := range tasks {
			_, err := tx.Exec(ctx, `
				INSERT INTO payment_tasks (id, project_id, household_id, assigned_to, week_number, weekly_amount,
					due_date, status, priority, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				t.ID, t.ProjectID, t.HouseholdID, t.AssignedTo, t.WeekNumber, t.WeeklyAmount,
				t.DueDate, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert task for week %d: %w", t.WeekNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorw("Failed to create accountability project", "projectID", p.ID, "householdID", p.HouseholdID, "error", err)
		return err
	}

	log.Infow("Created accountability project", "projectID", p.ID, "memberID", p.MemberID, "status", p.Status, "tasks", len(tasks))
	return nil
}

func (s *OverspendStore) GetProject(ctx context.Context, householdID, projectID string) (*types.AccountabilityProject, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM accountability_projects WHERE id = $1 AND household_id = $2`,
		projectID, householdID)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Project", projectID)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	payments, err := s.listPayments(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Payments = nonNilPayments(payments[p.ID])
	return p, nil
}

func (s *OverspendStore) ListProjects(ctx context.Context, householdID string, filter store.ProjectFilter) ([]types.AccountabilityProject, error) {
	query := `SELECT ` + projectColumns + ` FROM accountability_projects WHERE household_id = $1`
	args := []any{householdID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		query += fmt.Sprintf(" AND member_id = $%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []types.AccountabilityProject
	var ids []string
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	if len(ids) == 0 {
		return []types.AccountabilityProject{}, nil
	}

	payments, err := s.listPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Payments = nonNilPayments(payments[projects[i].ID])
	}
	return projects, nil
}

func (s *OverspendStore) listPayments(ctx context.Context, projectIDs []string) (map[string][]types.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT project_id, id, amount, paid_at, week, COALESCE(recorded_by, '')
		FROM overspend_payments
		WHERE project_id = ANY($1)
		ORDER BY paid_at, created_at`, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	byProject := make(map[string][]types.Payment)
	for rows.Next() {
		var projectID string
		var pay types.Payment
		if err := rows.Scan(&projectID, &pay.ID, &pay.Amount, &pay.Date, &pay.Week, &pay.RecordedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		byProject[projectID] = append(byProject[projectID], pay)
	}
	return byProject, rows.Err()
}

func (s *OverspendStore) ApproveProject(ctx context.Context, p *types.AccountabilityProject) error {
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE accountability_projects
			SET status = $3, approved_by = $4, approval_date = $5, updated_at = $6
			WHERE id = $1 AND household_id = $2 AND status = 'pending_approval'`,
			p.ID, p.HouseholdID, p.Status, nonNil(p.ApprovedBy), p.ApprovalDate, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to approve project: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return conflict("Project is no longer pending approval", fmt.Sprintf("project %s", p.ID))
		}

		_, err = tx.Exec(ctx, `
			UPDATE payment_tasks
			SET status = 'active', updated_at = $2
			WHERE project_id = $1 AND status = 'pending_approval'`,
			p.ID, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to activate tasks: %w", err)
		}
		return nil
	})
}

func (s *OverspendStore) UpdateProjectStatus(ctx context.Context, p *types.AccountabilityProject, from types.ProjectStatus) error {
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE accountability_projects
			SET status = $4, completed_at = $5, updated_at = $6
			WHERE id = $1 AND household_id = $2 AND status = $3`,
			p.ID, p.HouseholdID, from, p.Status, p.CompletedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update project status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return conflict("Project status changed concurrently", fmt.Sprintf("project %s is no longer %s", p.ID, from))
		}

		if p.Status == types.ProjectStatusCompleted {
			_, err = tx.Exec(ctx, `
				UPDATE payment_tasks
				SET status = 'completed', completed_at = $2, updated_at = $2
				WHERE project_id = $1`,
				p.ID, p.CompletedAt)
			if err != nil {
				return fmt.Errorf("failed to complete project tasks: %w", err)
			}
		}
		return nil
	})
}

// AddPayment inserts the ledger entry and bumps total_collected in the
// database rather than writing the in-memory total, so concurrent payments
// both count.
func (s *OverspendStore) AddPayment(ctx context.Context, p *types.AccountabilityProject, pay types.Payment) error {
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE accountability_projects
			SET total_collected = total_collected + $3, updated_at = $4
			WHERE id = $1 AND household_id = $2 AND status <> 'completed'`,
			p.ID, p.HouseholdID, pay.Amount, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update total collected: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return conflict("Project is completed", fmt.Sprintf("cannot record payment on project %s", p.ID))
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO overspend_payments (id, project_id, amount, paid_at, week, recorded_by)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			pay.ID, p.ID, pay.Amount, pay.Date, pay.Week, pay.RecordedBy)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
		return nil
	})
}

func (s *OverspendStore) GetTask(ctx context.Context, householdID, taskID string) (*types.PaymentTask, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM payment_tasks WHERE id = $1 AND household_id = $2`,
		taskID, householdID)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Task", taskID)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *OverspendStore) ListTasks(ctx context.Context, householdID string, filter store.TaskFilter) ([]types.PaymentTask, error) {
	var conds []string
	args := []any{householdID}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		conds = append(conds, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM payment_tasks WHERE household_id = $1`
	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_date, week_number"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []types.PaymentTask{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *OverspendStore) UpdateTask(ctx context.Context, t *types.PaymentTask, from types.TaskStatus) error {
	var dismissedBy *string
	if t.DismissedBy != "" {
		dismissedBy = &t.DismissedBy
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE payment_tasks
		SET status = $4, completed_at = $5, dismissed_by = $6, updated_at = $7
		WHERE id = $1 AND household_id = $2 AND status = $3`,
		t.ID, t.HouseholdID, from, t.Status, t.CompletedAt, dismissedBy, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return conflict("Task status changed concurrently", fmt.Sprintf("task %s is no longer %s", t.ID, from))
	}
	return nil
}

func scanProject(row pgx.Row) (*types.AccountabilityProject, error) {
	var p types.AccountabilityProject
	err := row.Scan(
		&p.ID, &p.HouseholdID, &p.StatementID, &p.MemberID, &p.MemberName, &p.OriginalChargeAmount,
		&p.ResponsibilityPercent, &p.ResponsibilityAmount, &p.WeeklyContribution, &p.WeekCount, &p.Status,
		&p.RequiresApproval, &p.ApprovedBy, &p.ApprovalDate, &p.TotalCollected, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ApprovedBy = nonNil(p.ApprovedBy)
	return &p, nil
}

func scanTask(row pgx.Row) (*types.PaymentTask, error) {
	var t types.PaymentTask
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.HouseholdID, &t.AssignedTo, &t.WeekNumber, &t.WeeklyAmount, &t.DueDate,
		&t.Status, &t.Priority, &t.CompletedAt, &t.DismissedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilPayments(p []types.Payment) []types.Payment {
	if p == nil {
		return []types.Payment{}
	}
	return p
}
