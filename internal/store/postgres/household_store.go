package postgres

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type HouseholdStore struct {
	db DBPool
}

func NewHouseholdStore(db DBPool) *HouseholdStore {
	return &HouseholdStore{db: db}
}

// GetHousehold loads a household with its overspend settings and members.
func (s *HouseholdStore) GetHousehold(ctx context.Context, householdID string) (*types.Household, error) {
	log := logger.GetLogger()

	var (
		h          types.Household
		threshold  decimal.NullDecimal
		autoCreate decimal.NullDecimal
		weekCount  *int
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, name, credit_card_overspend_threshold, auto_create_overspend_project,
		       overspend_week_count, created_at, updated_at
		FROM households
		WHERE id = $1`, householdID).Scan(
		&h.ID, &h.Name, &threshold, &autoCreate, &weekCount, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Household", householdID)
		}
		log.Errorw("Failed to get household", "householdID", householdID)
		return nil, apperrors.NewDatabaseError(fmt.Errorf("failed to get household: %w", err))
	}

	if threshold.Valid {
		h.Settings.CreditCardOverspendThreshold = &threshold.Decimal
	}
	if autoCreate.Valid {
		h.Settings.AutoCreateOverspendProject = &autoCreate.Decimal
	}
	h.Settings.OverspendWeekCount = weekCount

	rows, err := s.db.Query(ctx, `
		SELECT user_id, name, COALESCE(email, ''), role, income_percentage
		FROM household_members
		WHERE household_id = $1
		ORDER BY created_at, user_id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query household members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m       types.HouseholdMember
			role    string
			percent decimal.NullDecimal
		)
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &role, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		m.Role = types.HouseholdRole(role)
		if percent.Valid {
			p := percent.Decimal
			m.IncomePercentage = &p
		}
		h.Members = append(h.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating household members: %w", err)
	}

	return &h, nil
}

// GetMemberRole returns the caller's role in the household.
func (s *HouseholdStore) GetMemberRole(ctx context.Context, householdID, userID string) (types.HouseholdRole, error) {
	log := logger.GetLogger()

	var role string
	err := s.db.QueryRow(ctx,
		`SELECT role FROM household_members WHERE household_id = $1 AND user_id = $2`,
		householdID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warnw("Membership not found for role lookup", "householdID", householdID, "userID", userID)
			return types.HouseholdRoleNone, notFound("Household membership", fmt.Sprintf("user %s in household %s", userID, householdID))
		}
		return types.HouseholdRoleNone, apperrors.NewDatabaseError(fmt.Errorf("failed to get member role: %w", err))
	}

	memberRole := types.HouseholdRole(role)
	if !memberRole.IsValid() {
		log.Errorw("Invalid role found in database", "role", role, "householdID", householdID, "userID", userID)
		return types.HouseholdRoleNone, fmt.Errorf("invalid role '%s' found in database for user %s, household %s", role, userID, householdID)
	}
	return memberRole, nil
}
