package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5"
)

type StatementStore struct {
	db DBPool
}

func NewStatementStore(db DBPool) *StatementStore {
	return &StatementStore{db: db}
}

func (s *StatementStore) CreateStatement(ctx context.Context, st *types.Statement) error {
	charges, err := json.Marshal(st.Charges)
	if err != nil {
		return fmt.Errorf("failed to encode statement charges: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO statements (id, household_id, card_id, statement_date, charges, submitted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		st.ID, st.HouseholdID, st.CardID, st.StatementDate, charges, st.SubmittedBy, st.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}
	return nil
}

func (s *StatementStore) GetStatement(ctx context.Context, householdID, statementID string) (*types.Statement, error) {
	var (
		st      types.Statement
		charges []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, household_id, card_id, statement_date, charges, processed, processed_at,
		       flagged_members, submitted_by, created_at
		FROM statements
		WHERE id = $1 AND household_id = $2`, statementID, householdID).Scan(
		&st.ID, &st.HouseholdID, &st.CardID, &st.StatementDate, &charges, &st.Processed, &st.ProcessedAt,
		&st.FlaggedMembers, &st.SubmittedBy, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Statement", statementID)
		}
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}

	if err := json.Unmarshal(charges, &st.Charges); err != nil {
		return nil, fmt.Errorf("failed to decode statement charges: %w", err)
	}
	return &st, nil
}

// MarkStatementProcessed stamps the statement as processed along with the
// members whose charges were flagged.
func (s *StatementStore) MarkStatementProcessed(ctx context.Context, statementID string, flaggedMembers []string, processedAt time.Time) error {
	if flaggedMembers == nil {
		flaggedMembers = []string{}
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE statements
		SET processed = TRUE, processed_at = $2, flagged_members = $3
		WHERE id = $1`, statementID, processedAt, flaggedMembers)
	if err != nil {
		return fmt.Errorf("failed to mark statement processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("Statement", statementID)
	}
	return nil
}
