package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/events"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"go.uber.org/zap"
)

const eventSourceStatements = "statement_service"

// StatementOutcome is the response to a statement submission.
type StatementOutcome struct {
	Statement *types.Statement `json:"statement"`
	Result    *ProcessResult   `json:"result"`
}

// StatementService records submitted statements and runs them through the
// overspend processor.
type StatementService struct {
	statements store.StatementStore
	processor  ChargeProcessor
	publisher  types.EventPublisher
	now        func() time.Time
	log        *zap.SugaredLogger
}

func NewStatementService(statements store.StatementStore, processor ChargeProcessor, publisher types.EventPublisher) *StatementService {
	return &StatementService{
		statements: statements,
		processor:  processor,
		publisher:  publisher,
		now:        time.Now,
		log:        logger.GetLogger().Named("statements"),
	}
}

// WithClock replaces the service's time source.
func (s *StatementService) WithClock(now func() time.Time) *StatementService {
	s.now = now
	return s
}

func validateSubmission(req types.StatementSubmission) error {
	if req.CardID == "" {
		return apperrors.ValidationFailed("invalid statement", "cardId is required")
	}
	if req.StatementDate.IsZero() {
		return apperrors.ValidationFailed("invalid statement", "statementDate is required")
	}
	return nil
}

// SubmitStatement persists the statement, processes its charges and marks it
// processed with the flagged members. Per-member failures are reported in the
// result and do not fail the submission.
func (s *StatementService) SubmitStatement(ctx context.Context, householdID, userID string, req types.StatementSubmission) (*StatementOutcome, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	charges := req.Charges
	if charges == nil {
		charges = []types.Charge{}
	}
	statement := &types.Statement{
		ID:            uuid.NewString(),
		HouseholdID:   householdID,
		CardID:        req.CardID,
		StatementDate: req.StatementDate,
		Charges:       charges,
		SubmittedBy:   userID,
		CreatedAt:     s.now(),
	}
	if err := s.statements.CreateStatement(ctx, statement); err != nil {
		return nil, err
	}

	result, err := s.processor.ProcessStatementCharges(ctx, householdID, statement.Charges, statement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to process statement %s: %w", statement.ID, err)
	}

	flagged := result.FlaggedMembers()
	processedAt := s.now()
	if err := s.statements.MarkStatementProcessed(ctx, statement.ID, flagged, processedAt); err != nil {
		return nil, err
	}
	statement.Processed = true
	statement.ProcessedAt = &processedAt
	statement.FlaggedMembers = flagged

	s.log.Infow("Statement processed",
		"householdID", householdID,
		"statementID", statement.ID,
		"charges", len(statement.Charges),
		"flagged", len(flagged),
		"errors", len(result.Errors))

	if s.publisher != nil {
		payload := types.StatementProcessedPayload{StatementID: statement.ID, FlaggedMembers: flagged, ErrorCount: len(result.Errors)}
		if err := events.PublishEventWithContext(ctx, s.publisher, types.EventTypeStatementProcessed, householdID, userID, payload, eventSourceStatements); err != nil {
			s.log.Warnw("Failed to publish statement processed event", "statementID", statement.ID, "error", err)
		}
	}

	return &StatementOutcome{Statement: statement, Result: result}, nil
}

// GetStatement returns a previously submitted statement.
func (s *StatementService) GetStatement(ctx context.Context, householdID, statementID string) (*types.Statement, error) {
	return s.statements.GetStatement(ctx, householdID, statementID)
}
