package service

import (
	"context"

	"github.com/hearthledger/budget-backend/types"
)

// NotificationDispatcher hands composed notifications off for persistence and
// delivery. Implementations must not block on delivery.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, householdID string, notifications []types.Notification) error
}

// ChargeProcessor runs the overspend workflow for one statement's charges.
type ChargeProcessor interface {
	ProcessStatementCharges(ctx context.Context, householdID string, charges []types.Charge, statementID string) (*ProcessResult, error)
}
