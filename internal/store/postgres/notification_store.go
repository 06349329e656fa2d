package postgres

import (
	"context"
	"fmt"

	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5"
)

type NotificationStore struct {
	db DBPool
}

func NewNotificationStore(db DBPool) *NotificationStore {
	return &NotificationStore{db: db}
}

// CreateNotifications inserts all records in one transaction.
func (s *NotificationStore) CreateNotifications(ctx context.Context, records []types.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, r := range records {
			_, err := tx.Exec(ctx, `
				INSERT INTO notifications (id, user_id, household_id, type, title, message, project_id, priority, is_read, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				r.ID, r.UserID, r.HouseholdID, r.Type, r.Title, r.Message, r.ProjectID, r.Priority, r.IsRead, r.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert notification for user %s: %w", r.UserID, err)
			}
		}
		return nil
	})
}

func (s *NotificationStore) ListNotifications(ctx context.Context, userID string, limit int) ([]types.NotificationRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, household_id, type, title, message, COALESCE(project_id, ''), priority, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	records := []types.NotificationRecord{}
	for rows.Next() {
		var r types.NotificationRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.HouseholdID, &r.Type, &r.Title, &r.Message, &r.ProjectID, &r.Priority, &r.IsRead, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *NotificationStore) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("Notification", notificationID)
	}
	return nil
}
