package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"go.uber.org/zap"
)

// ErrQueueFull is returned by Dispatch when the worker pool rejects the job.
var ErrQueueFull = errors.New("notification queue full")

// JobSubmitter accepts background jobs. *WorkerPool satisfies it.
type JobSubmitter interface {
	Submit(job Job) bool
}

// NotificationEmailer sends one notification to one address.
type NotificationEmailer interface {
	SendNotificationEmail(ctx context.Context, to string, n types.Notification) error
}

// NotificationDispatcher fans composed notifications out to per-recipient
// inbox records and, when enabled, email. Delivery happens on the worker
// pool; Dispatch only enqueues.
type NotificationDispatcher struct {
	notifications store.NotificationStore
	households    store.HouseholdStore
	emailer       NotificationEmailer
	pool          JobSubmitter
	cfg           config.NotificationConfig
	now           func() time.Time
	log           *zap.SugaredLogger
}

// NewNotificationDispatcher wires the dispatcher. emailer may be nil when
// the email channel is disabled.
func NewNotificationDispatcher(
	notifications store.NotificationStore,
	households store.HouseholdStore,
	emailer NotificationEmailer,
	pool JobSubmitter,
	cfg config.NotificationConfig,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifications: notifications,
		households:    households,
		emailer:       emailer,
		pool:          pool,
		cfg:           cfg,
		now:           time.Now,
		log:           logger.GetLogger().Named("notifications"),
	}
}

// Dispatch enqueues delivery of ns for the household.
func (d *NotificationDispatcher) Dispatch(_ context.Context, householdID string, ns []types.Notification) error {
	if !d.cfg.Enabled {
		d.log.Debugw("Notifications disabled, skipping dispatch", "householdID", householdID, "count", len(ns))
		return nil
	}
	if len(ns) == 0 {
		return nil
	}

	records := d.toRecords(householdID, ns)
	job := Job{
		Name: fmt.Sprintf("deliver-notifications:%s", ns[0].ProjectID),
		Execute: func(ctx context.Context) error {
			return d.deliver(ctx, householdID, ns, records)
		},
	}
	if !d.pool.Submit(job) {
		return ErrQueueFull
	}
	return nil
}

func (d *NotificationDispatcher) toRecords(householdID string, ns []types.Notification) []types.NotificationRecord {
	now := d.now()
	var records []types.NotificationRecord
	for _, n := range ns {
		for _, userID := range n.Recipients {
			records = append(records, types.NotificationRecord{
				ID:          uuid.NewString(),
				UserID:      userID,
				HouseholdID: householdID,
				Type:        n.Type,
				Title:       n.Title,
				Message:     n.Message,
				ProjectID:   n.ProjectID,
				Priority:    n.Priority,
				CreatedAt:   now,
			})
		}
	}
	return records
}

func (d *NotificationDispatcher) deliver(ctx context.Context, householdID string, ns []types.Notification, records []types.NotificationRecord) error {
	if err := d.notifications.CreateNotifications(ctx, records); err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}
	d.log.Infow("Notifications stored", "householdID", householdID, "records", len(records))

	if !d.cfg.EmailEnabled || d.emailer == nil {
		return nil
	}

	h, err := d.households.GetHousehold(ctx, householdID)
	if err != nil {
		return fmt.Errorf("failed to load household for email delivery: %w", err)
	}

	var failed int
	for _, n := range ns {
		for _, userID := range n.Recipients {
			m, ok := h.Member(userID)
			if !ok || m.Email == "" {
				d.log.Debugw("No email address for recipient", "userID", userID, "householdID", householdID)
				continue
			}
			if err := d.emailer.SendNotificationEmail(ctx, m.Email, n); err != nil {
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to email %d recipients", failed)
	}
	return nil
}
