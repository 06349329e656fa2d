package types

import "time"

type NotificationType string

const (
	NotificationOverspendAutoCreated      NotificationType = "overspend_auto_created"
	NotificationOverspendApprovalRequired NotificationType = "overspend_approval_required"
	NotificationOverspendAssigned         NotificationType = "overspend_assigned"
)

type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is composed once per triggering event and addressed to a set
// of recipients.
type Notification struct {
	Type       NotificationType     `json:"type"`
	Recipients []string             `json:"recipients"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	ProjectID  string               `json:"projectId"`
	Priority   NotificationPriority `json:"priority"`
}

// NotificationRecord is the persisted, per-recipient copy of a Notification.
type NotificationRecord struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	HouseholdID string               `json:"householdId"`
	Type        NotificationType     `json:"type"`
	Title       string               `json:"title"`
	Message     string               `json:"message"`
	ProjectID   string               `json:"projectId"`
	Priority    NotificationPriority `json:"priority"`
	IsRead      bool                 `json:"isRead"`
	CreatedAt   time.Time            `json:"createdAt"`
}
