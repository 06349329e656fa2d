package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationHandler serves the caller's persisted overspend notifications.
type NotificationHandler struct {
	notifications store.NotificationStore
}

func NewNotificationHandler(notifications store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotificationsHandler godoc
// @Summary List the caller's notifications
// @Description Newest first.
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum number of notifications (default 20, max 100)"
// @Success 200 {array} types.NotificationRecord
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /notifications [get]
// @Security BearerAuth
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := parseLimit(c, defaultNotificationLimit, maxNotificationLimit)

	records, err := h.notifications.ListNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		logger.GetLogger().Errorw("Failed to list notifications", "userID", userID, "error", err)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// MarkNotificationReadHandler godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param notificationId path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "Notification not found"
// @Router /notifications/{notificationId}/read [patch]
// @Security BearerAuth
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkNotificationRead(c.Request.Context(), userID, c.Param("notificationId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
