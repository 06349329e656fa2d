package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
)

// MembershipChecker resolves a user's role within a household.
type MembershipChecker interface {
	GetMemberRole(ctx context.Context, householdID, userID string) (types.HouseholdRole, error)
}

// RequireHouseholdMember rejects callers who are not members of the household
// named by the :id path parameter, and stores the caller's role in the
// context for handlers. Must run after AuthMiddleware.
func RequireHouseholdMember(households MembershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		householdID := c.Param("id")
		userID := GetUserID(c)

		if userID == "" {
			_ = c.Error(apperrors.Unauthorized("missing_user", "Authorization required"))
			c.Abort()
			return
		}
		if householdID == "" {
			_ = c.Error(apperrors.ValidationFailed("Household ID is required", "missing :id path parameter"))
			c.Abort()
			return
		}

		role, err := households.GetMemberRole(c.Request.Context(), householdID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || apperrors.IsType(err, apperrors.NotFoundError) {
				_ = c.Error(apperrors.HouseholdAccessDenied(userID, householdID))
			} else {
				logger.GetLogger().Errorw("Failed to resolve household role",
					"householdID", householdID,
					"userID", userID,
					"error", err)
				_ = c.Error(err)
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUserRole, role)
		c.Next()
	}
}

// GetUserRole returns the role stored by RequireHouseholdMember.
func GetUserRole(c *gin.Context) types.HouseholdRole {
	if v, ok := c.Get(ContextKeyUserRole); ok {
		if role, ok := v.(types.HouseholdRole); ok {
			return role
		}
	}
	return types.HouseholdRoleNone
}
