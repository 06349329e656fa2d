package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/config"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/auth"
	"github.com/hearthledger/budget-backend/logger"
)

// AuthMiddleware validates the Bearer token and stores the caller's user id
// in both the gin context and the request context.
func AuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
			log.Debugw("No bearer token provided", "path", c.Request.URL.Path)
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization required"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(token, cfg.JwtSecretKey)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"request_path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserEmail, claims.Email)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), UserIDKey, claims.UserID))

		c.Next()
	}
}
