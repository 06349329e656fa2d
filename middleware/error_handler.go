package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/logger"
)

type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"` // HTTP status code as string
}

// ErrorHandler renders the last error attached to the context. AppErrors keep
// their type and status; bind errors become validation errors; anything else
// is a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		if appError, ok := errors.As(err); ok {
			statusCode := appError.HTTPStatus
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}

			switch appError.Type {
			case errors.ForbiddenError, errors.HouseholdAccessError:
				logger.GetLogger().Infow("Request denied",
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"user_id", GetUserID(c),
					"request_id", c.GetString(RequestIDKey),
					"reason", appError.Detail)
			default:
				logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))
			}

			response := ErrorResponse{
				Type:    string(appError.Type),
				Message: appError.Message,
				Code:    strconv.Itoa(statusCode),
			}

			// Details are safe to show for client errors, and for everything in debug mode
			if appError.Detail != "" && (gin.IsDebugging() || statusCode < http.StatusInternalServerError) {
				response.Details = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Type:    string(errors.ValidationError),
				Message: "Failed to bind request",
				Details: err.Error(),
				Code:    strconv.Itoa(http.StatusBadRequest),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")

		serverErr := errors.InternalServerError("Internal Server Error")
		response := ErrorResponse{
			Type:    string(serverErr.Type),
			Message: serverErr.Message,
			Code:    strconv.Itoa(serverErr.HTTPStatus),
		}
		if gin.IsDebugging() {
			response.Details = err.Error()
		}
		c.JSON(serverErr.HTTPStatus, response)
	}
}
