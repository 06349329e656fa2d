package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/handlers"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config              *config.Config
	Households          middleware.MembershipChecker
	HealthHandler       *handlers.HealthHandler
	OverspendHandler    *handlers.OverspendHandler
	StatementHandler    *handlers.StatementHandler
	NotificationHandler *handlers.NotificationHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		logger.GetLogger().Warnw("Invalid trusted proxies, forwarded headers will be ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes (no auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(&deps.Config.Server))
	{
		notificationRoutes := v1.Group("/notifications")
		{
			notificationRoutes.GET("", deps.NotificationHandler.ListNotificationsHandler)
			notificationRoutes.PATCH("/:notificationId/read", deps.NotificationHandler.MarkNotificationReadHandler)
		}

		householdRoutes := v1.Group("/households/:id")
		householdRoutes.Use(middleware.RequireHouseholdMember(deps.Households))
		{
			householdRoutes.POST("/statements", deps.StatementHandler.SubmitStatementHandler)
			householdRoutes.GET("/statements/:statementId", deps.StatementHandler.GetStatementHandler)

			overspendRoutes := householdRoutes.Group("/overspend")
			{
				overspendRoutes.GET("/summary", deps.OverspendHandler.GetSummaryHandler)
				overspendRoutes.GET("/projects", deps.OverspendHandler.ListProjectsHandler)
				overspendRoutes.GET("/projects/:projectId", deps.OverspendHandler.GetProjectHandler)
				overspendRoutes.POST("/projects/:projectId/approve", deps.OverspendHandler.ApproveProjectHandler)
				overspendRoutes.PATCH("/projects/:projectId/status", deps.OverspendHandler.UpdateProjectStatusHandler)
				overspendRoutes.POST("/projects/:projectId/payments", deps.OverspendHandler.RecordPaymentHandler)

				overspendRoutes.GET("/tasks", deps.OverspendHandler.ListTasksHandler)
				overspendRoutes.POST("/tasks/:taskId/complete", deps.OverspendHandler.CompleteTaskHandler)
				overspendRoutes.POST("/tasks/:taskId/dismiss", deps.OverspendHandler.DismissTaskHandler)
			}
		}
	}

	return r
}
