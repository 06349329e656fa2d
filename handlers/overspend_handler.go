package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/middleware"
	"github.com/hearthledger/budget-backend/types"
)

// OverspendHandler serves accountability projects, their payment tasks and
// the household overspend summary. Household membership is enforced by the
// router before these handlers run.
type OverspendHandler struct {
	projects ProjectServiceInterface
}

func NewOverspendHandler(projects ProjectServiceInterface) *OverspendHandler {
	return &OverspendHandler{projects: projects}
}

// GetSummaryHandler godoc
// @Summary Household overspend summary
// @Description Aggregates all of the household's accountability projects, in total and per member.
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Success 200 {object} types.OverspendSummary
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 403 {object} middleware.ErrorResponse "Not a household member"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /households/{id}/overspend/summary [get]
// @Security BearerAuth
func (h *OverspendHandler) GetSummaryHandler(c *gin.Context) {
	summary, err := h.projects.GetOverspendSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListProjectsHandler godoc
// @Summary List accountability projects
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param status query string false "Filter by status" Enums(pending_approval, active, on_hold, completed)
// @Param memberId query string false "Filter by responsible member"
// @Success 200 {array} types.AccountabilityProject
// @Failure 400 {object} middleware.ErrorResponse "Invalid status filter"
// @Failure 403 {object} middleware.ErrorResponse "Not a household member"
// @Router /households/{id}/overspend/projects [get]
// @Security BearerAuth
func (h *OverspendHandler) ListProjectsHandler(c *gin.Context) {
	filter := store.ProjectFilter{
		Status:   types.ProjectStatus(c.Query("status")),
		MemberID: c.Query("memberId"),
	}

	projects, err := h.projects.ListProjects(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProjectHandler godoc
// @Summary Get an accountability project with its tasks
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param projectId path string true "Project ID"
// @Success 200 {object} types.ProjectWithTasks
// @Failure 404 {object} middleware.ErrorResponse "Project not found in household"
// @Router /households/{id}/overspend/projects/{projectId} [get]
// @Security BearerAuth
func (h *OverspendHandler) GetProjectHandler(c *gin.Context) {
	project, err := h.projects.GetProject(c.Request.Context(), c.Param("id"), c.Param("projectId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ApproveProjectHandler godoc
// @Summary Approve a pending accountability project
// @Description Activates the project and all of its pending tasks. Owners and co-owners only.
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param projectId path string true "Project ID"
// @Success 200 {object} types.ProjectWithTasks
// @Failure 403 {object} middleware.ErrorResponse "Caller may not approve"
// @Failure 404 {object} middleware.ErrorResponse "Project not found in household"
// @Failure 409 {object} middleware.ErrorResponse "Project is not pending approval"
// @Router /households/{id}/overspend/projects/{projectId}/approve [post]
// @Security BearerAuth
func (h *OverspendHandler) ApproveProjectHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projects.ApproveProject(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProjectStatusHandler godoc
// @Summary Change an accountability project's status
// @Description Moves a project between active and on_hold, or completes it. Completion also completes every task.
// @Tags overspend
// @Accept json
// @Produce json
// @Param id path string true "Household ID"
// @Param projectId path string true "Project ID"
// @Param request body types.ProjectStatusUpdate true "New status"
// @Success 200 {object} types.ProjectWithTasks
// @Failure 400 {object} middleware.ErrorResponse "Invalid status"
// @Failure 403 {object} middleware.ErrorResponse "Caller may not change status"
// @Failure 409 {object} middleware.ErrorResponse "Transition not allowed"
// @Router /households/{id}/overspend/projects/{projectId}/status [patch]
// @Security BearerAuth
func (h *OverspendHandler) UpdateProjectStatusHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.ProjectStatusUpdate
	if !bindJSONOrError(c, &req) {
		return
	}
	if !req.Status.IsValid() {
		_ = c.Error(apperrors.ValidationFailed("invalid project status", string(req.Status)))
		return
	}

	project, err := h.projects.UpdateProjectStatus(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// RecordPaymentHandler godoc
// @Summary Record a repayment against a project
// @Tags overspend
// @Accept json
// @Produce json
// @Param id path string true "Household ID"
// @Param projectId path string true "Project ID"
// @Param request body types.PaymentCreate true "Payment"
// @Success 201 {object} types.AccountabilityProject
// @Failure 400 {object} middleware.ErrorResponse "Invalid payment"
// @Failure 403 {object} middleware.ErrorResponse "Caller may not record payments"
// @Failure 409 {object} middleware.ErrorResponse "Project already completed"
// @Router /households/{id}/overspend/projects/{projectId}/payments [post]
// @Security BearerAuth
func (h *OverspendHandler) RecordPaymentHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.PaymentCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	project, err := h.projects.RecordPayment(c.Request.Context(), c.Param("id"), c.Param("projectId"), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// ListTasksHandler godoc
// @Summary List payment tasks
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param assignedTo query string false "Filter by assignee; \"me\" selects the caller"
// @Param status query string false "Filter by status" Enums(pending_approval, active, completed, dismissed, overdue)
// @Param projectId query string false "Filter by project"
// @Success 200 {array} types.PaymentTask
// @Failure 400 {object} middleware.ErrorResponse "Invalid status filter"
// @Router /households/{id}/overspend/tasks [get]
// @Security BearerAuth
func (h *OverspendHandler) ListTasksHandler(c *gin.Context) {
	assignedTo := c.Query("assignedTo")
	if assignedTo == "me" {
		assignedTo = middleware.GetUserID(c)
	}

	filter := store.TaskFilter{
		ProjectID:  c.Query("projectId"),
		AssignedTo: assignedTo,
		Status:     types.TaskStatus(c.Query("status")),
	}

	tasks, err := h.projects.ListTasks(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CompleteTaskHandler godoc
// @Summary Complete a payment task
// @Description Only the member the task is assigned to may complete it.
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} types.PaymentTask
// @Failure 403 {object} middleware.ErrorResponse "Task is assigned to someone else"
// @Failure 404 {object} middleware.ErrorResponse "Task not found in household"
// @Failure 409 {object} middleware.ErrorResponse "Task already closed"
// @Router /households/{id}/overspend/tasks/{taskId}/complete [post]
// @Security BearerAuth
func (h *OverspendHandler) CompleteTaskHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	task, err := h.projects.CompleteTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DismissTaskHandler godoc
// @Summary Dismiss a payment task
// @Description Owners, co-owners and managers may dismiss tasks.
// @Tags overspend
// @Produce json
// @Param id path string true "Household ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} types.PaymentTask
// @Failure 403 {object} middleware.ErrorResponse "Caller may not dismiss"
// @Failure 404 {object} middleware.ErrorResponse "Task not found in household"
// @Failure 409 {object} middleware.ErrorResponse "Task already closed"
// @Router /households/{id}/overspend/tasks/{taskId}/dismiss [post]
// @Security BearerAuth
func (h *OverspendHandler) DismissTaskHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	task, err := h.projects.DismissTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, task)
}
