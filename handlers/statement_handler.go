package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthledger/budget-backend/types"
)

type StatementHandler struct {
	statements StatementServiceInterface
}

func NewStatementHandler(statements StatementServiceInterface) *StatementHandler {
	return &StatementHandler{statements: statements}
}

// SubmitStatementHandler godoc
// @Summary Submit a credit-card statement
// @Description Persists the statement, runs overspend detection for every member with charges and
// @Description returns the detections, created projects and any per-member failures.
// @Tags statements
// @Accept json
// @Produce json
// @Param id path string true "Household ID"
// @Param request body types.StatementSubmission true "Statement"
// @Success 201 {object} service.StatementOutcome
// @Failure 400 {object} middleware.ErrorResponse "Invalid statement"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 403 {object} middleware.ErrorResponse "Not a household member"
// @Failure 404 {object} middleware.ErrorResponse "Household not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /households/{id}/statements [post]
// @Security BearerAuth
func (h *StatementHandler) SubmitStatementHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.StatementSubmission
	if !bindJSONOrError(c, &req) {
		return
	}

	outcome, err := h.statements.SubmitStatement(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// GetStatementHandler godoc
// @Summary Get a submitted statement
// @Tags statements
// @Produce json
// @Param id path string true "Household ID"
// @Param statementId path string true "Statement ID"
// @Success 200 {object} types.Statement
// @Failure 404 {object} middleware.ErrorResponse "Statement not found in household"
// @Router /households/{id}/statements/{statementId} [get]
// @Security BearerAuth
func (h *StatementHandler) GetStatementHandler(c *gin.Context) {
	statement, err := h.statements.GetStatement(c.Request.Context(), c.Param("id"), c.Param("statementId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
