package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolatlas/schoolatlas-backend/internal/http/response"
	"github.com/schoolatlas/schoolatlas-backend/internal/services"
)

type IntakeHandler struct {
	intakeService services.IntakeService
}

func NewIntakeHandler(intakeService services.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

func (ih *IntakeHandler) SubmitReview(c *gin.Context) {
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sub, err := ih.intakeService.SubmitReview(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"submission_id": sub.ID, "status": sub.Status})
}

func (ih *IntakeHandler) SuggestSchool(c *gin.Context) {
	var req services.SchoolSuggestion
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sub, err := ih.intakeService.SuggestSchool(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"submission_id": sub.ID, "status": sub.Status})
}
