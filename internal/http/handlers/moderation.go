package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/http/response"
	"github.com/schoolatlas/schoolatlas-backend/internal/pkg/ctxutil"
	"github.com/schoolatlas/schoolatlas-backend/internal/services"
)

type ModerationHandler struct {
	moderationService services.ModerationService
}

func NewModerationHandler(moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (mh *ModerationHandler) ListSubmissions(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	subs, err := mh.moderationService.ListSubmissions(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": subs})
}

func (mh *ModerationHandler) Approve(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid submission id"))
		return
	}
	report, err := mh.moderationService.ApproveSubmission(c.Request.Context(), submissionID, operatorEmail(c))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (mh *ModerationHandler) Reject(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid submission id"))
		return
	}
	if err := mh.moderationService.RejectSubmission(c.Request.Context(), submissionID, operatorEmail(c)); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func operatorEmail(c *gin.Context) string {
	if od := ctxutil.GetOperatorData(c.Request.Context()); od != nil {
		return od.Email
	}
	return ""
}
