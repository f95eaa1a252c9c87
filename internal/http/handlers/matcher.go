package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/http/response"
	"github.com/schoolatlas/schoolatlas-backend/internal/modules/matcher"
)

// MatcherHandler exposes the admin merge surface: candidate proposals,
// single merges, bulk auto-merges, and standalone publication.
type MatcherHandler struct {
	matcher matcher.Usecases
}

func NewMatcherHandler(m matcher.Usecases) *MatcherHandler {
	return &MatcherHandler{matcher: m}
}

func (mh *MatcherHandler) MatchCandidates(c *gin.Context) {
	cityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid city id"))
		return
	}
	proposals, err := mh.matcher.FindCandidates(c.Request.Context(), cityID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"proposals": proposals})
}

func (mh *MatcherHandler) ExecuteMerge(c *gin.Context) {
	var req struct {
		PipelineID  uuid.UUID `json:"pipeline_id" binding:"required"`
		DirectoryID uuid.UUID `json:"directory_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := mh.matcher.ExecuteMerge(c.Request.Context(), req.PipelineID, req.DirectoryID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (mh *MatcherHandler) BulkMerge(c *gin.Context) {
	var req struct {
		CityID    uuid.UUID `json:"city_id" binding:"required"`
		Threshold float64   `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	report, err := mh.matcher.BulkMerge(c.Request.Context(), req.CityID, req.Threshold)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (mh *MatcherHandler) PublishStandalone(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid school id"))
		return
	}
	school, err := mh.matcher.PublishStandalone(c.Request.Context(), schoolID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, school)
}
