package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schoolatlas/schoolatlas-backend/internal/http/response"
	"github.com/schoolatlas/schoolatlas-backend/internal/services"
)

type DirectoryHandler struct {
	directoryService services.DirectoryService
}

func NewDirectoryHandler(directoryService services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (dh *DirectoryHandler) GetSchool(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("slug required"))
		return
	}
	page, err := dh.directoryService.GetSchoolBySlug(c.Request.Context(), slug)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (dh *DirectoryHandler) GetCity(c *gin.Context) {
	cityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid city id"))
		return
	}
	overview, err := dh.directoryService.GetCityOverview(c.Request.Context(), cityID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, overview)
}

func (dh *DirectoryHandler) ListCities(c *gin.Context) {
	cities, err := dh.directoryService.ListCities(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cities": cities})
}
