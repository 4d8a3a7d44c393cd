package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jrvillar/campus-console-api/internal/service"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
	"github.com/jrvillar/campus-console-api/pkg/response"
)

// CurriculumHandler exposes curriculum endpoints.
type CurriculumHandler struct {
	curricula *service.CurriculumService
}

// NewCurriculumHandler constructs CurriculumHandler.
func NewCurriculumHandler(curricula *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curricula: curricula}
}

// List godoc
// @Summary List curricula
// @Tags Curricula
// @Produce json
// @Param programId query string false "Filter by program"
// @Success 200 {object} response.Envelope
// @Router /curricula [get]
func (h *CurriculumHandler) List(c *gin.Context) {
	curricula, err := h.curricula.List(c.Request.Context(), c.Query("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, curricula, nil)
}

// Requirements godoc
// @Summary List a curriculum's requirements in declaration order
// @Tags Curricula
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} response.Envelope
// @Router /curricula/{id}/requirements [get]
func (h *CurriculumHandler) Requirements(c *gin.Context) {
	requirements, err := h.curricula.Requirements(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requirements, nil)
}

// SetRequirements godoc
// @Summary Replace a curriculum's requirement list
// @Tags Curricula
// @Accept json
// @Produce json
// @Param id path string true "Curriculum ID"
// @Param payload body service.SetRequirementsRequest true "Requirements payload"
// @Success 200 {object} response.Envelope
// @Router /curricula/{id}/requirements [put]
func (h *CurriculumHandler) SetRequirements(c *gin.Context) {
	var req service.SetRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	requirements, err := h.curricula.SetRequirements(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requirements, nil)
}
