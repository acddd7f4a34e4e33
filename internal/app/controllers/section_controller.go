package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// SectionController handles section endpoints
type SectionController struct {
	sectionService services.SectionService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService services.SectionService) *SectionController {
	return &SectionController{sectionService: sectionService}
}

// ListSections lists all sections
// @Summary List sections
// @Description Returns every section with its course, term and current ENROLLED count
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Section
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /sections [get]
func (c *SectionController) ListSections(ctx *gin.Context) {
	sections, err := c.sectionService.ListSections(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sections)
}

// CreateSection creates a section
// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SectionRequest true "Section"
// @Success 201 {object} models.Section
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course or term not found"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req dto.SectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.CreateSection(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, section)
}

// UpdateSection updates a section
// @Summary Update a section
// @Description Omitted room, capacity and instructorId keep their stored values
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Param request body dto.SectionRequest true "Section"
// @Success 200 {object} models.Section
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Section, course or term not found"
// @Router /sections/{id} [put]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.UpdateSection(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, section)
}

// DeleteSection deletes a section and its enrollments
// @Summary Delete a section
// @Tags sections
// @Security BearerAuth
// @Param id path int true "Section ID" Format(int64) minimum(1)
// @Success 204 "Section deleted"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.sectionService.DeleteSection(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
