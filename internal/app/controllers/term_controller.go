package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// TermController handles term endpoints
type TermController struct {
	termService services.TermService
}

// NewTermController creates a new TermController
func NewTermController(termService services.TermService) *TermController {
	return &TermController{termService: termService}
}

// ListTerms lists all terms
// @Summary List terms
// @Description Returns every term, newest first
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Term
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [get]
func (c *TermController) ListTerms(ctx *gin.Context) {
	terms, err := c.termService.ListTerms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, terms)
}

// CreateTerm creates a term
// @Summary Create a term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TermRequest true "Term"
// @Success 201 {object} models.Term
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 409 {object} dto.ErrorResponse "Term already exists"
// @Router /terms [post]
func (c *TermController) CreateTerm(ctx *gin.Context) {
	var req dto.TermRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.CreateTerm(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, term)
}

// UpdateTerm renames a term
// @Summary Update a term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID" Format(int64) minimum(1)
// @Param request body dto.TermRequest true "Term"
// @Success 200 {object} models.Term
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term already exists"
// @Router /terms/{id} [put]
func (c *TermController) UpdateTerm(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.TermRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.UpdateTerm(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, term)
}

// DeleteTerm deletes a term
// @Summary Delete a term
// @Description Fails with 409 while sections still reference the term
// @Tags terms
// @Security BearerAuth
// @Param id path int true "Term ID" Format(int64) minimum(1)
// @Success 204 "Term deleted"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term has sections"
// @Router /terms/{id} [delete]
func (c *TermController) DeleteTerm(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	if err := c.termService.DeleteTerm(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
