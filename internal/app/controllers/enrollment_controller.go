package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// EnrollmentController handles the enrollment ledger endpoints
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// ListEnrollments lists every enrollment
// @Summary List enrollments
// @Description Returns all enrollments with their user and section, newest first
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Enrollment
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListEnrollments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollments)
}

// ListForUser lists one user's enrollments
// @Summary List a user's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID" Format(int64) minimum(1)
// @Success 200 {array} models.Enrollment
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /enrollments/user/{userId} [get]
func (c *EnrollmentController) ListForUser(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	userID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListForUser(ctx.Request.Context(), actor, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollments)
}

// Enroll registers a user in a section
// @Summary Enroll in a section
// @Description Students may only enroll themselves. A full section yields a WAITLISTED row, or 409 when waitlisting is disabled.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "User or section not found"
// @Failure 409 {object} dto.ErrorResponse "Section is full"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, enrollment)
}

// UpdateStatus overwrites an enrollment's status
// @Summary Update enrollment status
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Param request body dto.UpdateEnrollmentStatusRequest true "Status"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Section is full or enrollment dropped"
// @Router /enrollments/{id} [put]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEnrollmentStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollment)
}

// Drop deletes an enrollment
// @Summary Drop an enrollment
// @Tags enrollments
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 204 "Enrollment dropped"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Drop(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
