package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// NotificationController handles the notification outbox endpoints
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListMine lists the caller's notifications
// @Summary My notifications
// @Description Returns the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /notifications/me [get]
func (c *NotificationController) ListMine(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	notifications, err := c.notificationService.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notifications)
}

// MarkRead marks one of the caller's notifications as read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID" Format(int64) minimum(1)
// @Success 200 {object} models.Notification
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	notification, err := c.notificationService.MarkRead(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notification)
}

// CreateForUser sends a notification to one user
// @Summary Notify a user
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Recipient user ID" Format(int64) minimum(1)
// @Param request body dto.NotificationRequest true "Notification"
// @Success 201 {object} models.Notification
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /notifications/user/{userId} [post]
func (c *NotificationController) CreateForUser(ctx *gin.Context) {
	userID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}
	var req dto.NotificationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	notification, err := c.notificationService.CreateForUser(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, notification)
}

// BroadcastToStudents sends a notification to every student
// @Summary Broadcast to students
// @Description Creates one unread notification per STUDENT user and returns how many were created
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NotificationRequest true "Notification"
// @Success 201 {object} dto.CountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /notifications/broadcast/students [post]
func (c *NotificationController) BroadcastToStudents(ctx *gin.Context) {
	var req dto.NotificationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	count, err := c.notificationService.BroadcastToStudents(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.CountResponse{Count: count})
}
