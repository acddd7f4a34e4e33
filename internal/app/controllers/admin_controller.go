package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// AdminController serves the admin dashboard aggregates
type AdminController struct {
	metricsService services.MetricsService
}

// NewAdminController creates a new AdminController
func NewAdminController(metricsService services.MetricsService) *AdminController {
	return &AdminController{metricsService: metricsService}
}

// Metrics returns the dashboard metrics
// @Summary Admin metrics
// @Description Totals, department utilization charts and weekly series. The series are synthetic.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminMetrics
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/metrics [get]
func (c *AdminController) Metrics(ctx *gin.Context) {
	metrics, err := c.metricsService.GetAdminMetrics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, metrics)
}

// Health reports that the API is up
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
