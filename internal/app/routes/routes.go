package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/controllers"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Term         *controllers.TermController
	Course       *controllers.CourseController
	Section      *controllers.SectionController
	User         *controllers.UserController
	Enrollment   *controllers.EnrollmentController
	Notification *controllers.NotificationController
	Admin        *controllers.AdminController
}

// SetupRouter configures all application routes under /api.
func SetupRouter(router *gin.Engine, ctrl *Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", controllers.Health)
	api.POST("/auth/login", ctrl.Auth.Login)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	authenticated.GET("/auth/me", ctrl.Auth.Me)

	terms := authenticated.Group("/terms")
	{
		terms.GET("", ctrl.Term.ListTerms)
		terms.POST("", adminOnly, ctrl.Term.CreateTerm)
		terms.PUT("/:id", adminOnly, ctrl.Term.UpdateTerm)
		terms.DELETE("/:id", adminOnly, ctrl.Term.DeleteTerm)
	}

	courses := authenticated.Group("/courses")
	{
		courses.GET("", ctrl.Course.ListCourses)
		courses.POST("", adminOnly, ctrl.Course.CreateCourse)
		courses.PUT("/:id", adminOnly, ctrl.Course.UpdateCourse)
		courses.DELETE("/:id", adminOnly, ctrl.Course.DeleteCourse)
	}

	sections := authenticated.Group("/sections")
	{
		sections.GET("", ctrl.Section.ListSections)
		sections.POST("", adminOnly, ctrl.Section.CreateSection)
		sections.PUT("/:id", adminOnly, ctrl.Section.UpdateSection)
		sections.DELETE("/:id", adminOnly, ctrl.Section.DeleteSection)
	}

	users := authenticated.Group("/users", adminOnly)
	{
		users.GET("", ctrl.User.ListUsers)
		users.GET("/:id", ctrl.User.GetUser)
		users.POST("", ctrl.User.CreateUser)
		users.PUT("/:id", ctrl.User.UpdateUser)
		users.DELETE("/:id", ctrl.User.DeleteUser)
	}

	// Ownership for the non-admin enrollment routes is checked in the service.
	enrollments := authenticated.Group("/enrollments")
	{
		enrollments.GET("", adminOnly, ctrl.Enrollment.ListEnrollments)
		enrollments.GET("/user/:userId", ctrl.Enrollment.ListForUser)
		enrollments.POST("", ctrl.Enrollment.Enroll)
		enrollments.PUT("/:id", adminOnly, ctrl.Enrollment.UpdateStatus)
		enrollments.DELETE("/:id", ctrl.Enrollment.Drop)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("/me", ctrl.Notification.ListMine)
		notifications.POST("/:id/read", ctrl.Notification.MarkRead)
		notifications.POST("/user/:userId", adminOnly, ctrl.Notification.CreateForUser)
		notifications.POST("/broadcast/students", adminOnly, ctrl.Notification.BroadcastToStudents)
	}

	authenticated.GET("/admin/metrics", adminOnly, ctrl.Admin.Metrics)
}
