package services

import (
	"math/rand/v2"

	appauth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/ratelimit"
)

// Services holds every service the controllers depend on.
type Services struct {
	AuthService         AuthService
	UserService         UserService
	TermService         TermService
	CourseService       CourseService
	SectionService      SectionService
	EnrollmentService   EnrollmentService
	NotificationService NotificationService
	MetricsService      MetricsService
}

// Options carries the settings services read from configuration.
type Options struct {
	WaitlistWhenFull bool
	Limiter          ratelimit.Limiter
	// Rand drives the synthetic metrics series; nil means time-seeded.
	Rand *rand.Rand
}

// NewServices wires all services over repos.
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, opts Options) *Services {
	authz := appauth.NewAuthorizationService(repos.EnrollmentRepository)
	return &Services{
		AuthService:         NewAuthService(repos.UserRepository, jwtService, opts.Limiter),
		UserService:         NewUserService(repos.UserRepository),
		TermService:         NewTermService(repos.TermRepository),
		CourseService:       NewCourseService(repos.CourseRepository),
		SectionService:      NewSectionService(repos.SectionRepository, repos.UserRepository),
		EnrollmentService:   NewEnrollmentService(repos.EnrollmentRepository, authz, opts.WaitlistWhenFull),
		NotificationService: NewNotificationService(repos.NotificationRepository),
		MetricsService:      NewMetricsService(repos.MetricsRepository, opts.Rand),
	}
}
