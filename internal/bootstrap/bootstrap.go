package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/campusportal/internal/app/controllers"
	appMigrations "github.com/yigit/campusportal/internal/app/migrations"
	appRepos "github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	appRoutes "github.com/yigit/campusportal/internal/app/routes"
	appServices "github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/config"
	"github.com/yigit/campusportal/internal/db"
	appMiddleware "github.com/yigit/campusportal/internal/middleware"
	pkgAuth "github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/helpers"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/pkg/ratelimit"
	"github.com/yigit/campusportal/internal/pkg/validation"
	"github.com/yigit/campusportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// Storage is the selected persistence backend. Database is nil for the
// memory driver.
type Storage struct {
	Repos    *appRepos.Repositories
	Database *db.PostgresDB
}

// Close releases the database pool, if any.
func (s *Storage) Close() {
	if s.Database != nil {
		s.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured backend. For postgres it connects,
// applies the embedded migrations and returns the pool alongside the
// repositories. Default data is created when database.seed is set.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	storage := &Storage{}

	switch cfg.Database.Driver {
	case "memory":
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		storage.Repos = memory.NewRepositories()
	default:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files())
		if err := migrator.Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		storage.Database = database
		storage.Repos = appRepos.NewRepositories(database)
	}

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, storage.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return storage, nil
}

// SetupLimiter connects to Redis when an address is configured. Without one,
// the returned limiter allows every login attempt and the client is nil.
func SetupLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (ratelimit.Limiter, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured; login throttling disabled")
		return ratelimit.Nop{}, nil, nil
	}

	client, err := ratelimit.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, nil, err
	}

	window := helpers.DurationOr(cfg.Redis.LoginWindow, 15*time.Minute)
	lgr.Info().Str("addr", cfg.Redis.Addr).Int("attempts", cfg.Redis.LoginAttempts).
		Dur("window", window).Msg("Login throttling enabled")
	return ratelimit.New(client, cfg.Redis.LoginAttempts, window), client, nil
}

// BuildDependencies initializes services, middleware and controllers over repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, limiter ratelimit.Limiter, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.DurationOr(cfg.JWT.AccessTokenExpiration, 168*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(repos, deps.JWTService, appServices.Options{
		WaitlistWhenFull: cfg.Enrollment.WaitlistWhenFull,
		Limiter:          limiter,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svc.AuthService),
		Term:         appControllers.NewTermController(svc.TermService),
		Course:       appControllers.NewCourseController(svc.CourseService),
		Section:      appControllers.NewSectionController(svc.SectionService),
		User:         appControllers.NewUserController(svc.UserService),
		Enrollment:   appControllers.NewEnrollmentController(svc.EnrollmentService),
		Notification: appControllers.NewNotificationController(svc.NotificationService),
		Admin:        appControllers.NewAdminController(svc.MetricsService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
