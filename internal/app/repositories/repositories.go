package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/db"
)

// ITermRepository defines the interface for term persistence
type ITermRepository interface {
	List(ctx context.Context) ([]*models.Term, error)
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id int64) error
}

// ICourseRepository defines the interface for course persistence
type ICourseRepository interface {
	List(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// ISectionRepository defines the interface for section persistence.
// Sections are returned with their course, term and ENROLLED count.
type ISectionRepository interface {
	List(ctx context.Context) ([]*models.Section, error)
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update writes name, email and role; the password hash only when non-nil.
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	ListIDsByRole(ctx context.Context, role models.RoleType) ([]int64, error)
}

// IEnrollmentRepository defines the interface for the enrollment ledger
type IEnrollmentRepository interface {
	List(ctx context.Context) ([]*models.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	// Create inserts an ENROLLED row, or a WAITLISTED one when the section is
	// full and waitlistWhenFull is set. The seat count and insert are atomic.
	Create(ctx context.Context, userID, sectionID int64, waitlistWhenFull bool) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
}

// INotificationRepository defines the interface for the notification outbox
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// CreateForRole copies draft to every user with role in one transaction
	// and returns the number of rows written.
	CreateForRole(ctx context.Context, role models.RoleType, draft *models.Notification) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)
}

// IMetricsRepository loads the state the admin metrics are computed from
type IMetricsRepository interface {
	Snapshot(ctx context.Context) (*models.MetricsSnapshot, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	TermRepository         ITermRepository
	CourseRepository       ICourseRepository
	SectionRepository      ISectionRepository
	UserRepository         IUserRepository
	EnrollmentRepository   IEnrollmentRepository
	NotificationRepository INotificationRepository
	MetricsRepository      IMetricsRepository
}

// NewRepositories initializes all Postgres-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		TermRepository:         NewTermRepository(database),
		CourseRepository:       NewCourseRepository(database),
		SectionRepository:      NewSectionRepository(database),
		UserRepository:         NewUserRepository(database),
		EnrollmentRepository:   NewEnrollmentRepository(database),
		NotificationRepository: NewNotificationRepository(database),
		MetricsRepository:      NewMetricsRepository(database),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
