package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/db"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// MetricsRepository reads the aggregates behind the admin metrics
type MetricsRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewMetricsRepository creates a new MetricsRepository
func NewMetricsRepository(database *db.PostgresDB) *MetricsRepository {
	return &MetricsRepository{
		db: database,
		sb: newStatementBuilder(),
	}
}

// Snapshot reads all counts inside one read-only transaction so the totals
// agree with each other.
func (r *MetricsRepository) Snapshot(ctx context.Context) (*models.MetricsSnapshot, error) {
	snapshot := &models.MetricsSnapshot{
		UsersByRole:         map[models.RoleType]int{},
		EnrollmentsByStatus: map[models.EnrollmentStatus]int{},
	}

	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin metrics transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.loadSections(ctx, tx, snapshot); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, tx, "users", "role", func(key string, n int) {
		snapshot.UsersByRole[models.RoleType(key)] = n
	}); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, tx, "enrollments", "status", func(key string, n int) {
		snapshot.EnrollmentsByStatus[models.EnrollmentStatus(key)] = n
	}); err != nil {
		return nil, err
	}
	if snapshot.TotalCourses, err = r.count(ctx, tx, "courses"); err != nil {
		return nil, err
	}
	if snapshot.ActiveTerms, err = r.count(ctx, tx, "terms"); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *MetricsRepository) loadSections(ctx context.Context, tx pgx.Tx, snapshot *models.MetricsSnapshot) error {
	sql, args, err := r.sb.Select("s.id", "c.code", "s.capacity").
		Column(squirrel.Expr("COUNT(e.id) FILTER (WHERE e.status = ?)", models.StatusEnrolled)).
		From("sections s").
		Join("courses c ON c.id = s.course_id").
		LeftJoin("enrollments e ON e.section_id = s.id").
		GroupBy("s.id", "c.code", "s.capacity").
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build section load query: %w", err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing section load query")
		return fmt.Errorf("error querying section load: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var load models.SectionLoad
		if err := rows.Scan(&load.SectionID, &load.CourseCode, &load.Capacity, &load.Enrolled); err != nil {
			return fmt.Errorf("error scanning section load row: %w", err)
		}
		snapshot.Sections = append(snapshot.Sections, load)
	}
	return rows.Err()
}

func (r *MetricsRepository) countBy(ctx context.Context, tx pgx.Tx, table, column string, set func(string, int)) error {
	sql, args, err := r.sb.Select(column, "COUNT(*)").
		From(table).
		GroupBy(column).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s count query: %w", table, err)
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing grouped count query")
		return fmt.Errorf("error counting %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("error scanning %s count: %w", table, err)
		}
		set(key, n)
	}
	return rows.Err()
}

func (r *MetricsRepository) count(ctx context.Context, tx pgx.Tx, table string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count query: %w", table, err)
	}
	var n int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
