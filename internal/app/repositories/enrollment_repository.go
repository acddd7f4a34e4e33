package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/db"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/dberrors"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

var enrollmentColumns = []string{"e.id", "e.user_id", "e.section_id", "e.status", "e.created_at"}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(database *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: database,
		sb: newStatementBuilder(),
	}
}

func (r *EnrollmentRepository) selectEnrollments(withUser bool) squirrel.SelectBuilder {
	q := withSectionColumns(r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("sections s ON s.id = e.section_id"))
	if withUser {
		q = q.Columns("u.id", "u.name", "u.email", "u.role", "u.created_at").
			Join("users u ON u.id = e.user_id")
	}
	return q
}

func scanEnrollment(row rowScanner, withUser bool) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{Section: newJoinedSection()}
	dest := []any{&enrollment.ID, &enrollment.UserID, &enrollment.SectionID, &enrollment.Status, &enrollment.CreatedAt}
	dest = append(dest, sectionDest(enrollment.Section)...)
	if withUser {
		enrollment.User = &models.User{}
		dest = append(dest, &enrollment.User.ID, &enrollment.User.Name, &enrollment.User.Email,
			&enrollment.User.Role, &enrollment.User.CreatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *EnrollmentRepository) query(ctx context.Context, q squirrel.SelectBuilder, withUser bool) ([]*models.Enrollment, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list enrollments SQL")
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list enrollments query")
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows, withUser)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}

// List returns every enrollment with its user and section, newest first
func (r *EnrollmentRepository) List(ctx context.Context) ([]*models.Enrollment, error) {
	return r.query(ctx, r.selectEnrollments(true).OrderBy("e.id DESC"), true)
}

// ListByUser returns the enrollments of one user, most recent first
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	q := r.selectEnrollments(false).
		Where(squirrel.Eq{"e.user_id": userID}).
		OrderBy("e.created_at DESC", "e.id DESC")
	return r.query(ctx, q, false)
}

// GetByID retrieves an enrollment with its user and section
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.selectEnrollments(true).Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.Pool.QueryRow(ctx, sql, args...), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error getting enrollment by ID: %w", err)
	}
	return enrollment, nil
}

// Create locks the section row, counts its ENROLLED seats and inserts the
// new enrollment in the same transaction.
func (r *EnrollmentRepository) Create(ctx context.Context, userID, sectionID int64, waitlistWhenFull bool) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{UserID: userID, SectionID: sectionID}

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		full, err := r.sectionFull(ctx, tx, sectionID)
		if err != nil {
			return err
		}

		enrollment.Status = models.StatusEnrolled
		if full {
			if !waitlistWhenFull {
				return apperrors.ErrSectionFull
			}
			enrollment.Status = models.StatusWaitlisted
		}

		sql, args, err := r.sb.Insert("enrollments").
			Columns("user_id", "section_id", "status").
			Values(userID, sectionID, enrollment.Status).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create enrollment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.CreatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrUserNotFound
			}
			logger.Error().Err(err).Int64("userID", userID).Int64("sectionID", sectionID).Msg("Error executing create enrollment query")
			return fmt.Errorf("error creating enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateStatus moves an enrollment to status. DROPPED rows are final, and a
// move into ENROLLED takes a seat under the section lock.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{ID: id}

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("user_id", "section_id", "status", "created_at").
			From("enrollments").
			Where(squirrel.Eq{"id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock enrollment query: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&enrollment.UserID, &enrollment.SectionID, &enrollment.Status, &enrollment.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEnrollmentNotFound
			}
			return fmt.Errorf("error locking enrollment: %w", err)
		}

		if enrollment.Status == status {
			return nil
		}
		if enrollment.Status == models.StatusDropped {
			return apperrors.ErrEnrollmentDropped
		}
		if status == models.StatusEnrolled {
			full, err := r.sectionFull(ctx, tx, enrollment.SectionID)
			if err != nil {
				return err
			}
			if full {
				return apperrors.ErrSectionFull
			}
		}

		sql, args, err = r.sb.Update("enrollments").
			Set("status", status).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update enrollment query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing update enrollment query")
			return fmt.Errorf("error updating enrollment: %w", err)
		}
		enrollment.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// sectionFull locks the section row and reports whether its ENROLLED count
// has reached capacity. Sections without a capacity are never full.
func (r *EnrollmentRepository) sectionFull(ctx context.Context, tx pgx.Tx, sectionID int64) (bool, error) {
	sql, args, err := r.sb.Select("capacity").
		From("sections").
		Where(squirrel.Eq{"id": sectionID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build lock section query: %w", err)
	}

	var capacity *int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrSectionNotFound
		}
		return false, fmt.Errorf("error locking section: %w", err)
	}
	if capacity == nil || *capacity <= 0 {
		return false, nil
	}

	sql, args, err = r.sb.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"section_id": sectionID, "status": models.StatusEnrolled}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var enrolled int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("error counting enrollments: %w", err)
	}
	return enrolled >= *capacity, nil
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}
