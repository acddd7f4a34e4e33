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

// Foreign key constraint names generated by Postgres for the sections table.
const (
	sectionCourseFK     = "sections_course_id_fkey"
	sectionTermFK       = "sections_term_id_fkey"
	sectionInstructorFK = "sections_instructor_id_fkey"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// SectionRepository handles section database operations
type SectionRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new SectionRepository
func NewSectionRepository(database *db.PostgresDB) *SectionRepository {
	return &SectionRepository{
		db: database,
		sb: newStatementBuilder(),
	}
}

var sectionColumns = []string{
	"s.id", "s.course_id", "s.term_id", "s.room", "s.capacity", "s.instructor_id",
	"c.id", "c.code", "c.title", "c.credits",
	"t.id", "t.name",
}

// withSectionColumns adds the section, course, term and ENROLLED count
// columns to q, which must already select from "sections s". The values are
// read back through sectionDest.
func withSectionColumns(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.Columns(sectionColumns...).
		Column(squirrel.Expr("(SELECT COUNT(*) FROM enrollments ec WHERE ec.section_id = s.id AND ec.status = ?)", models.StatusEnrolled)).
		Join("courses c ON c.id = s.course_id").
		Join("terms t ON t.id = s.term_id")
}

func newJoinedSection() *models.Section {
	return &models.Section{Course: &models.Course{}, Term: &models.Term{}}
}

func sectionDest(section *models.Section) []any {
	return []any{
		&section.ID, &section.CourseID, &section.TermID, &section.Room, &section.Capacity, &section.InstructorID,
		&section.Course.ID, &section.Course.Code, &section.Course.Title, &section.Course.Credits,
		&section.Term.ID, &section.Term.Name,
		&section.EnrolledCount,
	}
}

func scanSection(row rowScanner) (*models.Section, error) {
	section := newJoinedSection()
	if err := row.Scan(sectionDest(section)...); err != nil {
		return nil, err
	}
	return section, nil
}

func (r *SectionRepository) selectSections() squirrel.SelectBuilder {
	return withSectionColumns(r.sb.Select().From("sections s"))
}

// List returns all sections with their course, term and ENROLLED count, newest first
func (r *SectionRepository) List(ctx context.Context) ([]*models.Section, error) {
	sql, args, err := r.selectSections().OrderBy("s.id DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list sections SQL")
		return nil, fmt.Errorf("failed to build list sections query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list sections query")
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	sections := []*models.Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning section row")
			return nil, fmt.Errorf("error scanning section row: %w", err)
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}

	return sections, nil
}

// GetByID retrieves a section with its relations
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	sql, args, err := r.selectSections().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get section query: %w", err)
	}

	section, err := scanSection(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error scanning section row")
		return nil, fmt.Errorf("error getting section by ID: %w", err)
	}
	return section, nil
}

// Create inserts section and sets its ID
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Insert("sections").
		Columns("course_id", "term_id", "room", "capacity", "instructor_id").
		Values(section.CourseID, section.TermID, section.Room, section.Capacity, section.InstructorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create section query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&section.ID); err != nil {
		if mapped := sectionParentError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Msg("Error executing create section query")
		return fmt.Errorf("error creating section: %w", err)
	}
	return nil
}

// Update writes every column of section
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Update("sections").
		SetMap(map[string]interface{}{
			"course_id":     section.CourseID,
			"term_id":       section.TermID,
			"room":          section.Room,
			"capacity":      section.Capacity,
			"instructor_id": section.InstructorID,
		}).
		Where(squirrel.Eq{"id": section.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update section query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := sectionParentError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("sectionID", section.ID).Msg("Error executing update section query")
		return fmt.Errorf("error updating section: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}

// Delete removes a section; its enrollments cascade
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("sections").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete section query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error executing delete section query")
		return fmt.Errorf("error deleting section: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}
	return nil
}

func sectionParentError(err error) error {
	if !dberrors.IsForeignKeyViolation(err) {
		return nil
	}
	switch dberrors.ConstraintName(err) {
	case sectionCourseFK:
		return apperrors.ErrCourseNotFound
	case sectionTermFK:
		return apperrors.ErrTermNotFound
	case sectionInstructorFK:
		return apperrors.ErrUserNotFound
	}
	return apperrors.NewResourceNotFoundError("referenced record not found")
}
