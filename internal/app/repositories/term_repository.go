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

// TermRepository handles term database operations
type TermRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewTermRepository creates a new TermRepository
func NewTermRepository(database *db.PostgresDB) *TermRepository {
	return &TermRepository{
		db: database,
		sb: newStatementBuilder(),
	}
}

// List returns all terms, newest first
func (r *TermRepository) List(ctx context.Context) ([]*models.Term, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("terms").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list terms SQL")
		return nil, fmt.Errorf("failed to build list terms query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list terms query")
		return nil, fmt.Errorf("error querying terms: %w", err)
	}
	defer rows.Close()

	terms := []*models.Term{}
	for rows.Next() {
		term := &models.Term{}
		if err := rows.Scan(&term.ID, &term.Name); err != nil {
			logger.Error().Err(err).Msg("Error scanning term row")
			return nil, fmt.Errorf("error scanning term row: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating term rows")
		return nil, fmt.Errorf("error iterating term rows: %w", err)
	}

	return terms, nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("terms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get term query: %w", err)
	}

	term := &models.Term{}
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&term.ID, &term.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		logger.Error().Err(err).Int64("termID", id).Msg("Error scanning term row")
		return nil, fmt.Errorf("error getting term by ID: %w", err)
	}
	return term, nil
}

// Create inserts term and sets its ID
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	sql, args, err := r.sb.Insert("terms").
		Columns("name").
		Values(term.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create term query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&term.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrTermAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create term query")
		return fmt.Errorf("error creating term: %w", err)
	}
	return nil
}

// Update renames an existing term
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	sql, args, err := r.sb.Update("terms").
		Set("name", term.Name).
		Where(squirrel.Eq{"id": term.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update term query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrTermAlreadyExists
		}
		logger.Error().Err(err).Int64("termID", term.ID).Msg("Error executing update term query")
		return fmt.Errorf("error updating term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}

// Delete removes a term. Terms that still have sections are kept.
func (r *TermRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("terms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete term query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTermHasSections
		}
		logger.Error().Err(err).Int64("termID", id).Msg("Error executing delete term query")
		return fmt.Errorf("error deleting term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}
