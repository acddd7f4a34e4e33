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

var notificationColumns = []string{"id", "user_id", "title", "message", "category", "type", "priority", "read", "created_at"}

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(database *db.PostgresDB) *NotificationRepository {
	return &NotificationRepository{
		db: database,
		sb: newStatementBuilder(),
	}
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &n.Type, &n.Priority, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) insert(ctx context.Context, q querier, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "title", "message", "category", "type", "priority").
		Values(n.UserID, n.Title, n.Message, n.Category, n.Type, n.Priority).
		Suffix("RETURNING id, read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.Read, &n.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", n.UserID).Msg("Error executing create notification query")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// Create inserts a notification for n.UserID
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.insert(ctx, r.db.Pool, n)
}

// CreateForRole writes one copy of draft per user holding role with a single
// INSERT ... SELECT and returns the number of rows written.
func (r *NotificationRepository) CreateForRole(ctx context.Context, role models.RoleType, draft *models.Notification) (int, error) {
	recipients := squirrel.Select("id").
		Column(squirrel.Expr("?::text", draft.Title)).
		Column(squirrel.Expr("?::text", draft.Message)).
		Column(squirrel.Expr("?::text", draft.Category)).
		Column(squirrel.Expr("?::text", draft.Type)).
		Column(squirrel.Expr("?::text", draft.Priority)).
		From("users").
		Where(squirrel.Eq{"role": string(role)})

	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "title", "message", "category", "type", "priority").
		Select(recipients).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build broadcast notification query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("role", string(role)).Msg("Error executing broadcast notification query")
		return 0, fmt.Errorf("error broadcasting notification: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	sql, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}

	n, err := scanNotification(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		logger.Error().Err(err).Int64("notificationID", id).Msg("Error scanning notification row")
		return nil, fmt.Errorf("error getting notification by ID: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list notifications query")
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}

// MarkRead sets read = true and returns the updated row
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, user_id, title, message, category, type, priority, read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build mark read query: %w", err)
	}

	n, err := scanNotification(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		logger.Error().Err(err).Int64("notificationID", id).Msg("Error executing mark read query")
		return nil, fmt.Errorf("error marking notification read: %w", err)
	}
	return n, nil
}
