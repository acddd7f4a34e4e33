package services

import (
	"context"
	"fmt"

	appauth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/helpers"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// NotificationService defines the interface for the notification outbox
type NotificationService interface {
	CreateForUser(ctx context.Context, userID int64, req *dto.NotificationRequest) (*models.Notification, error)
	BroadcastToStudents(ctx context.Context, req *dto.NotificationRequest) (int, error)
	// MarkRead fails with not found or forbidden before touching the row.
	MarkRead(ctx context.Context, actor appauth.Actor, id int64) (*models.Notification, error)
	ListMine(ctx context.Context, actor appauth.Actor) ([]*models.Notification, error)
}

type notificationServiceImpl struct {
	notificationRepo repositories.INotificationRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notificationRepo repositories.INotificationRepository) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func draftFromRequest(req *dto.NotificationRequest) (*models.Notification, error) {
	title, err := requireText(req.Title, "title")
	if err != nil {
		return nil, err
	}
	message, err := requireText(req.Message, "message")
	if err != nil {
		return nil, err
	}
	return &models.Notification{
		Title:    title,
		Message:  message,
		Category: helpers.TrimmedOrNil(req.Category),
		Type:     helpers.TrimmedOrNil(req.Type),
		Priority: helpers.TrimmedOrNil(req.Priority),
	}, nil
}

func (s *notificationServiceImpl) CreateForUser(ctx context.Context, userID int64, req *dto.NotificationRequest) (*models.Notification, error) {
	if err := validateID(userID, "user"); err != nil {
		return nil, err
	}
	n, err := draftFromRequest(req)
	if err != nil {
		return nil, err
	}
	n.UserID = userID
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationServiceImpl) BroadcastToStudents(ctx context.Context, req *dto.NotificationRequest) (int, error) {
	draft, err := draftFromRequest(req)
	if err != nil {
		return 0, err
	}
	count, err := s.notificationRepo.CreateForRole(ctx, models.RoleStudent, draft)
	if err != nil {
		return 0, fmt.Errorf("error broadcasting notification: %w", err)
	}
	logger.Info().Int("count", count).Str("title", draft.Title).Msg("Notification broadcast to students")
	return count, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, actor appauth.Actor, id int64) (*models.Notification, error) {
	if err := validateID(id, "notification"); err != nil {
		return nil, err
	}
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, apperrors.ErrNotNotificationOwner
	}
	if n.Read {
		return n, nil
	}
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *notificationServiceImpl) ListMine(ctx context.Context, actor appauth.Actor) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving notifications: %w", err)
	}
	return notifications, nil
}
