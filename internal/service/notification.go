package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/repository"
)

type NotificationService interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type NotificationServiceImpl struct {
	BaseService
	notifications repository.NotificationRepository
}

func NewNotificationService(db Transactor, log *slog.Logger, notifications repository.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		BaseService:   NewBaseService(db, log),
		notifications: notifications,
	}
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const op = "internal.service.notification.ListByUser"

	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return notifications, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, notificationID string) error {
	const op = "internal.service.notification.MarkAsRead"

	if err := s.notifications.MarkAsRead(ctx, notificationID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
