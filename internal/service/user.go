package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetPendingUsers(ctx context.Context) ([]domain.User, error)
	SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}

type UserServiceImpl struct {
	log           *slog.Logger
	ext           sqlx.ExtContext
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewUserService(ext sqlx.ExtContext, log *slog.Logger, users repository.UserRepository, notifications repository.NotificationRepository) *UserServiceImpl {
	return &UserServiceImpl{
		log:           log,
		ext:           ext,
		users:         users,
		notifications: notifications,
	}
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	const op = "internal.service.user.GetUser"

	user, err := s.users.GetUserByID(ctx, s.ext, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserServiceImpl) GetPendingUsers(ctx context.Context) ([]domain.User, error) {
	const op = "internal.service.user.GetPendingUsers"

	users, err := s.users.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *UserServiceImpl) SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error) {
	const op = "internal.service.user.SetVerified"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	user, err := s.users.SetVerified(ctx, userID, verified)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if verified {
		n := newNotification(user.ID, domain.NotificationAccountVerified,
			"Account Verified",
			"Your account has been verified",
			nil, nil)
		if err := s.notifications.Create(ctx, s.ext, n); err != nil {
			return nil, fmt.Errorf("%s: failed to notify user: %w", op, err)
		}
	}

	log.Info("user verification updated", slog.Bool("verified", verified))

	return user, nil
}

func (s *UserServiceImpl) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	const op = "internal.service.user.SetActive"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	user, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user activity updated", slog.Bool("active", active))

	return user, nil
}
