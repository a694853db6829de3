package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

type TaskService interface {
	AcceptTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error)
	RejectTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error)
	MarkTaskDelivered(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error)
	GetTask(ctx context.Context, taskID string) (*domain.VolunteerTask, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error)
	ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error)
}

type TaskServiceImpl struct {
	BaseService
	taskCmd       repository.TaskCommandRepository
	taskQuery     repository.TaskQueryRepository
	donationCmd   repository.DonationCommandRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewTaskService(
	db Transactor,
	log *slog.Logger,
	taskCmd repository.TaskCommandRepository,
	taskQuery repository.TaskQueryRepository,
	donationCmd repository.DonationCommandRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		BaseService:   NewBaseService(db, log),
		taskCmd:       taskCmd,
		taskQuery:     taskQuery,
		donationCmd:   donationCmd,
		users:         users,
		notifications: notifications,
	}
}

func (s *TaskServiceImpl) AcceptTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	const op = "internal.service.task.AcceptTask"
	log := s.log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("volunteer_id", volunteerID))

	var task *domain.VolunteerTask

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		task, err = s.taskCmd.GetTaskByIDWithLock(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if task.VolunteerID != volunteerID {
			return fmt.Errorf("%w: task is assigned to a different volunteer", apperrors.ErrForbidden)
		}

		if task.Status != domain.TaskAssigned {
			return &apperrors.InvalidTransitionError{
				Entity: "task",
				From:   string(task.Status),
				To:     string(domain.TaskAccepted),
			}
		}

		taskUpd := domain.TaskUpdate{
			Status:     domain.TaskAccepted,
			PickupTime: &now,
		}
		if err := s.taskCmd.ApplyUpdate(ctx, tx, taskID, taskUpd, now); err != nil {
			return err
		}

		donation, err := s.donationCmd.GetDonationByIDWithLock(ctx, tx, task.DonationID)
		if err != nil {
			return err
		}

		// The donation mirrors the task acceptance only while it is still in
		// the matched stage. A cancelled donation stays cancelled.
		if domain.CanTransitionDonation(donation.Status, domain.DonationAccepted) {
			donUpd := domain.DonationUpdate{
				Status:               domain.DonationAccepted,
				CompletionPercentage: domain.CompletionForStatus(domain.DonationAccepted),
				TimelineNote:         "Volunteer accepted the pickup task",
			}
			if err := s.donationCmd.ApplyUpdate(ctx, tx, donation.ID, donUpd, now); err != nil {
				return err
			}
		}

		for _, recipient := range []string{task.DonorID, task.NGOID} {
			n := newNotification(recipient, domain.NotificationTaskAccepted,
				"Task Accepted",
				"A volunteer has accepted the delivery task",
				&task.DonationID, &volunteerID)
			if err := s.notifications.Create(ctx, tx, n); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task accepted")

	task.Status = domain.TaskAccepted
	task.PickupTime = &now
	task.UpdatedAt = now

	return task, nil
}

func (s *TaskServiceImpl) RejectTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	const op = "internal.service.task.RejectTask"
	log := s.log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("volunteer_id", volunteerID))

	var (
		task        *domain.VolunteerTask
		replacement *domain.User
	)

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		task, err = s.taskCmd.GetTaskByIDWithLock(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if task.VolunteerID != volunteerID {
			return fmt.Errorf("%w: task is assigned to a different volunteer", apperrors.ErrForbidden)
		}

		if task.Status != domain.TaskAssigned {
			return fmt.Errorf("%w: only an assigned task can be rejected", apperrors.ErrInvalidState)
		}

		replacement, err = s.users.FindAvailableVolunteer(ctx, tx, []string{volunteerID, task.DonorID})
		if err != nil {
			// Nobody else to hand the task to. The rejection is a no-op and
			// the task stays with the current volunteer.
			if errors.Is(err, apperrors.ErrNotFound) {
				replacement = nil
				return nil
			}

			return fmt.Errorf("%s: failed to find volunteer: %w", op, err)
		}

		taskUpd := domain.TaskUpdate{
			Status:      domain.TaskAssigned,
			VolunteerID: &replacement.ID,
		}
		if err := s.taskCmd.ApplyUpdate(ctx, tx, taskID, taskUpd, now); err != nil {
			return err
		}

		donation, err := s.donationCmd.GetDonationByIDWithLock(ctx, tx, task.DonationID)
		if err != nil {
			return err
		}

		// The volunteer pointer moves with the task only while the donation is
		// still matched. A terminal donation keeps its state.
		if donation.Status == domain.DonationMatched {
			donUpd := domain.DonationUpdate{
				Status:               domain.DonationMatched,
				CompletionPercentage: domain.CompletionForStatus(domain.DonationMatched),
				AssignedVolunteerID:  &replacement.ID,
			}
			if err := s.donationCmd.ApplyUpdate(ctx, tx, task.DonationID, donUpd, now); err != nil {
				return err
			}
		}

		n := newNotification(replacement.ID, domain.NotificationTaskAssigned,
			"New Task Assigned",
			"You have been assigned a new delivery task",
			&task.DonationID, nil)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	if replacement == nil {
		log.Info("no replacement volunteer available, task unchanged")

		return task, nil
	}

	log.Info("task reassigned", slog.String("new_volunteer_id", replacement.ID))

	task.VolunteerID = replacement.ID
	task.UpdatedAt = now

	return task, nil
}

func (s *TaskServiceImpl) MarkTaskDelivered(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	const op = "internal.service.task.MarkTaskDelivered"
	log := s.log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("volunteer_id", volunteerID))

	var task *domain.VolunteerTask

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		task, err = s.taskCmd.GetTaskByIDWithLock(ctx, tx, taskID)
		if err != nil {
			return err
		}

		if task.VolunteerID != volunteerID {
			return fmt.Errorf("%w: task is assigned to a different volunteer", apperrors.ErrForbidden)
		}

		if !domain.CanTransitionTask(task.Status, domain.TaskDelivered) {
			return &apperrors.InvalidTransitionError{
				Entity: "task",
				From:   string(task.Status),
				To:     string(domain.TaskDelivered),
			}
		}

		taskUpd := domain.TaskUpdate{
			Status:       domain.TaskDelivered,
			DeliveryTime: &now,
		}
		if err := s.taskCmd.ApplyUpdate(ctx, tx, taskID, taskUpd, now); err != nil {
			return err
		}

		donation, err := s.donationCmd.GetDonationByIDWithLock(ctx, tx, task.DonationID)
		if err != nil {
			return err
		}

		if domain.CanTransitionDonation(donation.Status, domain.DonationDelivered) {
			donUpd := domain.DonationUpdate{
				Status:               domain.DonationDelivered,
				CompletionPercentage: domain.CompletionForStatus(domain.DonationDelivered),
				TimelineNote:         "Delivered by volunteer",
			}
			if err := s.donationCmd.ApplyUpdate(ctx, tx, donation.ID, donUpd, now); err != nil {
				return err
			}
		}

		for _, recipient := range []string{task.DonorID, task.NGOID} {
			n := newNotification(recipient, domain.NotificationDeliveryCompleted,
				"Delivery Completed",
				"The donation has been delivered",
				&task.DonationID, &volunteerID)
			if err := s.notifications.Create(ctx, tx, n); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task delivered")

	task.Status = domain.TaskDelivered
	task.DeliveryTime = &now
	task.UpdatedAt = now

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (*domain.VolunteerTask, error) {
	const op = "internal.service.task.GetTask"

	task, err := s.taskQuery.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (s *TaskServiceImpl) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error) {
	const op = "internal.service.task.ListByVolunteer"

	tasks, err := s.taskQuery.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *TaskServiceImpl) ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error) {
	const op = "internal.service.task.ListAvailable"

	tasks, err := s.taskQuery.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}
