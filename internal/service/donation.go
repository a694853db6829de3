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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Static routing placeholders. Distance and time estimation belong to an
// external routing collaborator that is not part of this service.
const (
	defaultDistanceKm    = 5.2
	defaultEstimatedTime = 30
)

type DonationService interface {
	CreateDonation(ctx context.Context, donorID string, food domain.FoodDetails, loc domain.Location) (*domain.Donation, error)
	AcceptDonation(ctx context.Context, donationID, ngoID string) (*domain.Donation, error)
	AcceptRide(ctx context.Context, donationID, ngoID string) (*domain.Donation, error)
	MarkDonationDelivered(ctx context.Context, donationID, ngoID string) (*domain.Donation, error)
	CancelDonation(ctx context.Context, donationID, actorID, reason string) (*domain.Donation, error)
	GetDonation(ctx context.Context, donationID string) (*domain.Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error)
	ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error)
	ListAvailable(ctx context.Context) ([]domain.Donation, error)
}

type DonationServiceImpl struct {
	BaseService
	donationCmd   repository.DonationCommandRepository
	donationQuery repository.DonationQueryRepository
	taskCmd       repository.TaskCommandRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewDonationService(
	db Transactor,
	log *slog.Logger,
	donationCmd repository.DonationCommandRepository,
	donationQuery repository.DonationQueryRepository,
	taskCmd repository.TaskCommandRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
) *DonationServiceImpl {
	return &DonationServiceImpl{
		BaseService:   NewBaseService(db, log),
		donationCmd:   donationCmd,
		donationQuery: donationQuery,
		taskCmd:       taskCmd,
		users:         users,
		notifications: notifications,
	}
}

func (s *DonationServiceImpl) CreateDonation(ctx context.Context, donorID string, food domain.FoodDetails, loc domain.Location) (*domain.Donation, error) {
	const op = "internal.service.donation.CreateDonation"
	log := s.log.With(slog.String("op", op), slog.String("donor_id", donorID))

	if err := validateDonationInput(food, loc); err != nil {
		return nil, err
	}

	ngos, err := s.users.ListVerifiedByRole(ctx, domain.RoleNGO)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list NGOs: %w", op, err)
	}

	now := time.Now().UTC()
	donation := &domain.Donation{
		ID:                   uuid.NewString(),
		DonorID:              donorID,
		FoodCategory:         food.Category,
		FoodName:             food.Name,
		Quantity:             food.Quantity,
		Unit:                 food.Unit,
		ExpiryTime:           food.ExpiryTime,
		DietaryInfo:          food.DietaryInfo,
		Instructions:         food.Instructions,
		Address:              loc.Address,
		City:                 loc.City,
		Latitude:             loc.Latitude,
		Longitude:            loc.Longitude,
		Urgency:              domain.UrgencyFor(food.ExpiryTime, now),
		Status:               domain.DonationPending,
		CompletionPercentage: domain.CompletionForStatus(domain.DonationPending),
		Timeline: domain.Timeline{{
			Status:    string(domain.DonationPending),
			Timestamp: now,
			Note:      "Donation created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		donor, err := s.users.GetUserByID(ctx, tx, donorID)
		if err != nil {
			return err
		}

		if donor.Role != domain.RoleDonor {
			return fmt.Errorf("%w: user '%s' is not a donor", apperrors.ErrForbidden, donorID)
		}

		if err := s.donationCmd.CreateDonation(ctx, tx, donation); err != nil {
			return err
		}

		for _, ngo := range ngos {
			n := newNotification(ngo.ID, domain.NotificationNewDonation,
				"New Donation Available",
				fmt.Sprintf("A new %s donation is available in your area", donation.FoodCategory),
				&donation.ID, nil)
			if err := s.notifications.Create(ctx, tx, n); err != nil {
				return fmt.Errorf("%s: failed to notify NGO: %w", op, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("donation created",
		slog.String("donation_id", donation.ID),
		slog.String("donation_ref", donation.DonationRef),
		slog.String("urgency", string(donation.Urgency)),
	)

	return donation, nil
}

func (s *DonationServiceImpl) AcceptDonation(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	const op = "internal.service.donation.AcceptDonation"
	log := s.log.With(slog.String("op", op), slog.String("donation_id", donationID), slog.String("ngo_id", ngoID))

	var (
		donation *domain.Donation
		note     string
	)

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		donation, err = s.donationCmd.GetDonationByIDWithLock(ctx, tx, donationID)
		if err != nil {
			return err
		}

		if donation.Status != domain.DonationPending {
			return &apperrors.InvalidTransitionError{
				Entity: "donation",
				From:   string(donation.Status),
				To:     string(domain.DonationMatched),
			}
		}

		ngo, err := s.users.GetUserByID(ctx, tx, ngoID)
		if err != nil {
			return err
		}

		if ngo.Role != domain.RoleNGO || !ngo.IsVerified {
			return fmt.Errorf("%w: user '%s' is not a verified NGO", apperrors.ErrForbidden, ngoID)
		}

		note = fmt.Sprintf("Accepted by %s", ngo.FullName)

		upd := domain.DonationUpdate{
			Status:               domain.DonationMatched,
			CompletionPercentage: domain.CompletionForStatus(domain.DonationMatched),
			MatchedNGOID:         &ngoID,
			TimelineNote:         note,
		}
		if err := s.donationCmd.ApplyUpdate(ctx, tx, donationID, upd, now); err != nil {
			return err
		}

		n := newNotification(donation.DonorID, domain.NotificationDonationAccepted,
			"Donation Accepted",
			"Your donation has been accepted by an NGO",
			&donation.ID, &ngoID)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	log.Info("donation accepted")

	donation.Status = domain.DonationMatched
	donation.CompletionPercentage = domain.CompletionForStatus(domain.DonationMatched)
	donation.MatchedNGOID = &ngoID
	donation.Timeline = append(donation.Timeline, domain.TimelineEntry{
		Status:    string(domain.DonationMatched),
		Timestamp: now,
		Note:      note,
	})
	donation.UpdatedAt = now

	return donation, nil
}

func (s *DonationServiceImpl) AcceptRide(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	const op = "internal.service.donation.AcceptRide"
	log := s.log.With(slog.String("op", op), slog.String("donation_id", donationID), slog.String("ngo_id", ngoID))

	var (
		donation *domain.Donation
		task     *domain.VolunteerTask
	)

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		donation, err = s.donationCmd.GetDonationByIDWithLock(ctx, tx, donationID)
		if err != nil {
			return err
		}

		if donation.Status != domain.DonationMatched ||
			donation.CompletionPercentage != domain.CompletionForStatus(domain.DonationMatched) {
			return fmt.Errorf("%w: donation must be matched before a pickup can start", apperrors.ErrInvalidState)
		}

		if donation.MatchedNGOID == nil || *donation.MatchedNGOID != ngoID {
			return fmt.Errorf("%w: donation is matched to a different NGO", apperrors.ErrForbidden)
		}

		volunteer, err := s.users.FindAvailableVolunteer(ctx, tx, []string{donation.DonorID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrNoVolunteerAvailable
			}

			return fmt.Errorf("%s: failed to find volunteer: %w", op, err)
		}

		task = &domain.VolunteerTask{
			ID:              uuid.NewString(),
			DonationID:      donation.ID,
			VolunteerID:     volunteer.ID,
			DonorID:         donation.DonorID,
			NGOID:           ngoID,
			PickupAddress:   fmt.Sprintf("%s, %s", donation.Address, donation.City),
			PickupLatitude:  donation.Latitude,
			PickupLongitude: donation.Longitude,
			// NGO addresses are not modeled; the delivery point is resolved
			// out of band by the NGO.
			DeliveryAddress: "NGO address on file",
			DistanceKm:      defaultDistanceKm,
			EstimatedTime:   defaultEstimatedTime,
			Status:          domain.TaskAssigned,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.taskCmd.CreateTask(ctx, tx, task); err != nil {
			return err
		}

		upd := domain.DonationUpdate{
			Status:               domain.DonationMatched,
			CompletionPercentage: domain.CompletionForStatus(domain.DonationMatched),
			AssignedVolunteerID:  &volunteer.ID,
		}
		if err := s.donationCmd.ApplyUpdate(ctx, tx, donationID, upd, now); err != nil {
			return err
		}

		n := newNotification(volunteer.ID, domain.NotificationTaskAssigned,
			"New Task Assigned",
			"You have been assigned a new delivery task",
			&donation.ID, nil)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created and volunteer assigned",
		slog.String("task_id", task.ID),
		slog.String("task_ref", task.TaskRef),
		slog.String("volunteer_id", task.VolunteerID),
	)

	donation.AssignedVolunteerID = &task.VolunteerID
	donation.UpdatedAt = now

	return donation, nil
}

func (s *DonationServiceImpl) MarkDonationDelivered(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	const op = "internal.service.donation.MarkDonationDelivered"
	log := s.log.With(slog.String("op", op), slog.String("donation_id", donationID), slog.String("ngo_id", ngoID))

	var donation *domain.Donation

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		donation, err = s.donationCmd.GetDonationByIDWithLock(ctx, tx, donationID)
		if err != nil {
			return err
		}

		if donation.Status != domain.DonationAccepted ||
			donation.CompletionPercentage != domain.CompletionForStatus(domain.DonationAccepted) {
			return &apperrors.InvalidTransitionError{
				Entity: "donation",
				From:   string(donation.Status),
				To:     string(domain.DonationDelivered),
			}
		}

		if donation.MatchedNGOID == nil || *donation.MatchedNGOID != ngoID {
			return fmt.Errorf("%w: donation is matched to a different NGO", apperrors.ErrForbidden)
		}

		upd := domain.DonationUpdate{
			Status:               domain.DonationDelivered,
			CompletionPercentage: domain.CompletionForStatus(domain.DonationDelivered),
			TimelineNote:         "Delivery confirmed by NGO",
		}
		if err := s.donationCmd.ApplyUpdate(ctx, tx, donationID, upd, now); err != nil {
			return err
		}

		n := newNotification(donation.DonorID, domain.NotificationDeliveryCompleted,
			"Delivery Completed",
			"Your donation has been delivered",
			&donation.ID, &ngoID)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	log.Info("donation delivered")

	donation.Status = domain.DonationDelivered
	donation.CompletionPercentage = domain.CompletionForStatus(domain.DonationDelivered)
	donation.Timeline = append(donation.Timeline, domain.TimelineEntry{
		Status:    string(domain.DonationDelivered),
		Timestamp: now,
		Note:      "Delivery confirmed by NGO",
	})
	donation.UpdatedAt = now

	return donation, nil
}

func (s *DonationServiceImpl) CancelDonation(ctx context.Context, donationID, actorID, reason string) (*domain.Donation, error) {
	const op = "internal.service.donation.CancelDonation"
	log := s.log.With(slog.String("op", op), slog.String("donation_id", donationID), slog.String("actor_id", actorID))

	var donation *domain.Donation

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		donation, err = s.donationCmd.GetDonationByIDWithLock(ctx, tx, donationID)
		if err != nil {
			return err
		}

		if donation.Status.Terminal() {
			return &apperrors.InvalidTransitionError{
				Entity: "donation",
				From:   string(donation.Status),
				To:     string(domain.DonationCancelled),
			}
		}

		isOwner := donation.DonorID == actorID
		isMatchedNGO := donation.MatchedNGOID != nil && *donation.MatchedNGOID == actorID

		if !isOwner && !isMatchedNGO {
			return fmt.Errorf("%w: only the donor or the matched NGO can cancel", apperrors.ErrForbidden)
		}

		upd := domain.DonationUpdate{
			Status:               domain.DonationCancelled,
			CompletionPercentage: domain.CompletionForStatus(domain.DonationCancelled),
			CancellationReason:   &reason,
			TimelineNote:         "Donation cancelled",
		}
		if err := s.donationCmd.ApplyUpdate(ctx, tx, donationID, upd, now); err != nil {
			return err
		}

		// An open task dies with its donation so the volunteer cannot keep
		// driving a cancelled delivery.
		task, err := s.taskCmd.GetTaskByDonationIDWithLock(ctx, tx, donationID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}

			return err
		}

		if task.Status.Terminal() {
			return nil
		}

		taskUpd := domain.TaskUpdate{Status: domain.TaskCancelled}
		if err := s.taskCmd.ApplyUpdate(ctx, tx, task.ID, taskUpd, now); err != nil {
			return err
		}

		n := newNotification(task.VolunteerID, domain.NotificationTaskCancelled,
			"Task Cancelled",
			"The donation for your delivery task has been cancelled",
			&donationID, nil)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	log.Info("donation cancelled")

	donation.Status = domain.DonationCancelled
	donation.CompletionPercentage = domain.CompletionForStatus(domain.DonationCancelled)
	donation.CancellationReason = &reason
	donation.Timeline = append(donation.Timeline, domain.TimelineEntry{
		Status:    string(domain.DonationCancelled),
		Timestamp: now,
		Note:      "Donation cancelled",
	})
	donation.UpdatedAt = now

	return donation, nil
}

func (s *DonationServiceImpl) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	const op = "internal.service.donation.GetDonation"

	donation, err := s.donationQuery.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return donation, nil
}

func (s *DonationServiceImpl) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	const op = "internal.service.donation.ListByDonor"

	donations, err := s.donationQuery.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return donations, nil
}

func (s *DonationServiceImpl) ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	const op = "internal.service.donation.ListByNGO"

	donations, err := s.donationQuery.ListByNGO(ctx, ngoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return donations, nil
}

func (s *DonationServiceImpl) ListAvailable(ctx context.Context) ([]domain.Donation, error) {
	const op = "internal.service.donation.ListAvailable"

	donations, err := s.donationQuery.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return donations, nil
}

func validateDonationInput(food domain.FoodDetails, loc domain.Location) error {
	var missing []string

	if food.Category == "" {
		missing = append(missing, "food.category")
	}

	if food.Name == "" {
		missing = append(missing, "food.name")
	}

	if food.Quantity <= 0 {
		missing = append(missing, "food.quantity")
	}

	if food.Unit == "" {
		missing = append(missing, "food.unit")
	}

	if food.ExpiryTime.IsZero() {
		missing = append(missing, "food.expiry_time")
	}

	if loc.Address == "" {
		missing = append(missing, "location.address")
	}

	if loc.City == "" {
		missing = append(missing, "location.city")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %v", apperrors.ErrValidation, missing)
	}

	return nil
}
