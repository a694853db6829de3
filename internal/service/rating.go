package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	ratingMin = 1
	ratingMax = 5
)

type RatingService interface {
	SubmitRating(ctx context.Context, donationID, raterID string, value int, comment string) (*domain.Rating, error)
	ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error)
}

type RatingServiceImpl struct {
	BaseService
	ratings       repository.RatingRepository
	donationCmd   repository.DonationCommandRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewRatingService(
	db Transactor,
	log *slog.Logger,
	ratings repository.RatingRepository,
	donationCmd repository.DonationCommandRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
) *RatingServiceImpl {
	return &RatingServiceImpl{
		BaseService:   NewBaseService(db, log),
		ratings:       ratings,
		donationCmd:   donationCmd,
		users:         users,
		notifications: notifications,
	}
}

func (s *RatingServiceImpl) SubmitRating(ctx context.Context, donationID, raterID string, value int, comment string) (*domain.Rating, error) {
	const op = "internal.service.rating.SubmitRating"
	log := s.log.With(slog.String("op", op), slog.String("donation_id", donationID), slog.String("rater_id", raterID))

	if value < ratingMin || value > ratingMax {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, ratingMin, ratingMax)
	}

	var rating *domain.Rating

	now := time.Now().UTC()

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		donation, err := s.donationCmd.GetDonationByIDWithLock(ctx, tx, donationID)
		if err != nil {
			return err
		}

		if donation.Status != domain.DonationDelivered {
			return fmt.Errorf("%w: only a delivered donation can be rated", apperrors.ErrInvalidState)
		}

		if donation.MatchedNGOID == nil || *donation.MatchedNGOID != raterID {
			return fmt.Errorf("%w: only the matched NGO can rate this donation", apperrors.ErrForbidden)
		}

		rater, err := s.users.GetUserByID(ctx, tx, raterID)
		if err != nil {
			return err
		}

		ratedType := domain.RatedTypeNGO
		if rater.Role == domain.RoleVolunteer {
			ratedType = domain.RatedTypeVolunteer
		}

		rating = &domain.Rating{
			ID:         uuid.NewString(),
			DonationID: donationID,
			RatedBy:    raterID,
			RatedTo:    donation.DonorID,
			RatedType:  ratedType,
			Rating:     value,
			Comment:    comment,
			CreatedAt:  now,
		}
		if err := s.ratings.CreateRating(ctx, tx, rating); err != nil {
			return err
		}

		donor, err := s.users.GetUserByIDWithLock(ctx, tx, donation.DonorID)
		if err != nil {
			return err
		}

		// Incremental mean over all ratings the donor has received. The
		// stored average keeps full precision, rounding happens at display.
		newCount := donor.DonorTotalRatings + 1
		newAvg := (donor.DonorRating*float64(donor.DonorTotalRatings) + float64(value)) / float64(newCount)

		if err := s.users.UpdateDonorRating(ctx, tx, donor.ID, newAvg, newCount); err != nil {
			return err
		}

		n := newNotification(donation.DonorID, domain.NotificationDonationRated,
			"Donation Rated",
			fmt.Sprintf("Your donation received a %d-star rating", value),
			&donationID, &raterID)

		return s.notifications.Create(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}

	log.Info("rating submitted", slog.Int("rating", value))

	return rating, nil
}

func (s *RatingServiceImpl) ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error) {
	const op = "internal.service.rating.ListByDonation"

	ratings, err := s.ratings.ListByDonation(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ratings, nil
}
