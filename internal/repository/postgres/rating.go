package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type RatingRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRatingRepository(db *sqlx.DB, log *slog.Logger) *RatingRepository {
	return &RatingRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RatingRepository) CreateRating(ctx context.Context, tx *sqlx.Tx, rt *domain.Rating) error {
	const op = "internal.repository.postgres.CreateRating"

	query, args, err := r.sq.Insert("ratings").
		Columns("id", "donation_id", "rated_by", "rated_to", "rated_type", "rating", "comment", "created_at").
		Values(rt.ID, rt.DonationID, rt.RatedBy, rt.RatedTo, rt.RatedType, rt.Rating, rt.Comment, rt.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return &apperrors.AlreadyRatedError{DonationID: rt.DonationID, RatedBy: rt.RatedBy}
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: donation with id '%s'", op, apperrors.ErrNotFound, rt.DonationID)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *RatingRepository) ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error) {
	const op = "internal.repository.postgres.ListRatingsByDonation"

	query, args, err := r.sq.Select("id", "donation_id", "rated_by", "rated_to", "rated_type", "rating", "comment", "created_at").
		From("ratings").
		Where(sq.Eq{"donation_id": donationID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var ratings []domain.Rating
	if err := r.db.SelectContext(ctx, &ratings, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Rating{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return ratings, nil
}
