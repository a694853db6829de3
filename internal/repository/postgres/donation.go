package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var donationColumns = []string{
	"id", "donation_ref", "donor_id",
	"food_category", "food_name", "quantity", "unit", "expiry_time",
	"dietary_info", "instructions",
	"address", "city", "latitude", "longitude",
	"urgency", "status", "completion_percentage",
	"matched_ngo_id", "assigned_volunteer_id", "cancellation_reason",
	"timeline", "created_at", "updated_at",
}

type DonationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewDonationRepository(db *sqlx.DB, log *slog.Logger) *DonationRepository {
	return &DonationRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *DonationRepository) CreateDonation(ctx context.Context, tx *sqlx.Tx, d *domain.Donation) error {
	const op = "internal.repository.postgres.CreateDonation"

	query, args, err := r.sq.Insert("donations").
		Columns(
			"id", "donation_ref", "donor_id",
			"food_category", "food_name", "quantity", "unit", "expiry_time",
			"dietary_info", "instructions",
			"address", "city", "latitude", "longitude",
			"urgency", "status", "completion_percentage",
			"timeline", "created_at", "updated_at",
		).
		Values(
			d.ID,
			sq.Expr("'DN-' || to_char(now(), 'YYYYMMDD') || '-' || lpad(nextval('donation_ref_seq')::text, 4, '0')"),
			d.DonorID,
			d.FoodCategory, d.FoodName, d.Quantity, d.Unit, d.ExpiryTime,
			d.DietaryInfo, d.Instructions,
			d.Address, d.City, d.Latitude, d.Longitude,
			d.Urgency, d.Status, d.CompletionPercentage,
			d.Timeline, d.CreatedAt, d.UpdatedAt,
		).
		Suffix("RETURNING donation_ref").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&d.DonationRef); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%s: %w: donor with id '%s'", op, apperrors.ErrNotFound, d.DonorID)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *DonationRepository) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	const op = "internal.repository.postgres.GetDonationByID"

	return r.getDonation(ctx, op, donationID, false, nil)
}

func (r *DonationRepository) GetDonationByIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.Donation, error) {
	const op = "internal.repository.postgres.GetDonationByIDWithLock"

	return r.getDonation(ctx, op, donationID, true, tx)
}

func (r *DonationRepository) getDonation(ctx context.Context, op, donationID string, lock bool, tx *sqlx.Tx) (*domain.Donation, error) {
	builder := r.sq.Select(donationColumns...).
		From("donations").
		Where(sq.Eq{"id": donationID})

	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var d domain.Donation

	if lock {
		err = tx.GetContext(ctx, &d, query, args...)
	} else {
		err = r.db.GetContext(ctx, &d, query, args...)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: donation with id '%s'", op, apperrors.ErrNotFound, donationID)
		}

		return nil, fmt.Errorf("%s: failed to get donation: %w", op, err)
	}

	return &d, nil
}

// ApplyUpdate writes a transition as one statement so status, completion and
// the timeline append stay consistent. The timeline entry is only appended
// when the update carries a note: updates that do not change status (for
// example volunteer reassignment) leave the timeline alone.
func (r *DonationRepository) ApplyUpdate(ctx context.Context, tx *sqlx.Tx, donationID string, upd domain.DonationUpdate, at time.Time) error {
	const op = "internal.repository.postgres.ApplyDonationUpdate"

	builder := r.sq.Update("donations").
		Set("status", upd.Status).
		Set("completion_percentage", upd.CompletionPercentage).
		Set("updated_at", at).
		Where(sq.Eq{"id": donationID})

	if upd.TimelineNote != "" {
		entry, err := json.Marshal(domain.TimelineEntry{
			Status:    string(upd.Status),
			Timestamp: at,
			Note:      upd.TimelineNote,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to marshal timeline entry: %w", op, err)
		}

		builder = builder.Set("timeline", sq.Expr("timeline || ?::jsonb", string(entry)))
	}

	if upd.MatchedNGOID != nil {
		builder = builder.Set("matched_ngo_id", *upd.MatchedNGOID)
	}

	if upd.AssignedVolunteerID != nil {
		builder = builder.Set("assigned_volunteer_id", *upd.AssignedVolunteerID)
	}

	if upd.CancellationReason != nil {
		builder = builder.Set("cancellation_reason", *upd.CancellationReason)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: donation with id '%s'", op, apperrors.ErrNotFound, donationID)
	}

	return nil
}

func (r *DonationRepository) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	const op = "internal.repository.postgres.ListDonationsByDonor"

	return r.listDonations(ctx, op, sq.Eq{"donor_id": donorID})
}

func (r *DonationRepository) ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	const op = "internal.repository.postgres.ListDonationsByNGO"

	return r.listDonations(ctx, op, sq.Eq{"matched_ngo_id": ngoID})
}

func (r *DonationRepository) ListAvailable(ctx context.Context) ([]domain.Donation, error) {
	const op = "internal.repository.postgres.ListAvailableDonations"

	return r.listDonations(ctx, op, sq.Eq{"status": domain.DonationPending})
}

func (r *DonationRepository) listDonations(ctx context.Context, op string, where sq.Eq) ([]domain.Donation, error) {
	query, args, err := r.sq.Select(donationColumns...).
		From("donations").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var donations []domain.Donation
	if err := r.db.SelectContext(ctx, &donations, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Donation{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return donations, nil
}
