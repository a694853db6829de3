package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

var userColumns = []string{
	"id", "full_name", "email", "role", "phone",
	"is_verified", "is_active",
	"donor_rating", "donor_total_ratings", "created_at",
}

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepository) GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByID"

	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var u domain.User
	if err := sqlx.GetContext(ctx, ext, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &u, nil
}

func (r *UserRepository) GetUserByIDWithLock(ctx context.Context, tx *sqlx.Tx, userID string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByIDWithLock"

	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var u domain.User
	if err := tx.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to get user with lock: %w", op, err)
	}

	return &u, nil
}

// FindAvailableVolunteer claims the first free volunteer in deterministic
// order. SKIP LOCKED keeps two concurrent assignments from claiming the same
// row.
func (r *UserRepository) FindAvailableVolunteer(ctx context.Context, tx *sqlx.Tx, excludeIDs []string) (*domain.User, error) {
	const op = "internal.repository.postgres.FindAvailableVolunteer"

	builder := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"role": domain.RoleVolunteer, "is_verified": true, "is_active": true})

	if len(excludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeIDs})
	}

	query, args, err := builder.
		OrderBy("created_at", "id").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var u domain.User
	if err := tx.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: available volunteer", op, apperrors.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &u, nil
}

func (r *UserRepository) ListVerifiedByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	const op = "internal.repository.postgres.ListVerifiedByRole"

	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"role": role, "is_verified": true, "is_active": true}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return users, nil
}

func (r *UserRepository) ListPending(ctx context.Context) ([]domain.User, error) {
	const op = "internal.repository.postgres.ListPendingUsers"

	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"is_verified": false}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return users, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error) {
	const op = "internal.repository.postgres.SetVerified"

	return r.setFlag(ctx, op, userID, "is_verified", verified)
}

func (r *UserRepository) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	const op = "internal.repository.postgres.SetActive"

	return r.setFlag(ctx, op, userID, "is_active", active)
}

func (r *UserRepository) setFlag(ctx context.Context, op, userID, column string, value bool) (*domain.User, error) {
	query, args, err := r.sq.Update("users").
		Set(column, value).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var u domain.User
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &u, nil
}

func (r *UserRepository) UpdateDonorRating(ctx context.Context, tx *sqlx.Tx, donorID string, rating float64, totalRatings int) error {
	const op = "internal.repository.postgres.UpdateDonorRating"

	query, args, err := r.sq.Update("users").
		Set("donor_rating", rating).
		Set("donor_total_ratings", totalRatings).
		Where(sq.Eq{"id": donorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, donorID)
	}

	return nil
}
