package postgres

import (
	"context"
	"database/sql"
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

var taskColumns = []string{
	"id", "task_ref", "donation_id", "volunteer_id", "donor_id", "ngo_id",
	"pickup_address", "pickup_latitude", "pickup_longitude",
	"delivery_address", "delivery_latitude", "delivery_longitude",
	"distance_km", "estimated_time", "status",
	"pickup_time", "delivery_time", "created_at", "updated_at",
}

type TaskRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTaskRepository(db *sqlx.DB, log *slog.Logger) *TaskRepository {
	return &TaskRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TaskRepository) CreateTask(ctx context.Context, tx *sqlx.Tx, t *domain.VolunteerTask) error {
	const op = "internal.repository.postgres.CreateTask"

	query, args, err := r.sq.Insert("volunteer_tasks").
		Columns(
			"id", "task_ref", "donation_id", "volunteer_id", "donor_id", "ngo_id",
			"pickup_address", "pickup_latitude", "pickup_longitude",
			"delivery_address", "delivery_latitude", "delivery_longitude",
			"distance_km", "estimated_time", "status", "created_at", "updated_at",
		).
		Values(
			t.ID,
			sq.Expr("'TK-' || lpad(nextval('task_ref_seq')::text, 6, '0')"),
			t.DonationID, t.VolunteerID, t.DonorID, t.NGOID,
			t.PickupAddress, t.PickupLatitude, t.PickupLongitude,
			t.DeliveryAddress, t.DeliveryLat, t.DeliveryLon,
			t.DistanceKm, t.EstimatedTime, t.Status, t.CreatedAt, t.UpdatedAt,
		).
		Suffix("RETURNING task_ref").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&t.TaskRef); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("%s: %w: task for donation '%s'", op, apperrors.ErrAlreadyExists, t.DonationID)
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: donation with id '%s'", op, apperrors.ErrNotFound, t.DonationID)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, taskID string) (*domain.VolunteerTask, error) {
	const op = "internal.repository.postgres.GetTaskByID"

	return r.getTask(ctx, op, "id", taskID, false, nil)
}

func (r *TaskRepository) GetTaskByIDWithLock(ctx context.Context, tx *sqlx.Tx, taskID string) (*domain.VolunteerTask, error) {
	const op = "internal.repository.postgres.GetTaskByIDWithLock"

	return r.getTask(ctx, op, "id", taskID, true, tx)
}

// GetTaskByDonationIDWithLock relies on the unique donation_id column: a
// donation carries at most one task.
func (r *TaskRepository) GetTaskByDonationIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.VolunteerTask, error) {
	const op = "internal.repository.postgres.GetTaskByDonationIDWithLock"

	return r.getTask(ctx, op, "donation_id", donationID, true, tx)
}

func (r *TaskRepository) getTask(ctx context.Context, op, column, value string, lock bool, tx *sqlx.Tx) (*domain.VolunteerTask, error) {
	builder := r.sq.Select(taskColumns...).
		From("volunteer_tasks").
		Where(sq.Eq{column: value})

	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var t domain.VolunteerTask

	if lock {
		err = tx.GetContext(ctx, &t, query, args...)
	} else {
		err = r.db.GetContext(ctx, &t, query, args...)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: task with %s '%s'", op, apperrors.ErrNotFound, column, value)
		}

		return nil, fmt.Errorf("%s: failed to get task: %w", op, err)
	}

	return &t, nil
}

func (r *TaskRepository) ApplyUpdate(ctx context.Context, tx *sqlx.Tx, taskID string, upd domain.TaskUpdate, at time.Time) error {
	const op = "internal.repository.postgres.ApplyTaskUpdate"

	builder := r.sq.Update("volunteer_tasks").
		Set("status", upd.Status).
		Set("updated_at", at).
		Where(sq.Eq{"id": taskID})

	if upd.VolunteerID != nil {
		builder = builder.Set("volunteer_id", *upd.VolunteerID)
	}

	if upd.PickupTime != nil {
		builder = builder.Set("pickup_time", *upd.PickupTime)
	}

	if upd.DeliveryTime != nil {
		builder = builder.Set("delivery_time", *upd.DeliveryTime)
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
		return fmt.Errorf("%s: %w: task with id '%s'", op, apperrors.ErrNotFound, taskID)
	}

	return nil
}

func (r *TaskRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error) {
	const op = "internal.repository.postgres.ListTasksByVolunteer"

	return r.listTasks(ctx, op, sq.Eq{"volunteer_id": volunteerID})
}

func (r *TaskRepository) ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error) {
	const op = "internal.repository.postgres.ListAvailableTasks"

	return r.listTasks(ctx, op, sq.Eq{"status": domain.TaskAssigned})
}

func (r *TaskRepository) listTasks(ctx context.Context, op string, where sq.Eq) ([]domain.VolunteerTask, error) {
	query, args, err := r.sq.Select(taskColumns...).
		From("volunteer_tasks").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var tasks []domain.VolunteerTask
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.VolunteerTask{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return tasks, nil
}
