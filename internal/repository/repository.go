// Package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer.
package repository

import (
	"context"
	"time"

	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// DonationQueryRepository defines read-only donation operations.
type DonationQueryRepository interface {
	// GetDonationByID retrieves a single donation.
	// Returns apperrors.ErrNotFound if the donation is absent.
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListByDonor retrieves all donations owned by a donor, newest first.
	ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error)

	// ListByNGO retrieves all donations matched to an NGO, newest first.
	ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error)

	// ListAvailable retrieves all donations still in status pending.
	ListAvailable(ctx context.Context) ([]domain.Donation, error)
}

// DonationCommandRepository defines write and locking operations on
// donations. All methods are expected to run within a transaction.
type DonationCommandRepository interface {
	// CreateDonation inserts a new donation and fills in the allocated
	// human-readable reference (DN-YYYYMMDD-NNNN) on the passed struct.
	CreateDonation(ctx context.Context, tx *sqlx.Tx, d *domain.Donation) error

	// GetDonationByIDWithLock retrieves a donation and acquires a row-level
	// lock ("FOR UPDATE") so concurrent transitions serialize on the record.
	// Returns apperrors.ErrNotFound if the donation is absent.
	GetDonationByIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.Donation, error)

	// ApplyUpdate writes one transition: status, the derived completion
	// percentage, the optional reference fields, and a timeline append, as a
	// single statement.
	ApplyUpdate(ctx context.Context, tx *sqlx.Tx, donationID string, upd domain.DonationUpdate, at time.Time) error
}

// TaskQueryRepository defines read-only volunteer task operations.
type TaskQueryRepository interface {
	// GetTaskByID retrieves a single task.
	// Returns apperrors.ErrNotFound if the task is absent.
	GetTaskByID(ctx context.Context, taskID string) (*domain.VolunteerTask, error)

	// ListByVolunteer retrieves all tasks currently owned by a volunteer.
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error)

	// ListAvailable retrieves all tasks in status assigned.
	ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error)
}

// TaskCommandRepository defines write and locking operations on tasks.
type TaskCommandRepository interface {
	// CreateTask inserts a new task and fills in the allocated reference
	// (TK-NNNNNN) on the passed struct. A donation has at most one task;
	// a second insert for the same donation fails with ErrAlreadyExists.
	CreateTask(ctx context.Context, tx *sqlx.Tx, t *domain.VolunteerTask) error

	// GetTaskByIDWithLock retrieves a task under a row-level lock.
	// Returns apperrors.ErrNotFound if the task is absent.
	GetTaskByIDWithLock(ctx context.Context, tx *sqlx.Tx, taskID string) (*domain.VolunteerTask, error)

	// GetTaskByDonationIDWithLock retrieves the task attached to a donation
	// under a row-level lock. Returns apperrors.ErrNotFound when the donation
	// has no task.
	GetTaskByDonationIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.VolunteerTask, error)

	// ApplyUpdate writes one task transition.
	ApplyUpdate(ctx context.Context, tx *sqlx.Tx, taskID string, upd domain.TaskUpdate, at time.Time) error
}

// UserRepository defines the user directory consumed by the lifecycle engine
// and the rating aggregator.
type UserRepository interface {
	// GetUserByID returns a user. The ext argument allows execution within a
	// transaction (*sqlx.Tx) or directly on the DB connection (*sqlx.DB).
	// Returns apperrors.ErrNotFound if the user is absent.
	GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID string) (*domain.User, error)

	// GetUserByIDWithLock returns a user under a row-level lock; used by the
	// rating aggregator to serialize donor profile updates.
	GetUserByIDWithLock(ctx context.Context, tx *sqlx.Tx, userID string) (*domain.User, error)

	// FindAvailableVolunteer selects the first verified, active volunteer in
	// deterministic order (created_at, then id), excluding the given ids. The
	// selected row is claimed with FOR UPDATE SKIP LOCKED so two concurrent
	// assignments cannot pick the same volunteer.
	// Returns apperrors.ErrNotFound when the candidate pool is empty.
	FindAvailableVolunteer(ctx context.Context, tx *sqlx.Tx, excludeIDs []string) (*domain.User, error)

	// ListVerifiedByRole returns all verified, active users with the role.
	ListVerifiedByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// ListPending returns all users awaiting verification.
	ListPending(ctx context.Context) ([]domain.User, error)

	// SetVerified flips the verification flag.
	// Returns apperrors.ErrNotFound if the user is absent.
	SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error)

	// SetActive flips the active flag.
	// Returns apperrors.ErrNotFound if the user is absent.
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)

	// UpdateDonorRating writes the donor's running aggregate. Must run in the
	// same transaction as the rating insert.
	UpdateDonorRating(ctx context.Context, tx *sqlx.Tx, donorID string, rating float64, totalRatings int) error
}

// RatingRepository stores append-only rating records.
type RatingRepository interface {
	// CreateRating inserts a rating. Returns apperrors.AlreadyRatedError if
	// the rater already rated this donation.
	CreateRating(ctx context.Context, tx *sqlx.Tx, r *domain.Rating) error

	// ListByDonation returns all ratings attached to a donation.
	ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error)
}

// NotificationRepository stores the logical events lifecycle transitions
// emit. Writes happen inside the transition's transaction.
type NotificationRepository interface {
	// Create inserts a notification record.
	Create(ctx context.Context, ext sqlx.ExtContext, n *domain.Notification) error

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkAsRead marks a notification read. Idempotent: marking an already
	// read notification succeeds. Returns apperrors.ErrNotFound only when the
	// id does not exist.
	MarkAsRead(ctx context.Context, notificationID string) error
}
