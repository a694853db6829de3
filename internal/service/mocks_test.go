package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
}

var _ Transactor = (*TransactorMock)(nil)

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sqlx.Tx), args.Error(1)
}

type DonationCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.DonationCommandRepository = (*DonationCommandRepositoryMock)(nil)

func (m *DonationCommandRepositoryMock) CreateDonation(ctx context.Context, tx *sqlx.Tx, d *domain.Donation) error {
	args := m.Called(ctx, tx, d)
	return args.Error(0)
}

func (m *DonationCommandRepositoryMock) GetDonationByIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, tx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationCommandRepositoryMock) ApplyUpdate(ctx context.Context, tx *sqlx.Tx, donationID string, upd domain.DonationUpdate, at time.Time) error {
	args := m.Called(ctx, tx, donationID, upd, at)
	return args.Error(0)
}

type DonationQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.DonationQueryRepository = (*DonationQueryRepositoryMock)(nil)

func (m *DonationQueryRepositoryMock) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationQueryRepositoryMock) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *DonationQueryRepositoryMock) ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	args := m.Called(ctx, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *DonationQueryRepositoryMock) ListAvailable(ctx context.Context) ([]domain.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

type TaskCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.TaskCommandRepository = (*TaskCommandRepositoryMock)(nil)

func (m *TaskCommandRepositoryMock) CreateTask(ctx context.Context, tx *sqlx.Tx, task *domain.VolunteerTask) error {
	args := m.Called(ctx, tx, task)
	return args.Error(0)
}

func (m *TaskCommandRepositoryMock) GetTaskByIDWithLock(ctx context.Context, tx *sqlx.Tx, taskID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, tx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskCommandRepositoryMock) GetTaskByDonationIDWithLock(ctx context.Context, tx *sqlx.Tx, donationID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, tx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskCommandRepositoryMock) ApplyUpdate(ctx context.Context, tx *sqlx.Tx, taskID string, upd domain.TaskUpdate, at time.Time) error {
	args := m.Called(ctx, tx, taskID, upd, at)
	return args.Error(0)
}

type TaskQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.TaskQueryRepository = (*TaskQueryRepositoryMock)(nil)

func (m *TaskQueryRepositoryMock) GetTaskByID(ctx context.Context, taskID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskQueryRepositoryMock) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error) {
	args := m.Called(ctx, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.VolunteerTask), args.Error(1)
}

func (m *TaskQueryRepositoryMock) ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.VolunteerTask), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, ext sqlx.ExtContext, userID string) (*domain.User, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByIDWithLock(ctx context.Context, tx *sqlx.Tx, userID string) (*domain.User, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) FindAvailableVolunteer(ctx context.Context, tx *sqlx.Tx, excludeIDs []string) (*domain.User, error) {
	args := m.Called(ctx, tx, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) ListVerifiedByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepositoryMock) ListPending(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error) {
	args := m.Called(ctx, userID, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	args := m.Called(ctx, userID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateDonorRating(ctx context.Context, tx *sqlx.Tx, donorID string, rating float64, totalRatings int) error {
	args := m.Called(ctx, tx, donorID, rating, totalRatings)
	return args.Error(0)
}

type RatingRepositoryMock struct {
	mock.Mock
}

var _ repository.RatingRepository = (*RatingRepositoryMock)(nil)

func (m *RatingRepositoryMock) CreateRating(ctx context.Context, tx *sqlx.Tx, r *domain.Rating) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *RatingRepositoryMock) ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Rating), args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

var _ repository.NotificationRepository = (*NotificationRepositoryMock)(nil)

func (m *NotificationRepositoryMock) Create(ctx context.Context, ext sqlx.ExtContext, n *domain.Notification) error {
	args := m.Called(ctx, ext, n)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAsRead(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}
