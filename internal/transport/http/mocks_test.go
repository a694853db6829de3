package http

import (
	"context"

	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type DonationServiceMock struct {
	mock.Mock
}

var _ service.DonationService = (*DonationServiceMock)(nil)

func (m *DonationServiceMock) CreateDonation(ctx context.Context, donorID string, food domain.FoodDetails, loc domain.Location) (*domain.Donation, error) {
	args := m.Called(ctx, donorID, food, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) AcceptDonation(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) AcceptRide(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) MarkDonationDelivered(ctx context.Context, donationID, ngoID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) CancelDonation(ctx context.Context, donationID, actorID, reason string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) ListByNGO(ctx context.Context, ngoID string) ([]domain.Donation, error) {
	args := m.Called(ctx, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *DonationServiceMock) ListAvailable(ctx context.Context) ([]domain.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donation), args.Error(1)
}

type TaskServiceMock struct {
	mock.Mock
}

var _ service.TaskService = (*TaskServiceMock)(nil)

func (m *TaskServiceMock) AcceptTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskServiceMock) RejectTask(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskServiceMock) MarkTaskDelivered(ctx context.Context, taskID, volunteerID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, taskID, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskServiceMock) GetTask(ctx context.Context, taskID string) (*domain.VolunteerTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.VolunteerTask), args.Error(1)
}

func (m *TaskServiceMock) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerTask, error) {
	args := m.Called(ctx, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.VolunteerTask), args.Error(1)
}

func (m *TaskServiceMock) ListAvailable(ctx context.Context) ([]domain.VolunteerTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.VolunteerTask), args.Error(1)
}

type RatingServiceMock struct {
	mock.Mock
}

var _ service.RatingService = (*RatingServiceMock)(nil)

func (m *RatingServiceMock) SubmitRating(ctx context.Context, donationID, raterID string, value int, comment string) (*domain.Rating, error) {
	args := m.Called(ctx, donationID, raterID, value, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *RatingServiceMock) ListByDonation(ctx context.Context, donationID string) ([]domain.Rating, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Rating), args.Error(1)
}

type UserServiceMock struct {
	mock.Mock
}

var _ service.UserService = (*UserServiceMock)(nil)

func (m *UserServiceMock) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) GetPendingUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserServiceMock) SetVerified(ctx context.Context, userID string, verified bool) (*domain.User, error) {
	args := m.Called(ctx, userID, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	args := m.Called(ctx, userID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

var _ service.NotificationService = (*NotificationServiceMock)(nil)

func (m *NotificationServiceMock) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationServiceMock) MarkAsRead(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}
