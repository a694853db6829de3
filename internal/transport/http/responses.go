package http

import (
	"math"
	"time"

	"github.com/foodrescue/coordination-service/internal/domain"
)

type donationResponse struct {
	ID                   string                 `json:"id"`
	DonationRef          string                 `json:"donation_ref"`
	DonorID              string                 `json:"donor_id"`
	Food                 foodResponse           `json:"food"`
	Location             locationResponse       `json:"location"`
	Urgency              string                 `json:"urgency"`
	Status               string                 `json:"status"`
	CompletionPercentage int                    `json:"completion_percentage"`
	MatchedNGOID         *string                `json:"matched_ngo_id,omitempty"`
	AssignedVolunteerID  *string                `json:"assigned_volunteer_id,omitempty"`
	CancellationReason   *string                `json:"cancellation_reason,omitempty"`
	Timeline             []timelineEntryPayload `json:"timeline"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

type foodResponse struct {
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	ExpiryTime   time.Time `json:"expiry_time"`
	DietaryInfo  []string  `json:"dietary_info,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

type locationResponse struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type timelineEntryPayload struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

func toDonationResponse(d *domain.Donation) donationResponse {
	timeline := make([]timelineEntryPayload, len(d.Timeline))
	for i, e := range d.Timeline {
		timeline[i] = timelineEntryPayload{
			Status:    e.Status,
			Timestamp: e.Timestamp,
			Note:      e.Note,
		}
	}

	return donationResponse{
		ID:          d.ID,
		DonationRef: d.DonationRef,
		DonorID:     d.DonorID,
		Food: foodResponse{
			Category:     d.FoodCategory,
			Name:         d.FoodName,
			Quantity:     d.Quantity,
			Unit:         d.Unit,
			ExpiryTime:   d.ExpiryTime,
			DietaryInfo:  d.DietaryInfo,
			Instructions: d.Instructions,
		},
		Location: locationResponse{
			Address:   d.Address,
			City:      d.City,
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
		},
		Urgency:              string(d.Urgency),
		Status:               string(d.Status),
		CompletionPercentage: d.CompletionPercentage,
		MatchedNGOID:         d.MatchedNGOID,
		AssignedVolunteerID:  d.AssignedVolunteerID,
		CancellationReason:   d.CancellationReason,
		Timeline:             timeline,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func toDonationResponses(donations []domain.Donation) []donationResponse {
	out := make([]donationResponse, len(donations))
	for i := range donations {
		out[i] = toDonationResponse(&donations[i])
	}

	return out
}

type taskResponse struct {
	ID              string     `json:"id"`
	TaskRef         string     `json:"task_ref"`
	DonationID      string     `json:"donation_id"`
	VolunteerID     string     `json:"volunteer_id"`
	DonorID         string     `json:"donor_id"`
	NGOID           string     `json:"ngo_id"`
	PickupAddress   string     `json:"pickup_address"`
	PickupLatitude  float64    `json:"pickup_latitude"`
	PickupLongitude float64    `json:"pickup_longitude"`
	DeliveryAddress string     `json:"delivery_address"`
	DistanceKm      float64    `json:"distance_km"`
	EstimatedTime   int        `json:"estimated_time"`
	Status          string     `json:"status"`
	PickupTime      *time.Time `json:"pickup_time,omitempty"`
	DeliveryTime    *time.Time `json:"delivery_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toTaskResponse(t *domain.VolunteerTask) taskResponse {
	return taskResponse{
		ID:              t.ID,
		TaskRef:         t.TaskRef,
		DonationID:      t.DonationID,
		VolunteerID:     t.VolunteerID,
		DonorID:         t.DonorID,
		NGOID:           t.NGOID,
		PickupAddress:   t.PickupAddress,
		PickupLatitude:  t.PickupLatitude,
		PickupLongitude: t.PickupLongitude,
		DeliveryAddress: t.DeliveryAddress,
		DistanceKm:      t.DistanceKm,
		EstimatedTime:   t.EstimatedTime,
		Status:          string(t.Status),
		PickupTime:      t.PickupTime,
		DeliveryTime:    t.DeliveryTime,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toTaskResponses(tasks []domain.VolunteerTask) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}

	return out
}

type ratingResponse struct {
	ID         string    `json:"id"`
	DonationID string    `json:"donation_id"`
	RatedBy    string    `json:"rated_by"`
	RatedTo    string    `json:"rated_to"`
	RatedType  string    `json:"rated_type"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:         r.ID,
		DonationID: r.DonationID,
		RatedBy:    r.RatedBy,
		RatedTo:    r.RatedTo,
		RatedType:  string(r.RatedType),
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toRatingResponses(ratings []domain.Rating) []ratingResponse {
	out := make([]ratingResponse, len(ratings))
	for i := range ratings {
		out[i] = toRatingResponse(&ratings[i])
	}

	return out
}

type userResponse struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Phone             string    `json:"phone,omitempty"`
	IsVerified        bool      `json:"is_verified"`
	IsActive          bool      `json:"is_active"`
	DonorRating       float64   `json:"donor_rating"`
	DonorTotalRatings int       `json:"donor_total_ratings"`
	CreatedAt         time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       string(u.Role),
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		// The aggregate is stored at full precision, clients see one decimal.
		DonorRating:       math.Round(u.DonorRating*10) / 10,
		DonorTotalRatings: u.DonorTotalRatings,
		CreatedAt:         u.CreatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}

	return out
}

type notificationResponse struct {
	ID                string    `json:"id"`
	RecipientID       string    `json:"recipient_id"`
	Type              string    `json:"type"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	RelatedDonationID *string   `json:"related_donation_id,omitempty"`
	RelatedUserID     *string   `json:"related_user_id,omitempty"`
	IsRead            bool      `json:"is_read"`
	CreatedAt         time.Time `json:"created_at"`
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = notificationResponse{
			ID:                n.ID,
			RecipientID:       n.RecipientID,
			Type:              n.Type,
			Title:             n.Title,
			Message:           n.Message,
			RelatedDonationID: n.RelatedDonationID,
			RelatedUserID:     n.RelatedUserID,
			IsRead:            n.IsRead,
			CreatedAt:         n.CreatedAt,
		}
	}

	return out
}
