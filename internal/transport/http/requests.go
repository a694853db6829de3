package http

import "time"

type createDonationRequest struct {
	DonorID string `json:"donor_id" validate:"required,custom_id,min=1,max=100"`
	Food    struct {
		Category     string    `json:"category" validate:"required,min=2,max=50"`
		Name         string    `json:"name" validate:"required,min=2,max=255"`
		Quantity     float64   `json:"quantity" validate:"required,gt=0"`
		Unit         string    `json:"unit" validate:"required,min=1,max=20"`
		ExpiryTime   time.Time `json:"expiry_time" validate:"required"`
		DietaryInfo  []string  `json:"dietary_info"`
		Instructions string    `json:"instructions" validate:"max=1000"`
	} `json:"food" validate:"required"`
	Location struct {
		Address   string  `json:"address" validate:"required,min=5,max=255"`
		City      string  `json:"city" validate:"required,min=2,max=100"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location" validate:"required"`
}

type acceptDonationRequest struct {
	NGOID string `json:"ngo_id" validate:"required,custom_id,min=1,max=100"`
}

type cancelDonationRequest struct {
	ActorID string `json:"actor_id" validate:"required,custom_id,min=1,max=100"`
	Reason  string `json:"reason" validate:"required,min=3,max=500"`
}

type taskActionRequest struct {
	VolunteerID string `json:"volunteer_id" validate:"required,custom_id,min=1,max=100"`
}

type submitRatingRequest struct {
	DonationID string `json:"donation_id" validate:"required,custom_id,min=1,max=100"`
	RatedBy    string `json:"rated_by" validate:"required,custom_id,min=1,max=100"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
}

type setUserVerifiedRequest struct {
	IsVerified bool `json:"is_verified"`
}

type setUserActiveRequest struct {
	UserID   string `json:"user_id" validate:"required,custom_id,min=1,max=100"`
	IsActive bool   `json:"is_active"`
}
