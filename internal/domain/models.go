package domain

import (
	"time"
)

type Role string

const (
	RoleDonor     Role = "donor"
	RoleNGO       Role = "ngo"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID                string    `db:"id"`
	FullName          string    `db:"full_name"`
	Email             string    `db:"email"`
	Role              Role      `db:"role"`
	Phone             string    `db:"phone"`
	IsVerified        bool      `db:"is_verified"`
	IsActive          bool      `db:"is_active"`
	DonorRating       float64   `db:"donor_rating"`
	DonorTotalRatings int       `db:"donor_total_ratings"`
	CreatedAt         time.Time `db:"created_at"`
}

// FoodDetails is informational only: the lifecycle engine reads ExpiryTime
// once at creation to classify urgency and never looks at it again.
type FoodDetails struct {
	Category     string
	Name         string
	Quantity     float64
	Unit         string
	ExpiryTime   time.Time
	DietaryInfo  []string
	Instructions string
}

type Location struct {
	Address   string
	City      string
	Latitude  float64
	Longitude float64
}

type Donation struct {
	ID                   string         `db:"id"`
	DonationRef          string         `db:"donation_ref"`
	DonorID              string         `db:"donor_id"`
	FoodCategory         string         `db:"food_category"`
	FoodName             string         `db:"food_name"`
	Quantity             float64        `db:"quantity"`
	Unit                 string         `db:"unit"`
	ExpiryTime           time.Time      `db:"expiry_time"`
	DietaryInfo          StringList     `db:"dietary_info"`
	Instructions         string         `db:"instructions"`
	Address              string         `db:"address"`
	City                 string         `db:"city"`
	Latitude             float64        `db:"latitude"`
	Longitude            float64        `db:"longitude"`
	Urgency              Urgency        `db:"urgency"`
	Status               DonationStatus `db:"status"`
	CompletionPercentage int            `db:"completion_percentage"`
	MatchedNGOID         *string        `db:"matched_ngo_id"`
	AssignedVolunteerID  *string        `db:"assigned_volunteer_id"`
	CancellationReason   *string        `db:"cancellation_reason"`
	Timeline             Timeline       `db:"timeline"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type VolunteerTask struct {
	ID              string     `db:"id"`
	TaskRef         string     `db:"task_ref"`
	DonationID      string     `db:"donation_id"`
	VolunteerID     string     `db:"volunteer_id"`
	DonorID         string     `db:"donor_id"`
	NGOID           string     `db:"ngo_id"`
	PickupAddress   string     `db:"pickup_address"`
	PickupLatitude  float64    `db:"pickup_latitude"`
	PickupLongitude float64    `db:"pickup_longitude"`
	DeliveryAddress string     `db:"delivery_address"`
	DeliveryLat     float64    `db:"delivery_latitude"`
	DeliveryLon     float64    `db:"delivery_longitude"`
	DistanceKm      float64    `db:"distance_km"`
	EstimatedTime   int        `db:"estimated_time"`
	Status          TaskStatus `db:"status"`
	PickupTime      *time.Time `db:"pickup_time"`
	DeliveryTime    *time.Time `db:"delivery_time"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type RatedType string

const (
	RatedTypeNGO       RatedType = "ngo"
	RatedTypeVolunteer RatedType = "volunteer"
)

type Rating struct {
	ID         string    `db:"id"`
	DonationID string    `db:"donation_id"`
	RatedBy    string    `db:"rated_by"`
	RatedTo    string    `db:"rated_to"`
	RatedType  RatedType `db:"rated_type"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

// Notification types emitted by lifecycle transitions.
const (
	NotificationNewDonation       = "new_donation"
	NotificationDonationAccepted  = "donation_accepted"
	NotificationTaskAssigned      = "task_assigned"
	NotificationTaskAccepted      = "task_accepted"
	NotificationTaskCancelled     = "task_cancelled"
	NotificationDeliveryCompleted = "delivery_completed"
	NotificationDonationRated     = "donation_rated"
	NotificationAccountVerified   = "account_verified"
)

type Notification struct {
	ID                string    `db:"id"`
	RecipientID       string    `db:"recipient_id"`
	Type              string    `db:"type"`
	Title             string    `db:"title"`
	Message           string    `db:"message"`
	RelatedDonationID *string   `db:"related_donation_id"`
	RelatedUserID     *string   `db:"related_user_id"`
	IsRead            bool      `db:"is_read"`
	CreatedAt         time.Time `db:"created_at"`
}

// DonationUpdate carries the mutable fields a single lifecycle transition is
// allowed to touch. Nil pointers mean "leave as is".
type DonationUpdate struct {
	Status               DonationStatus
	CompletionPercentage int
	MatchedNGOID         *string
	AssignedVolunteerID  *string
	CancellationReason   *string
	TimelineNote         string
}

// TaskUpdate mirrors DonationUpdate for volunteer tasks.
type TaskUpdate struct {
	Status       TaskStatus
	VolunteerID  *string
	PickupTime   *time.Time
	DeliveryTime *time.Time
}
