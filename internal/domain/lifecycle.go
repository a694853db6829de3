package domain

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationMatched   DonationStatus = "matched"
	DonationAccepted  DonationStatus = "accepted"
	DonationPickedUp  DonationStatus = "picked_up"
	DonationInTransit DonationStatus = "in_transit"
	DonationDelivered DonationStatus = "delivered"
	DonationCancelled DonationStatus = "cancelled"
)

type TaskStatus string

const (
	TaskAssigned  TaskStatus = "assigned"
	TaskAccepted  TaskStatus = "accepted"
	TaskPickedUp  TaskStatus = "picked_up"
	TaskInTransit TaskStatus = "in_transit"
	TaskDelivered TaskStatus = "delivered"
	TaskCancelled TaskStatus = "cancelled"
)

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// completionByStatus is the authoritative status -> completion mapping.
// completion_percentage must never be set except through this table.
var completionByStatus = map[DonationStatus]int{
	DonationPending:   0,
	DonationMatched:   50,
	DonationAccepted:  75,
	DonationPickedUp:  80,
	DonationInTransit: 90,
	DonationDelivered: 100,
	DonationCancelled: 0,
}

// CompletionForStatus derives the display progress for a donation status.
func CompletionForStatus(s DonationStatus) int {
	return completionByStatus[s]
}

// Terminal reports whether no further transition is legal from s.
func (s DonationStatus) Terminal() bool {
	return s == DonationDelivered || s == DonationCancelled
}

func (s TaskStatus) Terminal() bool {
	return s == TaskDelivered || s == TaskCancelled
}

var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending:   {DonationMatched, DonationCancelled},
	DonationMatched:   {DonationAccepted, DonationCancelled},
	DonationAccepted:  {DonationPickedUp, DonationInTransit, DonationDelivered, DonationCancelled},
	DonationPickedUp:  {DonationInTransit, DonationCancelled},
	DonationInTransit: {DonationDelivered, DonationCancelled},
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	// assigned -> assigned is the reject/reassign self-loop.
	TaskAssigned:  {TaskAssigned, TaskAccepted, TaskCancelled},
	TaskAccepted:  {TaskPickedUp, TaskInTransit, TaskDelivered, TaskCancelled},
	TaskPickedUp:  {TaskInTransit, TaskCancelled},
	TaskInTransit: {TaskDelivered, TaskCancelled},
}

// CanTransitionDonation reports whether from -> to is a legal donation move.
func CanTransitionDonation(from, to DonationStatus) bool {
	for _, next := range donationTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// CanTransitionTask reports whether from -> to is a legal task move.
func CanTransitionTask(from, to TaskStatus) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

const (
	urgencyHighHorizon   = 4 * time.Hour
	urgencyMediumHorizon = 12 * time.Hour
)

// UrgencyFor classifies a donation by its expiry horizon. It is computed once
// at creation and never recomputed.
func UrgencyFor(expiry, now time.Time) Urgency {
	until := expiry.Sub(now)

	switch {
	case until < urgencyHighHorizon:
		return UrgencyHigh
	case until < urgencyMediumHorizon:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
