package domain

import "github.com/suchimauz/availability-booking-engine/internal/core/json_types"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type SelectedActivity string

const (
	SelectedActivityCoffee   SelectedActivity = "coffee"
	SelectedActivityLunch    SelectedActivity = "lunch"
	SelectedActivityDinner   SelectedActivity = "dinner"
	SelectedActivityDrinks   SelectedActivity = "drinks"
	SelectedActivityMovie    SelectedActivity = "movie"
	SelectedActivityWalk     SelectedActivity = "walk"
	SelectedActivityActivity SelectedActivity = "activity"
	SelectedActivityCasual   SelectedActivity = "casual"
	SelectedActivityFormal   SelectedActivity = "formal"
)

// BookedByUser - денормализованная карточка пользователя, который забронировал слот
type BookedByUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type AvailabilityBooking struct {
	ID                 int64                      `json:"id"`
	AvailabilityID     int64                      `json:"availabilityId"`
	BookedByUserID     int64                      `json:"bookedByUserId"`
	BookedByUser       BookedByUser               `json:"bookedByUser"`
	BookingStatus      BookingStatus              `json:"bookingStatus"`
	SelectedActivity   SelectedActivity           `json:"selectedActivity"`
	BookingNotes       string                     `json:"bookingNotes,omitempty"`
	CancellationReason string                     `json:"cancellationReason,omitempty"`
	ConfirmedAt        json_types.DateTimeOrEmpty `json:"confirmedAt"`
	CancelledAt        json_types.DateTimeOrEmpty `json:"cancelledAt"`
	CreatedAt          json_types.DateTimeOrEmpty `json:"createdAt"`
	UpdatedAt          json_types.DateTimeOrEmpty `json:"updatedAt"`
}

func (b AvailabilityBooking) IsActive() bool {
	return b.BookingStatus != BookingStatusCancelled
}

type RawBookedByUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type RawBooking struct {
	ID                 int64                      `json:"id"`
	AvailabilityID     int64                      `json:"availabilityId"`
	BookedByUserID     int64                      `json:"bookedByUserId"`
	BookedByUser       *RawBookedByUser           `json:"bookedByUser"`
	BookingStatus      BookingStatus              `json:"bookingStatus"`
	SelectedActivity   SelectedActivity           `json:"selectedActivity"`
	BookingNotes       string                     `json:"bookingNotes"`
	CancellationReason string                     `json:"cancellationReason"`
	ConfirmedAt        json_types.DateTimeOrEmpty `json:"confirmedAt"`
	CancelledAt        json_types.DateTimeOrEmpty `json:"cancelledAt"`
	CreatedAt          json_types.DateTimeOrEmpty `json:"createdAt"`
	UpdatedAt          json_types.DateTimeOrEmpty `json:"updatedAt"`
}
