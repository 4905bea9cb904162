package domain

import "time"

const DefaultNumberOfGuests = 2

// BookingStatus mirrors the backend's booking lifecycle labels.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// BookingDraft is the reservation form while a guest edits it. TotalAmount is
// always derived from the dates and the room's nightly rate.
type BookingDraft struct {
	RoomID          int64   `json:"roomId" validate:"required,gt=0"`
	GuestName       string  `json:"guestFullName" validate:"required"`
	GuestEmail      string  `json:"guestEmail" validate:"required,email"`
	CheckInDate     string  `json:"checkInDate" validate:"required"`
	CheckOutDate    string  `json:"checkOutDate" validate:"required"`
	NumberOfGuests  int     `json:"numberOfGuests" validate:"gte=0"`
	SpecialRequests string  `json:"specialRequests"`
	TotalAmount     float64 `json:"totalAmount"`
}

// Booking is a reservation as the backend reports it.
type Booking struct {
	ID               int64         `json:"id"`
	ConfirmationCode string        `json:"confirmationCode,omitempty"`
	RoomID           int64         `json:"roomId"`
	RoomNumber       string        `json:"roomNumber,omitempty"`
	RoomType         string        `json:"roomType,omitempty"`
	UserID           string        `json:"userId,omitempty"`
	GuestName        string        `json:"guestFullName,omitempty"`
	GuestEmail       string        `json:"guestEmail,omitempty"`
	CheckInDate      string        `json:"checkInDate"`
	CheckOutDate     string        `json:"checkOutDate"`
	NumberOfGuests   int           `json:"numberOfGuests,omitempty"`
	TotalAmount      float64       `json:"totalAmount"`
	SpecialRequests  string        `json:"specialRequests,omitempty"`
	Status           BookingStatus `json:"status,omitempty"`
}

// Room is a bookable room.
type Room struct {
	ID          int64   `json:"id"`
	RoomNumber  string  `json:"roomNumber"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity,omitempty"`
	Status      string  `json:"status,omitempty"`
	PhotoURL    string  `json:"photo,omitempty"`
}

// User is the profile of an account on the reservation backend.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// BookingReceipt is the local record kept for every confirmed booking.
type BookingReceipt struct {
	BookingID        int64     `json:"booking_id" bson:"booking_id"`
	ConfirmationCode string    `json:"confirmation_code,omitempty" bson:"confirmation_code,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	RoomID           int64     `json:"room_id" bson:"room_id"`
	GuestEmail       string    `json:"guest_email" bson:"guest_email"`
	CheckInDate      string    `json:"check_in_date" bson:"check_in_date"`
	CheckOutDate     string    `json:"check_out_date" bson:"check_out_date"`
	Nights           int       `json:"nights" bson:"nights"`
	TotalAmount      float64   `json:"total_amount" bson:"total_amount"`
	RecordedAt       time.Time `json:"recorded_at" bson:"recorded_at"`
}
