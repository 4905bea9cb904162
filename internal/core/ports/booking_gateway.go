package ports

import (
	"context"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// CreateBookingInput is the wire shape of POST /api/bookings.
type CreateBookingInput struct {
	RoomID          int64   `json:"roomId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	NumberOfGuests  int     `json:"numberOfGuests"`
	TotalAmount     float64 `json:"totalAmount"`
	SpecialRequests string  `json:"specialRequests"`
}

// BookingGateway submits and looks up reservations on the backend.
type BookingGateway interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
}

// BookingDirectory covers the read and cancel endpoints for bookings.
type BookingDirectory interface {
	BookingGateway
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	MyBookings(ctx context.Context) ([]domain.Booking, error)
	BookingByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) error
}

// AvailabilityQuery filters GET /api/rooms/available.
type AvailabilityQuery struct {
	CheckIn  string
	CheckOut string
	RoomType string
}

// RoomCatalog covers the room endpoints.
type RoomCatalog interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	RoomTypes(ctx context.Context) ([]string, error)
	AvailableRooms(ctx context.Context, q AvailabilityQuery) ([]domain.Room, error)
	CreateRoom(ctx context.Context, in RoomInput) (*domain.Room, error)
	UpdateRoom(ctx context.Context, roomID int64, in RoomInput) (*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID int64) error
}

// RoomInput is the JSON body for creating or updating a room.
type RoomInput struct {
	RoomNumber  string  `json:"roomNumber" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	Type        string  `json:"type" validate:"required"`
	Capacity    int     `json:"capacity" validate:"gte=1"`
	Status      string  `json:"status,omitempty"`
}
