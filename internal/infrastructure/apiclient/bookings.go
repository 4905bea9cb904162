package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

const bookingsPath = "/api/bookings"

func (c *Client) CreateBooking(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, call{method: http.MethodPost, path: bookingsPath, body: in, out: &b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns every booking; the backend restricts it to admins.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := c.do(ctx, call{method: http.MethodGet, path: bookingsPath, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := c.do(ctx, call{method: http.MethodGet, path: bookingsPath + "/user/my", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookingByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	var b domain.Booking
	path := bookingsPath + "/code/" + url.PathEscape(code)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &b}); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID int64) error {
	path := bookingsPath + "/" + strconv.FormatInt(bookingID, 10) + "/cancel"
	return c.do(ctx, call{method: http.MethodPut, path: path})
}
