package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

const roomsPath = "/api/rooms"

func roomPath(id int64) string {
	return roomsPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := c.do(ctx, call{method: http.MethodGet, path: roomsPath, out: &rooms}); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	var room domain.Room
	if err := c.do(ctx, call{method: http.MethodGet, path: roomPath(roomID), out: &room}); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, call{method: http.MethodGet, path: roomsPath + "/types", out: &types}); err != nil {
		return nil, err
	}
	return types, nil
}

// AvailableRooms lists rooms free for the whole stay. Dates are passed
// through as given; empty filters are omitted.
func (c *Client) AvailableRooms(ctx context.Context, q ports.AvailabilityQuery) ([]domain.Room, error) {
	params := url.Values{}
	if q.CheckIn != "" {
		params.Set("checkIn", q.CheckIn)
	}
	if q.CheckOut != "" {
		params.Set("checkOut", q.CheckOut)
	}
	if q.RoomType != "" {
		params.Set("roomType", q.RoomType)
	}

	var rooms []domain.Room
	err := c.do(ctx, call{method: http.MethodGet, path: roomsPath + "/available", query: params, out: &rooms})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) CreateRoom(ctx context.Context, in ports.RoomInput) (*domain.Room, error) {
	var room domain.Room
	if err := c.do(ctx, call{method: http.MethodPost, path: roomsPath, body: in, out: &room}); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) UpdateRoom(ctx context.Context, roomID int64, in ports.RoomInput) (*domain.Room, error) {
	var room domain.Room
	if err := c.do(ctx, call{method: http.MethodPut, path: roomPath(roomID), body: in, out: &room}); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: roomPath(roomID)})
}
