package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

// RoomHandler serves the room catalog.
type RoomHandler struct {
	rooms ports.RoomCatalog
}

func NewRoomHandler(rooms ports.RoomCatalog) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /rooms.
//
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {array}  domain.Room
// @Router       /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.rooms.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilRooms(rooms))
}

// Types handles GET /rooms/types.
func (h *RoomHandler) Types(c echo.Context) error {
	types, err := h.rooms.RoomTypes(c.Request().Context())
	if err != nil {
		return err
	}
	if types == nil {
		types = []string{}
	}
	return c.JSON(http.StatusOK, types)
}

// Available handles GET /rooms/available. When both dates are given the
// range is checked locally before the backend is asked.
//
// @Summary      Rooms free for a stay
// @Tags         rooms
// @Produce      json
// @Param        checkIn   query  string  false  "Check-in date"
// @Param        checkOut  query  string  false  "Check-out date"
// @Param        roomType  query  string  false  "Room type"
// @Success      200  {array}   domain.Room
// @Failure      422  {object}  api.errorResponse
// @Router       /rooms/available [get]
func (h *RoomHandler) Available(c echo.Context) error {
	q := ports.AvailabilityQuery{
		CheckIn:  c.QueryParam("checkIn"),
		CheckOut: c.QueryParam("checkOut"),
		RoomType: c.QueryParam("roomType"),
	}
	if q.CheckIn != "" && q.CheckOut != "" {
		if err := domain.ValidateRange(q.CheckIn, q.CheckOut); err != nil {
			return err
		}
	}
	rooms, err := h.rooms.AvailableRooms(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilRooms(rooms))
}

// Get handles GET /rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	room, err := h.rooms.GetRoom(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// Create handles POST /admin/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req ports.RoomInput
	if err := bind(c, &req); err != nil {
		return err
	}
	room, err := h.rooms.CreateRoom(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, room)
}

// Update handles PUT /admin/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ports.RoomInput
	if err := bind(c, &req); err != nil {
		return err
	}
	room, err := h.rooms.UpdateRoom(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /admin/rooms/:id.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.rooms.DeleteRoom(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func nonNilRooms(rooms []domain.Room) []domain.Room {
	if rooms == nil {
		return []domain.Room{}
	}
	return rooms
}
