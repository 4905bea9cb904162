package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/core/service"
	"github.com/hotelbooking/reservation-client/internal/pkg/metrics"
)

// HeaderIdempotencyKey lets a UI resend a booking without creating a second one.
const HeaderIdempotencyKey = "Idempotency-Key"

// BookingHandler prices, submits and looks up bookings.
type BookingHandler struct {
	bookings  ports.BookingDirectory
	rooms     ports.RoomCatalog
	workflows *service.WorkflowRegistry
	journal   ports.ReceiptJournal
	receipts  ports.ReceiptRepository
	log       zerolog.Logger
}

// BookingDeps groups what BookingHandler needs. Journal and Receipts are nil
// when no receipt journal is configured.
type BookingDeps struct {
	Bookings  ports.BookingDirectory
	Rooms     ports.RoomCatalog
	Workflows *service.WorkflowRegistry
	Journal   ports.ReceiptJournal
	Receipts  ports.ReceiptRepository
	Log       zerolog.Logger
}

func NewBookingHandler(d BookingDeps) *BookingHandler {
	workflows := d.Workflows
	if workflows == nil {
		workflows = service.NewWorkflowRegistry(0)
	}
	return &BookingHandler{
		bookings:  d.Bookings,
		rooms:     d.Rooms,
		workflows: workflows,
		journal:   d.Journal,
		receipts:  d.Receipts,
		log:       d.Log,
	}
}

type quoteRequest struct {
	RoomID       int64  `json:"roomId" validate:"required,gt=0"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
}

type quoteResponse struct {
	RoomID      int64   `json:"roomId"`
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightlyRate"`
	TotalAmount float64 `json:"totalAmount"`
}

// Quote handles POST /bookings/quote.
//
// @Summary      Price a stay
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      quoteRequest  true  "Room and dates"
// @Success      200   {object}  quoteResponse
// @Failure      422   {object}  api.errorResponse
// @Router       /bookings/quote [post]
func (h *BookingHandler) Quote(c echo.Context) error {
	var req quoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := domain.ValidateRange(req.CheckInDate, req.CheckOutDate); err != nil {
		return err
	}
	room, err := h.rooms.GetRoom(c.Request().Context(), req.RoomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteResponse{
		RoomID:      room.ID,
		Nights:      domain.Nights(req.CheckInDate, req.CheckOutDate),
		NightlyRate: room.Price,
		TotalAmount: domain.Total(req.CheckInDate, req.CheckOutDate, room.Price),
	})
}

// Create handles POST /bookings.
//
// Requests carrying the same Idempotency-Key share one workflow: a resend
// after success returns the original booking with 200, and a resend while
// the first is still in flight gets 409.
//
// @Summary      Validate and submit a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string               false  "Idempotency key to prevent duplicate bookings"
// @Param        body             body      domain.BookingDraft  true   "Booking form"
// @Success      201              {object}  domain.Booking
// @Success      200              {object}  domain.Booking
// @Failure      409              {object}  api.errorResponse
// @Failure      422              {object}  api.errorResponse
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var draft domain.BookingDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	// Keys are scoped per user so two accounts cannot collide.
	key = userID + ":" + key

	wf, created := h.workflows.Acquire(key, func() *service.BookingWorkflow {
		opts := []service.WorkflowOption{service.WithUser(userID)}
		if h.journal != nil {
			opts = append(opts, service.WithJournal(h.journal))
		}
		return service.NewBookingWorkflow(h.bookings, draft, 0, h.log, opts...)
	})

	switch wf.State() {
	case service.StateSucceeded:
		return c.JSON(http.StatusOK, wf.Booking())
	case service.StateSubmitting:
		return domain.ErrSubmissionInFlight
	}

	if !created {
		if err := wf.Update(func(d *domain.BookingDraft) { *d = draft }); err != nil {
			return h.settled(c, wf, err)
		}
	}

	ctx := c.Request().Context()
	if draft.RoomID > 0 {
		room, err := h.rooms.GetRoom(ctx, draft.RoomID)
		if err != nil {
			return err
		}
		if err := wf.SetNightlyRate(room.Price); err != nil {
			return h.settled(c, wf, err)
		}
	}

	// a resend with the same key may Update the draft at any point before
	// this call; validation and the move to submitting happen together
	booking, err := wf.ValidateAndSubmit(ctx)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.BookingSubmissionsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrSubmissionInFlight), errors.Is(err, domain.ErrWorkflowClosed):
		default:
			metrics.BookingSubmissionsTotal.WithLabelValues("failed").Inc()
		}
		return h.settled(c, wf, err)
	}

	metrics.BookingSubmissionsTotal.WithLabelValues("succeeded").Inc()
	return c.JSON(http.StatusCreated, booking)
}

// settled answers with the confirmed booking when a concurrent request for
// the same key already won, and passes err through otherwise.
func (h *BookingHandler) settled(c echo.Context, wf *service.BookingWorkflow, err error) error {
	if errors.Is(err, domain.ErrWorkflowClosed) {
		if b := wf.Booking(); b != nil {
			return c.JSON(http.StatusOK, b)
		}
	}
	return err
}

// Mine handles GET /bookings/mine.
func (h *BookingHandler) Mine(c echo.Context) error {
	bookings, err := h.bookings.MyBookings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilBookings(bookings))
}

// ByCode handles GET /bookings/code/:code.
func (h *BookingHandler) ByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid code")
	}
	booking, err := h.bookings.BookingByConfirmationCode(c.Request().Context(), code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel handles PUT /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookings.CancelBooking(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Receipts handles GET /bookings/receipts.
func (h *BookingHandler) Receipts(c echo.Context) error {
	if h.receipts == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "receipt journal is not configured")
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	receipts, err := h.receipts.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipts)
}

// All handles GET /admin/bookings.
func (h *BookingHandler) All(c echo.Context) error {
	bookings, err := h.bookings.ListBookings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilBookings(bookings))
}

func nonNilBookings(b []domain.Booking) []domain.Booking {
	if b == nil {
		return []domain.Booking{}
	}
	return b
}
