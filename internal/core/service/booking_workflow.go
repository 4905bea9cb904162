package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/pkg/validate"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

// WorkflowState is the lifecycle position of a single booking draft.
type WorkflowState string

const (
	StateEditing    WorkflowState = "editing"
	StateValidated  WorkflowState = "validated"
	StateSubmitting WorkflowState = "submitting"
	StateSucceeded  WorkflowState = "succeeded"
	StateFailed     WorkflowState = "failed"
)

var draftValidator = validate.New()

// BookingWorkflow drives one reservation draft from editing to a confirmed
// booking. At most one submission is in flight per workflow.
type BookingWorkflow struct {
	gateway ports.BookingGateway
	journal ports.ReceiptJournal
	userID  string
	now     func() time.Time
	log     zerolog.Logger

	mu      sync.Mutex
	state   WorkflowState
	draft   domain.BookingDraft
	rate    float64
	failure string
	booking *domain.Booking
}

// WorkflowOption customises a BookingWorkflow.
type WorkflowOption func(*BookingWorkflow)

// WithJournal records a receipt for every confirmed booking.
func WithJournal(j ports.ReceiptJournal) WorkflowOption {
	return func(w *BookingWorkflow) { w.journal = j }
}

// WithClock replaces time.Now for the "check-in not in the past" rule.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *BookingWorkflow) { w.now = now }
}

// WithUser tags receipts with the booking user's id.
func WithUser(userID string) WorkflowOption {
	return func(w *BookingWorkflow) { w.userID = userID }
}

// NewBookingWorkflow starts a workflow in the editing state for draft, priced
// at nightlyRate.
func NewBookingWorkflow(gateway ports.BookingGateway, draft domain.BookingDraft, nightlyRate float64, log zerolog.Logger, opts ...WorkflowOption) *BookingWorkflow {
	w := &BookingWorkflow{
		gateway: gateway,
		now:     time.Now,
		log:     logger.Component(log, "booking_workflow"),
		state:   StateEditing,
		draft:   draft,
		rate:    nightlyRate,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.draft.NumberOfGuests == 0 {
		w.draft.NumberOfGuests = domain.DefaultNumberOfGuests
	}
	w.recompute()
	return w
}

// Update edits the draft. A validated or failed draft drops back to editing.
func (w *BookingWorkflow) Update(edit func(*domain.BookingDraft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return err
	}
	edit(&w.draft)
	w.state = StateEditing
	w.failure = ""
	w.recompute()
	return nil
}

// SetNightlyRate changes the room's price and recomputes the total.
func (w *BookingWorkflow) SetNightlyRate(rate float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return err
	}
	w.rate = rate
	w.state = StateEditing
	w.recompute()
	return nil
}

func (w *BookingWorkflow) editableLocked() error {
	switch w.state {
	case StateSubmitting:
		return domain.ErrSubmissionInFlight
	case StateSucceeded:
		return domain.ErrWorkflowClosed
	}
	return nil
}

// recompute keeps TotalAmount derived; callers hold mu.
func (w *BookingWorkflow) recompute() {
	w.draft.TotalAmount = domain.Total(w.draft.CheckInDate, w.draft.CheckOutDate, w.rate)
}

// Validate moves an editing draft to validated, or returns the first
// *domain.ValidationError and stays in editing. It never touches the network.
func (w *BookingWorkflow) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting:
		return domain.ErrSubmissionInFlight
	case StateSucceeded:
		return domain.ErrWorkflowClosed
	}

	if err := w.checkLocked(); err != nil {
		w.state = StateEditing
		w.failure = err.Error()
		return err
	}
	w.state = StateValidated
	w.failure = ""
	return nil
}

func (w *BookingWorkflow) checkLocked() error {
	fields, err := draftValidator.Fields(w.draft)
	if err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Field: fields[0].Field, Message: fields[0].Message, Err: domain.ErrMissingField}
	}
	if err := domain.ValidateRange(w.draft.CheckInDate, w.draft.CheckOutDate); err != nil {
		return err
	}
	if err := domain.NotBefore(w.draft.CheckInDate, w.now()); err != nil {
		return err
	}
	if w.draft.TotalAmount <= 0 {
		return &domain.ValidationError{Field: "totalAmount", Message: "room price is not available yet", Err: domain.ErrMissingField}
	}
	return nil
}

// Submit sends a validated draft. While a submission is in flight further
// calls return domain.ErrSubmissionInFlight without reaching the network.
func (w *BookingWorkflow) Submit(ctx context.Context) (*domain.Booking, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return nil, domain.ErrSubmissionInFlight
	case StateSucceeded:
		w.mu.Unlock()
		return nil, domain.ErrWorkflowClosed
	case StateValidated:
	default:
		w.mu.Unlock()
		return nil, domain.ErrNotValidated
	}
	w.state = StateSubmitting
	draft := w.draft
	w.mu.Unlock()

	return w.send(ctx, draft)
}

// ValidateAndSubmit checks the draft and moves it to submitting under one
// lock, so an edit cannot land between the check and the send. A failed
// check returns the *domain.ValidationError and never reaches the network.
func (w *BookingWorkflow) ValidateAndSubmit(ctx context.Context) (*domain.Booking, error) {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if err := w.checkLocked(); err != nil {
		w.state = StateEditing
		w.failure = err.Error()
		w.mu.Unlock()
		return nil, err
	}
	w.state = StateSubmitting
	w.failure = ""
	draft := w.draft
	w.mu.Unlock()

	return w.send(ctx, draft)
}

// send runs with the workflow already in StateSubmitting.
func (w *BookingWorkflow) send(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	booking, err := w.gateway.CreateBooking(ctx, toCreateBookingInput(draft))

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateFailed
		w.failure = domain.FailureReason(err)
		w.log.Warn().Err(err).Int64("room_id", draft.RoomID).Msg("booking submission failed")
		return nil, err
	}

	w.state = StateSucceeded
	w.booking = booking
	w.log.Info().
		Int64("booking_id", booking.ID).
		Str("confirmation_code", booking.ConfirmationCode).
		Int64("room_id", draft.RoomID).
		Msg("booking confirmed")

	if w.journal != nil {
		w.journal.Record(domain.BookingReceipt{
			BookingID:        booking.ID,
			ConfirmationCode: booking.ConfirmationCode,
			UserID:           w.userID,
			RoomID:           draft.RoomID,
			GuestEmail:       draft.GuestEmail,
			CheckInDate:      draft.CheckInDate,
			CheckOutDate:     draft.CheckOutDate,
			Nights:           domain.Nights(draft.CheckInDate, draft.CheckOutDate),
			TotalAmount:      draft.TotalAmount,
			RecordedAt:       w.now().UTC(),
		})
	}

	clone := *booking
	return &clone, nil
}

func toCreateBookingInput(d domain.BookingDraft) ports.CreateBookingInput {
	in := ports.CreateBookingInput{
		RoomID:          d.RoomID,
		CheckInDate:     d.CheckInDate,
		CheckOutDate:    d.CheckOutDate,
		NumberOfGuests:  d.NumberOfGuests,
		TotalAmount:     d.TotalAmount,
		SpecialRequests: d.SpecialRequests,
	}
	if t, err := domain.ParseStayDate(d.CheckInDate); err == nil {
		in.CheckInDate = domain.FormatStayDate(t)
	}
	if t, err := domain.ParseStayDate(d.CheckOutDate); err == nil {
		in.CheckOutDate = domain.FormatStayDate(t)
	}
	return in
}

func (w *BookingWorkflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *BookingWorkflow) Draft() domain.BookingDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Failure is the message to show for the last validation or submission failure.
func (w *BookingWorkflow) Failure() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}

// Booking is the server's record once the workflow has succeeded.
func (w *BookingWorkflow) Booking() *domain.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.booking == nil {
		return nil
	}
	clone := *w.booking
	return &clone
}
