package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubBookingGateway struct {
	mu      sync.Mutex
	calls   []ports.CreateBookingInput
	booking *domain.Booking
	err     error
	block   chan struct{} // when set, CreateBooking waits for it to close
	entered chan struct{} // signalled when CreateBooking starts
}

func (g *stubBookingGateway) CreateBooking(_ context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	g.mu.Lock()
	g.calls = append(g.calls, in)
	g.mu.Unlock()
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	return g.booking, g.err
}

func (g *stubBookingGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type stubJournal struct {
	receipts []domain.BookingReceipt
}

func (j *stubJournal) Record(r domain.BookingReceipt) {
	j.receipts = append(j.receipts, r)
}

var fixedNow = func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) }

func validDraft() domain.BookingDraft {
	return domain.BookingDraft{
		RoomID:       7,
		GuestName:    "Jordan Lee",
		GuestEmail:   "jordan@example.com",
		CheckInDate:  "2024-06-01",
		CheckOutDate: "2024-06-03",
	}
}

func newWorkflow(gw ports.BookingGateway, draft domain.BookingDraft, opts ...WorkflowOption) *BookingWorkflow {
	opts = append([]WorkflowOption{WithClock(fixedNow)}, opts...)
	return NewBookingWorkflow(gw, draft, 50, zerolog.Nop(), opts...)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestBookingWorkflow_TotalIsDerived(t *testing.T) {
	wf := newWorkflow(&stubBookingGateway{}, validDraft())
	if got := wf.Draft().TotalAmount; got != 100 {
		t.Fatalf("expected total 100, got %v", got)
	}

	_ = wf.Update(func(d *domain.BookingDraft) {
		d.CheckOutDate = "2024-06-05"
		d.TotalAmount = 1 // manual edits are overwritten
	})
	if got := wf.Draft().TotalAmount; got != 200 {
		t.Fatalf("expected total 200 after date change, got %v", got)
	}

	_ = wf.SetNightlyRate(80)
	if got := wf.Draft().TotalAmount; got != 320 {
		t.Fatalf("expected total 320 after rate change, got %v", got)
	}
}

func TestBookingWorkflow_Validate_MissingFieldStaysEditing(t *testing.T) {
	gw := &stubBookingGateway{}
	draft := validDraft()
	draft.GuestName = ""
	wf := newWorkflow(gw, draft)

	err := wf.Validate()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "guestFullName" {
		t.Fatalf("expected guestFullName validation error, got %v", err)
	}
	if wf.State() != StateEditing {
		t.Fatalf("expected editing, got %s", wf.State())
	}
	if _, err := wf.Submit(context.Background()); !errors.Is(err, domain.ErrNotValidated) {
		t.Fatalf("expected ErrNotValidated, got %v", err)
	}
	if gw.callCount() != 0 {
		t.Fatalf("validation failures must not reach the network")
	}
}

func TestBookingWorkflow_Validate_BadEmail(t *testing.T) {
	draft := validDraft()
	draft.GuestEmail = "not-an-email"
	wf := newWorkflow(&stubBookingGateway{}, draft)

	var ve *domain.ValidationError
	if err := wf.Validate(); !errors.As(err, &ve) || ve.Field != "guestEmail" {
		t.Fatalf("expected guestEmail validation error, got %v", err)
	}
}

func TestBookingWorkflow_Validate_InvalidRange(t *testing.T) {
	draft := validDraft()
	draft.CheckOutDate = draft.CheckInDate
	wf := newWorkflow(&stubBookingGateway{}, draft)

	if err := wf.Validate(); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if wf.Failure() == "" {
		t.Fatalf("expected a validation message to surface")
	}
}

func TestBookingWorkflow_Validate_CheckInInPast(t *testing.T) {
	draft := validDraft()
	draft.CheckInDate = "2024-05-19"
	wf := newWorkflow(&stubBookingGateway{}, draft)

	if err := wf.Validate(); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected past check-in to be rejected, got %v", err)
	}
}

func TestBookingWorkflow_Validate_UnknownPrice(t *testing.T) {
	wf := NewBookingWorkflow(&stubBookingGateway{}, validDraft(), 0, zerolog.Nop(), WithClock(fixedNow))
	if err := wf.Validate(); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected missing price to block validation, got %v", err)
	}
}

func TestBookingWorkflow_Submit_Success(t *testing.T) {
	gw := &stubBookingGateway{booking: &domain.Booking{ID: 99, ConfirmationCode: "ABC123"}}
	journal := &stubJournal{}
	wf := newWorkflow(gw, validDraft(), WithJournal(journal), WithUser("u1"))

	if err := wf.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	booking, err := wf.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if booking.ID != 99 || wf.State() != StateSucceeded {
		t.Fatalf("unexpected outcome: booking=%+v state=%s", booking, wf.State())
	}

	sent := gw.calls[0]
	if sent.CheckInDate != "2024-06-01T00:00:00" || sent.CheckOutDate != "2024-06-03T00:00:00" {
		t.Fatalf("dates must be sent as ISO date-time, got %q %q", sent.CheckInDate, sent.CheckOutDate)
	}
	if sent.TotalAmount != 100 || sent.NumberOfGuests != domain.DefaultNumberOfGuests || sent.RoomID != 7 {
		t.Fatalf("unexpected payload: %+v", sent)
	}

	if len(journal.receipts) != 1 || journal.receipts[0].ConfirmationCode != "ABC123" || journal.receipts[0].UserID != "u1" {
		t.Fatalf("expected receipt to be journaled, got %+v", journal.receipts)
	}
	if journal.receipts[0].Nights != 2 {
		t.Fatalf("expected 2 nights in receipt, got %d", journal.receipts[0].Nights)
	}

	if err := wf.Update(func(d *domain.BookingDraft) { d.GuestName = "x" }); !errors.Is(err, domain.ErrWorkflowClosed) {
		t.Fatalf("succeeded draft must be immutable, got %v", err)
	}
	if _, err := wf.Submit(context.Background()); !errors.Is(err, domain.ErrWorkflowClosed) {
		t.Fatalf("expected ErrWorkflowClosed, got %v", err)
	}
}

func TestBookingWorkflow_Submit_ApplicationErrorIsEditable(t *testing.T) {
	gw := &stubBookingGateway{err: &domain.ApplicationError{Status: 200, Code: 1, Message: "Room already booked"}}
	wf := newWorkflow(gw, validDraft())

	_ = wf.Validate()
	if _, err := wf.Submit(context.Background()); err == nil {
		t.Fatalf("expected submission error")
	}
	if wf.State() != StateFailed {
		t.Fatalf("expected failed, got %s", wf.State())
	}
	if wf.Failure() != "Room already booked" {
		t.Fatalf("expected verbatim message, got %q", wf.Failure())
	}

	if err := wf.Update(func(d *domain.BookingDraft) { d.RoomID = 8 }); err != nil {
		t.Fatalf("failed draft must stay editable: %v", err)
	}
	if wf.State() != StateEditing {
		t.Fatalf("expected editing after update, got %s", wf.State())
	}

	gw.err = nil
	gw.booking = &domain.Booking{ID: 100}
	if err := wf.Validate(); err != nil {
		t.Fatalf("revalidate failed: %v", err)
	}
	if _, err := wf.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if gw.calls[1].RoomID != 8 {
		t.Fatalf("resubmission must carry the edited draft")
	}
}

func TestBookingWorkflow_Submit_NetworkError(t *testing.T) {
	gw := &stubBookingGateway{err: &domain.NetworkError{Op: "POST /api/bookings", Err: errors.New("dial tcp: refused")}}
	wf := newWorkflow(gw, validDraft())

	_ = wf.Validate()
	_, _ = wf.Submit(context.Background())
	if wf.State() != StateFailed {
		t.Fatalf("expected failed, got %s", wf.State())
	}
	if wf.Failure() != domain.FailureReason(gw.err) {
		t.Fatalf("unexpected failure message %q", wf.Failure())
	}
}

func TestBookingWorkflow_Submit_IgnoresReentrantCalls(t *testing.T) {
	gw := &stubBookingGateway{
		booking: &domain.Booking{ID: 1},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	wf := newWorkflow(gw, validDraft())
	_ = wf.Validate()

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()
	<-gw.entered

	for i := 0; i < 3; i++ {
		if _, err := wf.Submit(context.Background()); !errors.Is(err, domain.ErrSubmissionInFlight) {
			t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
		}
	}
	if err := wf.Update(func(d *domain.BookingDraft) { d.GuestName = "x" }); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("edits must be refused while submitting, got %v", err)
	}
	if wf.State() != StateSubmitting {
		t.Fatalf("expected submitting, got %s", wf.State())
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", gw.callCount())
	}
}

func TestBookingWorkflow_ValidateAndSubmit_AfterInterleavedEdit(t *testing.T) {
	gw := &stubBookingGateway{booking: &domain.Booking{ID: 4, ConfirmationCode: "KEY4"}}
	wf := newWorkflow(gw, validDraft())

	if err := wf.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// a resend with the same draft drops the workflow back to editing
	if err := wf.Update(func(d *domain.BookingDraft) { *d = validDraft() }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	booking, err := wf.ValidateAndSubmit(context.Background())
	if err != nil {
		t.Fatalf("expected the re-checked draft to submit, got %v", err)
	}
	if booking.ID != 4 || wf.State() != StateSucceeded || gw.callCount() != 1 {
		t.Fatalf("unexpected outcome: booking=%+v state=%s calls=%d", booking, wf.State(), gw.callCount())
	}
}

func TestBookingWorkflow_ValidateAndSubmit_InvalidStaysOffline(t *testing.T) {
	gw := &stubBookingGateway{}
	draft := validDraft()
	draft.GuestEmail = ""
	wf := newWorkflow(gw, draft)

	var ve *domain.ValidationError
	if _, err := wf.ValidateAndSubmit(context.Background()); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if wf.State() != StateEditing || wf.Failure() == "" || gw.callCount() != 0 {
		t.Fatalf("unexpected outcome: state=%s failure=%q calls=%d", wf.State(), wf.Failure(), gw.callCount())
	}
}

func TestBookingWorkflow_ValidateAndSubmit_RefusesEditsInFlight(t *testing.T) {
	gw := &stubBookingGateway{
		booking: &domain.Booking{ID: 2},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	wf := newWorkflow(gw, validDraft())

	done := make(chan error, 1)
	go func() {
		_, err := wf.ValidateAndSubmit(context.Background())
		done <- err
	}()
	<-gw.entered

	if err := wf.Update(func(d *domain.BookingDraft) { *d = validDraft() }); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if _, err := wf.ValidateAndSubmit(context.Background()); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if gw.callCount() != 1 {
		t.Fatalf("expected one network call, got %d", gw.callCount())
	}
}
