package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/api/middleware"
	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

type stubSession struct {
	mu         sync.Mutex
	state      domain.Session
	loginErr   error
	refreshErr error
	logouts    int
}

func (s *stubSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *stubSession) Refresh(context.Context) error {
	if s.refreshErr != nil {
		s.Logout(context.Background())
	}
	return s.refreshErr
}

func (s *stubSession) Logout(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	s.state = domain.Session{Initialized: true}
}

func (s *stubSession) Initialize(context.Context) error { return nil }

func (s *stubSession) Login(_ context.Context, token string) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.Session{Token: token, UserID: "alice", Role: domain.RoleUser, Initialized: true}
	return nil
}

func (s *stubSession) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type stubAuth struct {
	authenticateFn func(username, password string) (string, error)
	revokeErr      error
	revoked        []string
	deleted        []string
	user           *domain.User
	registered     *ports.RegistrationInput
}

func (s *stubAuth) RefreshToken(context.Context, string) (string, error) { return "", nil }

func (s *stubAuth) Authenticate(_ context.Context, username, password string) (string, error) {
	return s.authenticateFn(username, password)
}

func (s *stubAuth) RevokeToken(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return s.revokeErr
}

func (s *stubAuth) ChangePassword(context.Context, string, string) error { return nil }

func (s *stubAuth) Register(_ context.Context, in ports.RegistrationInput) (*domain.User, error) {
	s.registered = &in
	return &domain.User{ID: "7", Email: in.Email, FullName: in.FullName}, nil
}

func (s *stubAuth) Me(context.Context) (*domain.User, error) { return s.user, nil }

func (s *stubAuth) Profile(context.Context, string) (*domain.User, error) { return s.user, nil }

func (s *stubAuth) DeleteUser(_ context.Context, userID string) error {
	s.deleted = append(s.deleted, userID)
	return nil
}

type stubRooms struct {
	rooms        map[int64]domain.Room
	availableFn  func(q ports.AvailabilityQuery) ([]domain.Room, error)
	availableHit int
	onGet        func()
}

func (s *stubRooms) ListRooms(context.Context) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRooms) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	if s.onGet != nil {
		s.onGet()
	}
	r, ok := s.rooms[id]
	if !ok {
		return nil, &domain.ApplicationError{Status: http.StatusNotFound, Code: 404, Message: "Room not found"}
	}
	return &r, nil
}

func (s *stubRooms) RoomTypes(context.Context) ([]string, error) { return nil, nil }

func (s *stubRooms) AvailableRooms(_ context.Context, q ports.AvailabilityQuery) ([]domain.Room, error) {
	s.availableHit++
	if s.availableFn != nil {
		return s.availableFn(q)
	}
	return nil, nil
}

func (s *stubRooms) CreateRoom(_ context.Context, in ports.RoomInput) (*domain.Room, error) {
	return &domain.Room{ID: 99, RoomNumber: in.RoomNumber, Type: in.Type, Price: in.Price}, nil
}

func (s *stubRooms) UpdateRoom(_ context.Context, id int64, in ports.RoomInput) (*domain.Room, error) {
	return &domain.Room{ID: id, RoomNumber: in.RoomNumber, Type: in.Type, Price: in.Price}, nil
}

func (s *stubRooms) DeleteRoom(context.Context, int64) error { return nil }

type stubBookings struct {
	mu        sync.Mutex
	createFn  func(in ports.CreateBookingInput) (*domain.Booking, error)
	created   []ports.CreateBookingInput
	cancelled []int64
}

func (s *stubBookings) CreateBooking(_ context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	s.mu.Lock()
	s.created = append(s.created, in)
	s.mu.Unlock()
	if s.createFn != nil {
		return s.createFn(in)
	}
	return &domain.Booking{ID: 1, ConfirmationCode: "ABC123", RoomID: in.RoomID, TotalAmount: in.TotalAmount}, nil
}

func (s *stubBookings) ListBookings(context.Context) ([]domain.Booking, error) { return nil, nil }

func (s *stubBookings) MyBookings(context.Context) ([]domain.Booking, error) {
	return []domain.Booking{{ID: 1, ConfirmationCode: "ABC123"}}, nil
}

func (s *stubBookings) BookingByConfirmationCode(_ context.Context, code string) (*domain.Booking, error) {
	return &domain.Booking{ID: 1, ConfirmationCode: code}, nil
}

func (s *stubBookings) CancelBooking(_ context.Context, id int64) error {
	s.cancelled = append(s.cancelled, id)
	return nil
}

type stubJournal struct {
	mu       sync.Mutex
	receipts []domain.BookingReceipt
}

func (j *stubJournal) Record(r domain.BookingReceipt) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.receipts = append(j.receipts, r)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a context for method/target with body, identified as
// userID when non-empty.
func newJSONContext(e *echo.Echo, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.KeyUserID, userID)
		c.Set(middleware.KeyRole, domain.RoleUser)
	}
	return c, rec
}
