package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs and helpers
// ---------------------------------------------------------------------------

type stubCredentials struct {
	mu         sync.Mutex
	token      string
	next       string
	refreshErr error
	refreshes  int32
	logouts    int32
}

func (s *stubCredentials) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubCredentials) Refresh(_ context.Context) error {
	atomic.AddInt32(&s.refreshes, 1)
	// give concurrent callers time to pile up behind the in-flight refresh
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshErr != nil {
		s.token = ""
		return &domain.RefreshError{Err: s.refreshErr}
	}
	s.token = s.next
	return nil
}

func (s *stubCredentials) Logout(_ context.Context) {
	atomic.AddInt32(&s.logouts, 1)
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func writeEnvelope(w http.ResponseWriter, status, code int, message string, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "result": result})
}

func newTestClient(t *testing.T, h http.HandlerFunc, policy AuthPolicy, creds ports.Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL + "/", Policy: policy}, zerolog.Nop())
	if creds != nil {
		c.Bind(creds)
	}
	return c
}

// ---------------------------------------------------------------------------
// Normalization
// ---------------------------------------------------------------------------

func TestClient_Success_DecodesResultAndDecorates(t *testing.T) {
	var gotAuth, gotRequestID, gotAgent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/api/rooms/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, 0, "", map[string]any{"id": 7, "roomNumber": "101", "type": "Deluxe", "price": 50})
	}, PolicyRefresh, &stubCredentials{token: "tok-1"})

	room, err := c.GetRoom(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if room.ID != 7 || room.RoomNumber != "101" || room.Price != 50 {
		t.Fatalf("unexpected room: %+v", room)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if gotAgent != defaultAgent {
		t.Fatalf("User-Agent = %q", gotAgent)
	}
}

func TestClient_Unauthenticated_NoBearer(t *testing.T) {
	var hadAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		writeEnvelope(w, http.StatusOK, 0, "", []string{"Single", "Double"})
	}, PolicyRefresh, &stubCredentials{})

	types, err := c.RoomTypes(context.Background())
	if err != nil {
		t.Fatalf("RoomTypes: %v", err)
	}
	if hadAuth {
		t.Fatal("expected no Authorization header without a token")
	}
	if len(types) != 2 {
		t.Fatalf("unexpected types: %v", types)
	}
}

func TestClient_NonZeroCodeIsApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 1008, "Room already booked", nil)
	}, PolicyRefresh, nil)

	_, err := c.CreateBooking(context.Background(), ports.CreateBookingInput{RoomID: 1})
	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if appErr.Code != 1008 || appErr.Message != "Room already booked" || appErr.Status != http.StatusOK {
		t.Fatalf("unexpected error: %+v", appErr)
	}
}

func TestClient_Non2xx(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{"envelope body", http.StatusNotFound, `{"code":1004,"message":"Room not found"}`, 1004, "Room not found"},
		{"plain body", http.StatusInternalServerError, `<html>oops</html>`, -1, ""},
		{"empty body", http.StatusBadGateway, ``, -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, PolicyRefresh, nil)

			_, err := c.ListRooms(context.Background())
			var appErr *domain.ApplicationError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected ApplicationError, got %v", err)
			}
			if appErr.Status != tt.status || appErr.Code != tt.wantCode || appErr.Message != tt.wantMsg {
				t.Fatalf("unexpected error: %+v", appErr)
			}
		})
	}
}

func TestClient_UndecodableSuccessBodyIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, PolicyRefresh, nil)

	_, err := c.ListRooms(context.Background())
	if !IsUnavailable(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestClient_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/bookings/12/cancel" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}, PolicyRefresh, &stubCredentials{token: "t"})

	if err := c.CancelBooking(context.Background(), 12); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url}, zerolog.Nop())
	_, err := c.ListRooms(context.Background())
	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if domain.FailureReason(err) == "" {
		t.Fatal("expected a user-facing reason")
	}
}

func TestClient_AvailableRoomsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("checkIn") != "2024-06-01" || q.Get("checkOut") != "2024-06-03" || q.Get("roomType") != "Suite" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeEnvelope(w, http.StatusOK, 0, "", []map[string]any{{"id": 3, "type": "Suite"}})
	}, PolicyRefresh, nil)

	rooms, err := c.AvailableRooms(context.Background(), ports.AvailabilityQuery{
		CheckIn: "2024-06-01", CheckOut: "2024-06-03", RoomType: "Suite",
	})
	if err != nil {
		t.Fatalf("AvailableRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != 3 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}

// ---------------------------------------------------------------------------
// Unauthorized interception
// ---------------------------------------------------------------------------

func TestClient_RefreshPolicy_RetriesOnceWithNewToken(t *testing.T) {
	var calls int32
	creds := &stubCredentials{token: "old", next: "new"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, http.StatusOK, 0, "", []map[string]any{{"id": 1}})
	}, PolicyRefresh, creds)

	bookings, err := c.MyBookings(context.Background())
	if err != nil {
		t.Fatalf("MyBookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("unexpected bookings: %+v", bookings)
	}
	if creds.refreshes != 1 || calls != 2 {
		t.Fatalf("expected 1 refresh and 2 calls, got %d and %d", creds.refreshes, calls)
	}
}

func TestClient_RefreshPolicy_SecondUnauthorizedLogsOut(t *testing.T) {
	var calls int32
	creds := &stubCredentials{token: "old", next: "new"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}, PolicyRefresh, creds)

	_, err := c.MyBookings(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one resend, got %d calls", calls)
	}
	if creds.refreshes != 1 || creds.logouts != 1 || creds.Token() != "" {
		t.Fatalf("expected one refresh then logout, got refreshes=%d logouts=%d", creds.refreshes, creds.logouts)
	}
}

func TestClient_RefreshPolicy_RefreshFailure(t *testing.T) {
	var calls int32
	creds := &stubCredentials{token: "old", refreshErr: errors.New("revoked")}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}, PolicyRefresh, creds)

	_, err := c.MyBookings(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	var re *domain.RefreshError
	if !errors.As(err, &re) {
		t.Fatalf("expected RefreshError in chain, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("no resend after a failed refresh, got %d calls", calls)
	}
	if creds.Token() != "" {
		t.Fatal("expected session cleared")
	}
}

func TestClient_LogoutPolicy(t *testing.T) {
	var calls int32
	creds := &stubCredentials{token: "old", next: "new"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}, PolicyLogout, creds)

	_, err := c.ListBookings(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if creds.refreshes != 0 || creds.logouts != 1 || calls != 1 {
		t.Fatalf("expected logout without refresh, got refreshes=%d logouts=%d calls=%d", creds.refreshes, creds.logouts, calls)
	}
	if creds.Token() != "" {
		t.Fatal("expected session cleared")
	}
}

func TestClient_AuthEndpointsBypassInterception(t *testing.T) {
	creds := &stubCredentials{token: "old", next: "new"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, 1006, "Unauthenticated", nil)
	}, PolicyRefresh, creds)

	_, err := c.Authenticate(context.Background(), "guest", "wrong")
	var appErr *domain.ApplicationError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 ApplicationError, got %v", err)
	}
	if _, err := c.RefreshToken(context.Background(), "old"); err == nil {
		t.Fatal("expected refresh endpoint error")
	}
	if creds.refreshes != 0 || creds.logouts != 0 {
		t.Fatalf("auth endpoints must not trigger recovery, got refreshes=%d logouts=%d", creds.refreshes, creds.logouts)
	}
}

func TestClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 3
	creds := &stubCredentials{token: "old", next: "new"}

	var (
		arrived  int32
		released = make(chan struct{})
		retried  int32
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer new" {
			atomic.AddInt32(&retried, 1)
			writeEnvelope(w, http.StatusOK, 0, "", []map[string]any{})
			return
		}
		// hold every stale request until all of them have been sent
		if atomic.AddInt32(&arrived, 1) == n {
			close(released)
		}
		select {
		case <-released:
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusUnauthorized)
	}, PolicyRefresh, creds)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.MyBookings(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&creds.refreshes); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	if retried != n {
		t.Fatalf("expected %d resends with the new token, got %d", n, retried)
	}
}

func TestClient_UnboundUnauthorizedIsSessionExpired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, PolicyRefresh, nil)

	if _, err := c.Me(context.Background()); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, PolicyRefresh, nil)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("any HTTP answer counts as reachable, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	if err := New(Config{BaseURL: url}, zerolog.Nop()).Ping(context.Background()); !IsUnavailable(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}
