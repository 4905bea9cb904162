package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

type stubSessions struct {
	snap domain.Session
}

func (s stubSessions) Snapshot() domain.Session { return s.snap }

func TestRequireSession_Authenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sessions := stubSessions{snap: domain.Session{Token: "t", UserID: "alice", Role: domain.RoleUser, Initialized: true}}

	called := false
	handler := RequireSession(sessions)(func(c echo.Context) error {
		called = true
		if c.Get(KeyUserID) != "alice" {
			t.Fatalf("user id not set")
		}
		if c.Get(KeyRole) != domain.RoleUser {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireSession_Rejects(t *testing.T) {
	tests := []struct {
		name string
		snap domain.Session
		want int
	}{
		{"signed out", domain.Session{Initialized: true}, http.StatusUnauthorized},
		{"not initialized", domain.Session{}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequireSession(stubSessions{snap: tt.snap})(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
