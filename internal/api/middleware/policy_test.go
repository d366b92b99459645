package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/marketloop/accounts-api/internal/core/domain"
)

func TestGate_AllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleAdmin)

	called := false
	handler := Gate(OpListUsers)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_ForbidsUserOnAdminOperation(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleUser)

	handler := Gate(OpListUsers)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGate_RejectsMissingClaims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Gate(OpSelfFetch)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		op      Operation
		role    string
		allowed bool
	}{
		{OpListUsers, domain.RoleAdmin, true},
		{OpListUsers, domain.RoleUser, false},
		{OpSelfFetch, domain.RoleUser, true},
		{OpDeleteUser, domain.RoleUser, true}, // any id, by long-standing policy
		{OpUpdateProfile, domain.RoleUser, true},
		{OpCreateUser, domain.RoleUser, false},
		{OpCreateUser, domain.RoleAdmin, true},
		{OpAdminUpdate, domain.RoleUser, false},
		{OpUploadAvatar, domain.RoleUser, true},
		{OpGetUser, domain.RoleUser, false},
		{OpGetUser, "unknown", false},
		{Operation("users.unknown"), domain.RoleAdmin, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.op, tc.role); got != tc.allowed {
			t.Errorf("Allowed(%s, %s) = %v, want %v", tc.op, tc.role, got, tc.allowed)
		}
	}
}
