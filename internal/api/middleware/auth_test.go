package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

type stubResolver struct {
	users map[string]*domain.User
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

// statusOf maps the auth errors to the codes the API error handler uses.
func statusOf(err error, c echo.Context) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		_ = c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		_ = c.NoContent(http.StatusForbidden)
	default:
		_ = c.NoContent(http.StatusInternalServerError)
	}
}

func newResolver() *stubResolver {
	return &stubResolver{users: map[string]*domain.User{
		"user-token":  {ID: "u1", Email: "ana@example.com", Role: domain.RoleUser},
		"admin-token": {ID: "u2", Email: "root@example.com", Role: domain.RoleAdmin},
	}}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"bearer case", "bearer abc", "", "abc"},
		{"header wins over cookie", "Bearer abc", "xyz", "abc"},
		{"cookie", "", "xyz", "xyz"},
		{"wrong scheme", "Token abc", "xyz", ""},
		{"nothing", "", "", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
		}
		if got := ExtractToken(req); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newResolver())(func(c echo.Context) error {
		called = true
		if u := UserFrom(c); u == nil || u.ID != "u1" {
			t.Fatalf("user not set: %+v", u)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "admin-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(newResolver())(func(c echo.Context) error {
		if !UserFrom(c).IsAdmin() {
			t.Fatalf("expected admin from cookie session")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]struct {
		header string
		want   error
	}{
		"missing header": {"", domain.ErrUnauthorized},
		"bad format":     {"Token abc", domain.ErrUnauthorized},
		"invalid token":  {"Bearer not-a-token", domain.ErrInvalidToken},
	}
	for name, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := Auth(newResolver())(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})
		if err := handler(c); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestAuthMiddleware_PropagatesStorageErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	c := e.NewContext(req, httptest.NewRecorder())

	boom := errors.New("mongo down")
	err := Auth(&stubResolver{err: boom})(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

// An admin-only route answers 401 without a session, 403 for a regular
// user and 200 for an admin.
func TestAdminRoute_AccessMatrix(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = statusOf
	admin := e.Group("/admin", Auth(newResolver()), RequireAdmin())
	admin.GET("/clients", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	cases := map[string]int{
		"":            http.StatusUnauthorized,
		"user-token":  http.StatusForbidden,
		"admin-token": http.StatusOK,
	}
	for token, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/clients", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("token %q: expected %d, got %d", token, want, rec.Code)
		}
	}
}
