package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

const (
	// CookieName is the session cookie set on login and registration.
	CookieName = "auth_token"
	// UserKey is the echo context key holding the resolved *domain.User.
	UserKey = "user"
)

// UserResolver turns a session token into the stored user.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// ExtractToken returns the bearer token of r, or the session cookie when
// there is no Authorization header. It returns "" when neither is present.
func ExtractToken(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth requires a valid session and stores the freshly loaded user in the
// context. A missing token yields domain.ErrUnauthorized; malformed,
// expired and orphaned tokens all surface as domain.ErrInvalidToken.
func Auth(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return domain.ErrUnauthorized
			}

			user, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// UserFrom returns the user stored by Auth, or nil.
func UserFrom(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}
