package ports

import (
	"context"
	"time"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID   string
	Email    string
	Role     string
	IssuedAt time.Time
	Expiry   time.Time
}

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(userID, email, role string) (string, error)
	// Verify returns domain.ErrInvalidToken for every kind of failure.
	Verify(token string) (*TokenClaims, error)
}

// AuthService covers registration, login and session resolution.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve verifies token and reloads its user from storage.
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// LoginThrottle tracks failed logins per account.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
