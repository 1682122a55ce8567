package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api/metrics"
	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

// AuthService implements registration, login and session resolution.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	if throttle == nil {
		throttle = NoopThrottle{}
	}
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, log: log}
}

// Register creates a regular user and signs them in. Admin accounts are
// only created out of band.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" || password == "" || name == "" {
		return "", nil, domain.NewValidationError("", "email, password and name are required")
	}
	if !domain.ValidateEmailFormat(email) {
		return "", nil, domain.NewValidationError("email", "invalid email format")
	}
	if check := domain.ValidatePasswordStrength(password); !check.Valid {
		return "", nil, domain.NewValidationError("password", check.Reason)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return token, created, nil
}

// Login never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("", "email and password are required")
	}
	if !domain.ValidateEmailFormat(email) {
		return "", nil, domain.NewValidationError("email", "invalid email format")
	}

	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	if blocked {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "throttled").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle reset failed")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return token, user, nil
}

// Resolve verifies token and reloads the user it names. The stored role
// is authoritative; the role embedded in the token is ignored so role
// changes take effect on the next request.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle update failed")
	}
}

// NoopThrottle never blocks. It stands in when no Redis is configured.
type NoopThrottle struct{}

func (NoopThrottle) Blocked(context.Context, string) (bool, error) { return false, nil }
func (NoopThrottle) Fail(context.Context, string) error            { return nil }
func (NoopThrottle) Reset(context.Context, string) error           { return nil }
