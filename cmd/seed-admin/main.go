// Command seed-admin creates an admin account, or promotes an existing
// account to admin. Registration over HTTP only ever creates regular users.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/core/service"
	"github.com/atelierbois/portfolio/internal/infrastructure/config"
	"github.com/atelierbois/portfolio/internal/infrastructure/db/mongo"
	"github.com/atelierbois/portfolio/pkg/logger"
)

type options struct {
	email    string
	password string
	name     string
	envFile  string
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.email, "email", "", "admin email (required)")
	fs.StringVar(&o.password, "password", "", "password for a new account; ignored when promoting")
	fs.StringVar(&o.name, "name", "Administrator", "display name for a new account")
	fs.StringVar(&o.envFile, "env-file", ".env", "optional .env file to load")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.email == "" {
		return o, errors.New("-email is required")
	}
	return o, nil
}

func main() {
	log := logger.Init(logger.Options{Service: "seed-admin", Pretty: true})

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("invalid arguments")
	}
	// The env file is optional; plain environment variables work as well.
	_ = godotenv.Load(opts.envFile)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	res, err := seedAdmin(ctx, users, opts, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("email", res.user.Email).Str("id", res.user.ID).Str("action", res.action).Msg("admin ready")
}

type seedResult struct {
	user   *domain.User
	action string // created, promoted or unchanged
}

func seedAdmin(ctx context.Context, users ports.UserRepository, o options, now time.Time) (*seedResult, error) {
	email := domain.NormalizeEmail(o.email)
	if !domain.ValidateEmailFormat(email) {
		return nil, domain.NewValidationError("email", "invalid email format")
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return &seedResult{user: existing, action: "unchanged"}, nil
		}
		if err := users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote %s: %w", email, err)
		}
		existing.Role = domain.RoleAdmin
		return &seedResult{user: existing, action: "promoted"}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	if check := domain.ValidatePasswordStrength(o.password); !check.Valid {
		return nil, domain.NewValidationError("password", check.Reason)
	}
	hash, err := service.HashPassword(o.password)
	if err != nil {
		return nil, err
	}
	created, err := users.Create(ctx, &domain.User{
		Email:        email,
		Name:         o.name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", email, err)
	}
	return &seedResult{user: created, action: "created"}, nil
}
