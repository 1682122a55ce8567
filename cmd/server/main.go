// @title           Atelier Portfolio API
// @version         1.0
// @description     Projects, clients and image uploads for the workshop portfolio.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api"
	"github.com/atelierbois/portfolio/internal/api/handler"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/core/service"
	"github.com/atelierbois/portfolio/internal/infrastructure/config"
	"github.com/atelierbois/portfolio/internal/infrastructure/db/mongo"
	"github.com/atelierbois/portfolio/internal/infrastructure/db/redis"
	"github.com/atelierbois/portfolio/internal/infrastructure/queue"
	"github.com/atelierbois/portfolio/internal/infrastructure/storage"
	"github.com/atelierbois/portfolio/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "portfolio"})
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portfolio",
	})

	generated, err := cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if generated {
		log.Warn().Msg("JWT_SECRET not set; using a random per-process secret, sessions end on restart")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	users := mongo.NewUserRepository(db)
	projects := mongo.NewProjectRepository(db)
	clients := mongo.NewClientRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":    users.EnsureIndexes,
		"projects": projects.EnsureIndexes,
		"clients":  clients.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	health := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}

	var throttle ports.LoginThrottle = service.NoopThrottle{}
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockout)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_ADDR not set; login throttling disabled")
	}

	store, imagesDir, err := newAssetStore(ctx, cfg)
	if err != nil {
		return err
	}
	health["assets"] = store.Ping

	pool := queue.NewEncodePool(cfg.Images.Workers, log)
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool.Start(poolCtx)

	media := service.NewMediaService(pool, store, cfg.Images.Quality, log)
	authService := service.NewAuthService(users, service.NewJWTService(cfg.JWTSecret), throttle, log)

	e := api.NewRouter(api.Deps{
		Log:            log,
		Auth:           authService,
		Projects:       service.NewProjectService(projects, users, media, log),
		Clients:        service.NewClientService(clients, media, log),
		Media:          media,
		Health:         health,
		SecureCookie:   !cfg.IsDevelopment(),
		ImagesDir:      imagesDir,
		RateLimitRPS:   cfg.Security.RateLimitRPS,
		RateLimitBurst: cfg.Security.RateLimitBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("assets", cfg.Assets.Backend).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("gracefully shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// In-flight requests finish before the encode pool stops.
	return e.Shutdown(shutdownCtx)
}

// newAssetStore returns the configured store and, for the local backend,
// the directory to serve under /images.
func newAssetStore(ctx context.Context, cfg *config.Config) (ports.AssetStore, string, error) {
	if cfg.Assets.Backend == config.AssetBackendS3 {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Assets.S3Bucket,
			Region:    cfg.Assets.S3Region,
			Endpoint:  cfg.Assets.S3Endpoint,
			AccessKey: cfg.Assets.S3AccessKey,
			SecretKey: cfg.Assets.S3SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	}
	local, err := storage.NewLocalStore(cfg.Assets.PublicDir)
	if err != nil {
		return nil, "", err
	}
	return local, filepath.Join(local.Root(), "images"), nil
}
