package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	AssetBackendLocal = "local"
	AssetBackendS3    = "s3"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Assets   AssetConfig
	Images   ImageConfig
	Security SecurityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portfolio"`
}

// RedisConfig is optional: an empty address disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type AssetConfig struct {
	Backend   string `env:"ASSET_BACKEND, default=local"`
	PublicDir string `env:"PUBLIC_DIR,    default=./public"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

type ImageConfig struct {
	// Workers defaults to one per CPU when zero.
	Workers int `env:"IMAGE_WORKERS, default=0"`
	// Quality overrides every preset when set (1..100).
	Quality int `env:"IMAGE_QUALITY, default=0"`
}

type SecurityConfig struct {
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS,     default=5"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST,   default=10"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

// IsDevelopment reports whether the process runs in local development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required outside development")

// Validate checks cross-field rules. In development a missing JWT secret
// is replaced by a random one and generated is true, so tokens do not
// survive a restart.
func (c *Config) Validate() (generated bool, err error) {
	switch c.Assets.Backend {
	case AssetBackendLocal:
		if c.Assets.PublicDir == "" {
			return false, errors.New("config: PUBLIC_DIR is required for the local asset backend")
		}
	case AssetBackendS3:
		if c.Assets.S3Bucket == "" {
			return false, errors.New("config: S3_BUCKET is required for the s3 asset backend")
		}
	default:
		return false, fmt.Errorf("config: unknown ASSET_BACKEND %q", c.Assets.Backend)
	}

	if c.Images.Quality < 0 || c.Images.Quality > 100 {
		return false, fmt.Errorf("config: IMAGE_QUALITY must be within 0..100, got %d", c.Images.Quality)
	}

	if c.JWTSecret != "" {
		return false, nil
	}
	if !c.IsDevelopment() {
		return false, ErrMissingJWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("config: generate secret: %w", err)
	}
	c.JWTSecret = hex.EncodeToString(buf)
	return true, nil
}
