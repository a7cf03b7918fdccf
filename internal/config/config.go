package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// OAuthClient holds one provider's application credentials. A provider is
// enabled only when both ClientID and ClientSecret are set.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c OAuthClient) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr string
	// Auth / Security
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Shared secret for the service-to-service surface.
	InternalSecret string
	// Origins allowed to hit cookie-bearing endpoints.
	AllowedOrigins []string
	// Upper bound on generated-username suffix probing.
	MaxUsernameAttempts int

	// Infrastructure
	DBAddr        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitURL     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// OAuth sign-in
	Google        OAuthClient
	GitHub        OAuthClient
	OAuthStateTTL time.Duration
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

func Load() (*Config, error) {
	// Local .env is a convenience for dev; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "identity-service")

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = ttl

	rtl, err := getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = rtl

	// Backing services. Outside dev the service cannot operate without
	// them, so fail fast instead of starting half-wired. In dev they may
	// be absent; wiring falls back to in-memory implementations.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBAddr != "" {
		if err := validatePostgresDSN(cfg.DBAddr); err != nil {
			return nil, err
		}
	}

	cfg.InternalSecret = os.Getenv("INTERNAL_SECRET")
	if cfg.InternalSecret == "" {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("missing required env var: INTERNAL_SECRET")
		}
		cfg.InternalSecret = "dev-internal-secret"
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	mua, err := getInt("MAX_USERNAME_ATTEMPTS", 100)
	if err != nil {
		return nil, err
	}
	cfg.MaxUsernameAttempts = mua

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: REDIS_ADDR")
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	rdb, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = rdb

	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	if cfg.RabbitURL == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: RABBIT_URL")
	}

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	// OAuth providers are opt-in.
	cfg.Google = OAuthClient{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
	}
	cfg.GitHub = OAuthClient{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		RedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),
	}

	stl, err := getDuration("OAUTH_STATE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.OAuthStateTTL = stl

	return cfg, nil
}

// validatePostgresDSN rejects obviously wrong DSNs before we ever hand
// them to the driver.
func validatePostgresDSN(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid DB_ADDR: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DB_ADDR must be a postgres:// DSN, got scheme %q", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("DB_ADDR is missing the database name")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}
