package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/audit"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/config"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/db/postgres"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/memory"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/oauth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/redis"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/security"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/logger"
	http_handlers "github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/handlers"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/middleware"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/response"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/router"
)

const bcryptCost = 12

// NewServer wires the whole service from environment configuration. The
// returned cleanup closes every backing connection in reverse order.
func NewServer() (*http.Server, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return newServer(cfg)
}

func newServer(cfg *config.Config) (*http.Server, func(), error) {
	var cleanupFns []func()
	cleanup := func() {
		for i := len(cleanupFns) - 1; i >= 0; i-- {
			cleanupFns[i]()
		}
	}

	hasher := security.NewBcryptHasher(bcryptCost)

	// Identity store. Dev without DB_ADDR runs on the in-memory store
	// with seeded accounts; anything else requires Postgres.
	var (
		users auth.UserStore
		sqlDB *sql.DB
	)
	if cfg.DBAddr != "" {
		db, err := config.NewDB(cfg.DBAddr, logger.Logger)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })
		sqlDB = db
		users = postgres.NewUserStore(db)
	} else {
		mem := memory.NewUserStore()
		memory.SeedUsers(context.Background(), mem, hasher)
		logger.Logger.Warn().Msg("no DB_ADDR; using in-memory user store")
		users = mem
	}

	// Redis is best-effort: without it rate limiting is disabled and
	// OAuth state falls back to the in-memory store.
	var redisCli *redis.Client
	if cfg.RedisAddr != "" {
		c := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var states auth.OAuthStateStore
	if redisCli != nil {
		states = redis.NewOAuthStateStore(redisCli, cfg.OAuthStateTTL)
	} else {
		states = memory.NewOAuthStateStore()
	}

	// Audit trail always reaches the log; the broker sink joins when
	// RabbitMQ is reachable.
	auditSink := audit.New(logger.Logger).Record
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if !cfg.IsDev() {
				cleanup()
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; audit events stay local")
		} else {
			cleanupFns = append(cleanupFns, func() { _ = pub.Close() })
			auditSink = audit.Fanout(auditSink, audit.PublisherSink(pub, logger.Logger))
		}
	}

	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, logger.Logger)

	githubClient := oauth.NewGitHubClient()
	googleClient := oauth.NewGoogleClient()
	registry := oauth.NewRegistry(
		oauth.ClientCredentials(cfg.Google),
		oauth.ClientCredentials(cfg.GitHub),
		googleClient,
		githubClient,
	)
	resolver := oauth.NewResolver(githubClient, logger.Logger)

	roles, err := domain.NewRoleTable(domain.RoleDeveloper, domain.RoleContractor)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := auth.NewService(users, hasher, signer, resolver, roles, auth.Config{
		AccessTTL:           cfg.AccessTokenTTL,
		MaxUsernameAttempts: cfg.MaxUsernameAttempts,
	}).WithAudit(auditSink)

	secureCookies := !cfg.IsDev()

	authH := http_handlers.NewAuthHandler(svc, signer, cfg.RefreshTokenTTL, secureCookies)
	oauthH := http_handlers.NewOAuthHandler(svc, registry, states, cfg.RefreshTokenTTL, secureCookies)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = middleware.DefaultAllowedOrigins()
	}

	var limiter *redis.FixedWindowLimiter
	if redisCli != nil {
		limiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(route string, limit int, window time.Duration) router.Middleware {
		if limiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(limiter, middleware.FixedWindowConfig{
			RouteKey: route,
			Limit:    limit,
			Window:   window,
		}, response.WriteError)
	}

	mux, err := router.New(router.Deps{
		Health: healthH,
		Auth:   authH,
		OAuth:  oauthH,

		RequestIDMW: middleware.RequestID,
		AccessLogMW: middleware.AccessLog(logger.Logger),
		AuthMW:      middleware.Auth(signer, users, response.WriteError),
		CSRFMW:      middleware.CSRFProtection(origins, response.WriteError),
		InternalMW:  middleware.InternalAuth(cfg.InternalSecret),

		LoginRL:    rl("auth.login", 5, time.Minute),
		RegisterRL: rl("auth.register", 3, time.Minute),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return srv, cleanup, nil
}
