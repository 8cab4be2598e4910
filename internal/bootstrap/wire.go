package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/application/post"
	"github.com/baechuer/blog-service/internal/config"
	"github.com/baechuer/blog-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/blog-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/blog-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/blog-service/internal/infrastructure/redis"
	"github.com/baechuer/blog-service/internal/infrastructure/security"
	"github.com/baechuer/blog-service/internal/logger"
	http_handlers "github.com/baechuer/blog-service/internal/transport/http/handlers"
	"github.com/baechuer/blog-service/internal/transport/http/middleware"
	"github.com/baechuer/blog-service/internal/transport/http/response"
	"github.com/baechuer/blog-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (*sql.DB, error)

	// Migrate runs schema migrations against a freshly opened DB in dev.
	Migrate func(ctx context.Context, db *sql.DB) error

	NewCache func(url string) (Cache, error)

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type Cache interface {
	post.Cache
	PingContext(ctx context.Context) error
	Close() error
}

type Publisher interface {
	post.EventPublisher
	Close() error
}

type stores struct {
	users auth.UserRepo
	posts post.PostRepo
	db    *sql.DB
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) stores
	st, err := openStores(deps, cfg)
	if err != nil {
		return nil, nil, err
	}
	if st.db != nil {
		db := st.db
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })
	}

	// 2) cache (best-effort)
	var cache Cache
	if cfg.RedisURL != "" && deps.NewCache != nil {
		c, err := deps.NewCache(cfg.RedisURL)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache disabled")
		} else {
			logger.Logger.Info().Msg("redis connected")
			cache = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub post.EventPublisher = post.NoopPublisher{}
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			logger.Logger.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbitmq connected")
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(err)
		}
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) services
	authSvc := auth.NewService(st.users, hasher, signer, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	}).WithLoginHook(middleware.RecordLogin)

	var postCache post.Cache
	if cache != nil {
		postCache = cache
	}
	postSvc := post.New(st.posts, authSvc, pub, postCache, nil, cfg.CacheTTLList)

	// 6) handlers + middleware
	checks := map[string]http_handlers.Pinger{}
	if st.db != nil {
		checks["database"] = st.db
	}
	if cache != nil {
		checks["redis"] = cache
	}

	mux, err := deps.NewRouter(router.Deps{
		Health:  http_handlers.NewHealthHandler(checks),
		Auth:    http_handlers.NewAuthHandler(authSvc),
		Posts:   http_handlers.NewPostHandler(postSvc),
		AuthMW:  middleware.Auth(middleware.NewAuthenticator(signer), response.WriteError),
		AuthzMW: middleware.AuthorizePost(postSvc, "id", response.WriteError),
		Metrics: router.MetricsHandler(),
	})
	if err != nil {
		return fail(err)
	}

	// 7) server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// openStores picks postgres when DATABASE_URL is set, in-memory otherwise.
func openStores(deps Deps, cfg *config.Config) (stores, error) {
	if cfg.DatabaseURL == "" {
		logger.Logger.Warn().Msg("DATABASE_URL not set; using in-memory stores")
		return stores{users: memory.NewUserRepo(), posts: memory.NewPostRepo()}, nil
	}

	db, err := deps.NewDB(cfg.DatabaseURL)
	if err != nil {
		return stores{}, err
	}

	if cfg.Env == "dev" && deps.Migrate != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := deps.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
	}

	return stores{
		users: postgres.NewUserRepo(db),
		posts: postgres.NewPostRepo(db),
		db:    db,
	}, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewCache: func(url string) (Cache, error) {
			return redis.New(url)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
