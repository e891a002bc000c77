package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/emmott-systems/soporte-api/internal/app"
	"github.com/emmott-systems/soporte-api/internal/config"
	"github.com/emmott-systems/soporte-api/internal/database"
	"github.com/emmott-systems/soporte-api/internal/health"
	"github.com/emmott-systems/soporte-api/internal/http/handler"
	"github.com/emmott-systems/soporte-api/internal/http/middleware"
	"github.com/emmott-systems/soporte-api/internal/http/router"
	"github.com/emmott-systems/soporte-api/internal/observability"
	"github.com/emmott-systems/soporte-api/internal/repository"
	"github.com/emmott-systems/soporte-api/internal/security"
	"github.com/emmott-systems/soporte-api/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewAreaRepository,
	repository.NewCompanyRepository,
	repository.NewContactRepository,
	repository.NewSubscriptionRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
)

var ServiceSet = wire.NewSet(
	service.NewAuthService,
	service.NewUserService,
	service.NewRoleService,
	service.NewAreaService,
	service.NewCompanyService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewRoleHandler,
	handler.NewAreaHandler,
	handler.NewCompanyHandler,
	provideGlobalRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

// GlobalRateLimiterFunc and AuthRateLimiterFunc give wire distinct types for
// the two limiter middlewares.
type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	if err := database.Seed(m.db); err != nil {
		return err
	}
	fmt.Println("migration complete")
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if err := database.Seed(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) (redis.UniversalClient, error) {
	if cfg.RateLimitBackend != "redis" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTTTL)
}

func provideGlobalRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) GlobalRateLimiterFunc {
	if cfg.RateLimitBackend == "redis" && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, "rl:api")
		rl := middleware.NewDistributedRateLimiter(redisLimiter, cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api")
		return GlobalRateLimiterFunc(rl.Middleware())
	}
	return GlobalRateLimiterFunc(middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute, "api").Middleware())
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) AuthRateLimiterFunc {
	if cfg.RateLimitBackend == "redis" && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, "rl:auth")
		rl := middleware.NewDistributedRateLimiter(redisLimiter, cfg.AuthRateLimitPerMin, time.Minute, middleware.FailClosed, "auth")
		return AuthRateLimiterFunc(rl.Middleware())
	}
	return AuthRateLimiterFunc(middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware())
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	areaHandler *handler.AreaHandler,
	companyHandler *handler.CompanyHandler,
	jwt *security.JWTManager,
	globalRateLimiter GlobalRateLimiterFunc,
	authRateLimiter AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		RoleHandler:       roleHandler,
		AreaHandler:       areaHandler,
		CompanyHandler:    companyHandler,
		JWTManager:        jwt,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		AuthRateLimitRPM:  cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:   cfg.APIRateLimitPerMin,
		GlobalRateLimiter: globalRateLimiter,
		AuthRateLimiter:   authRateLimiter,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 2)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if cfg.RateLimitBackend == "redis" {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	return health.NewProbeRunner(time.Second, 0, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient)
}
