package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/emmott-systems/soporte-api/internal/health"
	"github.com/emmott-systems/soporte-api/internal/http/handler"
	"github.com/emmott-systems/soporte-api/internal/http/middleware"
	"github.com/emmott-systems/soporte-api/internal/http/response"
	"github.com/emmott-systems/soporte-api/internal/security"
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	RoleHandler    *handler.RoleHandler
	AreaHandler    *handler.AreaHandler
	CompanyHandler *handler.CompanyHandler

	JWTManager *security.JWTManager

	CORSOrigins      []string
	MaxBodyBytes     int64
	AuthRateLimitRPM int
	APIRateLimitRPM  int

	// Optional distributed limiters; local fixed-window when nil.
	GlobalRateLimiter func(http.Handler) http.Handler
	AuthRateLimiter   func(http.Handler) http.Handler

	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	maxBody := dep.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(middleware.BodyLimit(maxBody))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}
	guard := middleware.AuthMiddleware(dep.JWTManager)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/setup", dep.AuthHandler.Setup)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(guard, authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(guard).Get("/profile", dep.AuthHandler.Profile)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(guard)
			r.Get("/", dep.UserHandler.List)
			r.Post("/", dep.UserHandler.Create)
			r.Get("/{id}", dep.UserHandler.Get)
			r.Patch("/{id}", dep.UserHandler.Update)
			r.Delete("/{id}", dep.UserHandler.Delete)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(guard)
			r.Get("/", dep.RoleHandler.List)
			r.Post("/", dep.RoleHandler.Create)
			r.Get("/{id}", dep.RoleHandler.Get)
			r.Patch("/{id}", dep.RoleHandler.Update)
			r.Delete("/{id}", dep.RoleHandler.Delete)
		})

		r.Route("/areas", func(r chi.Router) {
			r.Use(guard)
			r.Get("/", dep.AreaHandler.List)
			r.Post("/", dep.AreaHandler.Create)
			r.Get("/{id}", dep.AreaHandler.Get)
			r.Patch("/{id}", dep.AreaHandler.Update)
			r.Delete("/{id}", dep.AreaHandler.Delete)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Use(guard)
			r.Get("/", dep.CompanyHandler.List)
			r.Post("/", dep.CompanyHandler.Create)
			r.Get("/{id}", dep.CompanyHandler.Get)
			r.Patch("/{id}", dep.CompanyHandler.Update)
			r.Delete("/{id}", dep.CompanyHandler.Delete)

			r.Get("/{id}/contacts", dep.CompanyHandler.ListContacts)
			r.Post("/{id}/contacts", dep.CompanyHandler.AddContact)
			r.Get("/{id}/contacts/{contactID}", dep.CompanyHandler.GetContact)
			r.Patch("/{id}/contacts/{contactID}", dep.CompanyHandler.UpdateContact)
			r.Delete("/{id}/contacts/{contactID}", dep.CompanyHandler.DeleteContact)

			r.Get("/{id}/subscriptions", dep.CompanyHandler.ListSubscriptions)
			r.Post("/{id}/subscriptions", dep.CompanyHandler.AddSubscription)
			r.Get("/{id}/subscriptions/{subscriptionID}", dep.CompanyHandler.GetSubscription)
			r.Patch("/{id}/subscriptions/{subscriptionID}", dep.CompanyHandler.UpdateSubscription)
			r.Delete("/{id}/subscriptions/{subscriptionID}", dep.CompanyHandler.DeleteSubscription)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
