package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/higherself/network-server/api/controllers"
	"github.com/higherself/network-server/api/middleware"
	"github.com/higherself/network-server/internal/auth"
	"github.com/higherself/network-server/internal/store"
	"github.com/higherself/network-server/internal/the7space"
	"github.com/higherself/network-server/internal/users"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/db"
	"github.com/higherself/network-server/pkg/db/models"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/higherself/network-server/pkg/metrics"
	"github.com/higherself/network-server/pkg/redis"
)

// Params bundles the wired services the router mounts. UsersService is nil in
// demo mode; the admin surface is then not mounted.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	AuthService  auth.Service
	UsersService users.Service
	Store        *store.Store
	The7Space    the7space.Service
}

func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		p.Config.AuthRateLimit.LoginWindow,
		p.Config.AuthRateLimit.LoginIPLimit,
		p.Config.AuthRateLimit.LoginIdentifierLimit,
	)

	r.Get("/health", controllers.Health(p.Config))
	r.Get("/health/ready", controllers.HealthReady(p.Config, p.Logger, controllers.ReadinessDeps(p.DB, redisPinger(p.Redis))))

	if p.Registry != nil {
		r.Get("/metrics", metrics.Handler(p.Registry).ServeHTTP)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, p.Logger)).Post("/login", controllers.AuthLogin(p.AuthService, p.Logger))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, p.Logger))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, p.Logger))
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(middleware.Auth(p.Config.JWT, p.Logger))

		r.Get("/metrics", controllers.DashboardMetrics(p.Store, p.Logger))
		r.Get("/employees", controllers.DashboardEmployees(p.Store, p.Logger))
		r.Get("/employees/unassigned", controllers.DashboardUnassignedEmployees(p.Store, p.Logger))
		r.Get("/projects", controllers.DashboardProjects(p.Store, p.Logger))

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", controllers.AssignmentsList(p.Store, p.Logger))
			r.Post("/", controllers.AssignmentCreate(p.Store, p.Logger))
			r.Get("/week", controllers.AssignmentsWeek(p.Store, p.Logger))
			r.Patch("/{assignmentId}", controllers.AssignmentUpdate(p.Store, p.Logger))
			r.Delete("/{assignmentId}", controllers.AssignmentDelete(p.Store, p.Logger))
		})
	})

	if p.UsersService != nil {
		r.Route("/api/admin/users", func(r chi.Router) {
			r.Use(middleware.Auth(p.Config.JWT, p.Logger))
			r.Use(middleware.RequireRole(models.RoleAdmin, p.Logger))

			r.Get("/", controllers.AdminUserList(p.UsersService, p.Logger))
			r.Post("/", controllers.AdminUserCreate(p.UsersService, p.Logger))
			r.Get("/{userId}", controllers.AdminUserGet(p.UsersService, p.Logger))
			r.Patch("/{userId}", controllers.AdminUserUpdate(p.UsersService, p.Logger))
			r.Put("/{userId}/password", controllers.AdminUserUpdatePassword(p.UsersService, p.Logger))
			r.Delete("/{userId}", controllers.AdminUserDelete(p.UsersService, p.Logger))
		})
	}

	r.Route("/api/the7space", func(r chi.Router) {
		r.Use(middleware.APIKey(p.Config.The7Space.APIKey, p.Logger))

		r.Get("/artworks", controllers.The7SpaceArtworks(p.The7Space, p.Logger))
		r.Get("/events", controllers.The7SpaceEvents(p.The7Space, p.Logger))
		r.Get("/services", controllers.The7SpaceServices(p.The7Space, p.Logger))
		r.Post("/contacts", controllers.The7SpaceContactCreate(p.The7Space, p.Logger))
		r.Post("/leads", controllers.The7SpaceLeadCreate(p.The7Space, p.Logger))
		r.Post("/appointments", controllers.The7SpaceAppointmentCreate(p.The7Space, p.Logger))
		r.Get("/appointments/availability", controllers.The7SpaceAvailability(p.The7Space, p.Logger))
		r.Post("/analytics/track", controllers.The7SpaceAnalyticsTrack(p.The7Space, p.Logger))
	})

	return r
}

// redisPinger keeps a typed nil from masquerading as a live dependency.
func redisPinger(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
