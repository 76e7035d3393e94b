package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/rateboard-backend/api/controllers"
	"github.com/angelmondragon/rateboard-backend/api/middleware"
	"github.com/angelmondragon/rateboard-backend/internal/auth"
	"github.com/angelmondragon/rateboard-backend/internal/blogs"
	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/internal/stores"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
	"github.com/angelmondragon/rateboard-backend/pkg/metrics"
	"github.com/angelmondragon/rateboard-backend/pkg/redis"
)

// Deps carries everything the HTTP surface is built from. Redis may be nil,
// in which case auth throttling is skipped and readiness reports it as skipped.
type Deps struct {
	DB            db.Pinger
	Redis         *redis.Client
	Gatherer      prometheus.Gatherer
	HTTPMetrics   *metrics.HTTPMetrics
	Authenticator *middleware.Authenticator

	AuthService   auth.Service
	UserService   users.Service
	StoreService  stores.Service
	RatingService ratings.Service
	BlogService   blogs.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	var redisPinger controllers.Pinger
	login := middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), nil, logg)
	register := middleware.AuthRateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit), nil, logg)
	if deps.Redis != nil {
		redisPinger = deps.Redis
		login = middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), deps.Redis, logg)
		register = middleware.AuthRateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit), deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticated := middleware.Auth(deps.Authenticator, logg)
	adminOnly := middleware.Authorize(logg, enums.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(register).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.With(login).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
				r.Put("/me", controllers.AuthUpdateMe(deps.AuthService, logg))
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", controllers.StoreList(deps.StoreService, logg))
			r.With(adminOnly).Post("/", controllers.StoreCreate(deps.StoreService, logg))
			r.With(middleware.Authorize(logg, enums.RoleOwner)).
				Get("/owner/dashboard", controllers.StoreOwnerDashboard(deps.StoreService, logg))
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", controllers.RatingSubmit(deps.RatingService, logg))
			r.Get("/", controllers.RatingForUser(deps.RatingService, logg))
			r.Get("/user-rating", controllers.RatingForUser(deps.RatingService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/", controllers.UserCreate(deps.UserService, logg))
			r.Get("/", controllers.UserList(deps.UserService, logg))
			r.Get("/admin/dashboard", controllers.AdminDashboard(deps.UserService, logg))
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", controllers.BlogList(deps.BlogService, logg))
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/user/blogs", controllers.BlogListMine(deps.BlogService, logg))
				r.Post("/", controllers.BlogCreate(deps.BlogService, logg))
				r.Put("/{id}", controllers.BlogUpdate(deps.BlogService, logg))
				r.Delete("/{id}", controllers.BlogDelete(deps.BlogService, logg))
			})
			r.Get("/{id}", controllers.BlogGet(deps.BlogService, logg))
		})
	})

	return r
}
