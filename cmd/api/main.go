package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/rateboard-backend/api/middleware"
	"github.com/angelmondragon/rateboard-backend/api/routes"
	"github.com/angelmondragon/rateboard-backend/internal/auth"
	"github.com/angelmondragon/rateboard-backend/internal/blogs"
	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/internal/stores"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
	"github.com/angelmondragon/rateboard-backend/pkg/metrics"
	"github.com/angelmondragon/rateboard-backend/pkg/migrate"
	"github.com/angelmondragon/rateboard-backend/pkg/redis"
	"github.com/angelmondragon/rateboard-backend/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(users.ServiceParams{
		DB:             dbClient,
		Hasher:         security.NewHasher(cfg.Password),
		ProvisionOwner: stores.ProvisionOwnerStore,
	})
	if err != nil {
		return err
	}
	storeService, err := stores.NewService(stores.ServiceParams{DB: dbClient, Users: userService})
	if err != nil {
		return err
	}
	ratingService, err := ratings.NewService(ratings.ServiceParams{
		DB:      dbClient,
		Metrics: metrics.NewRatingMetrics(reg),
		Logger:  logg,
	})
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userService,
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return err
	}
	blogService, err := blogs.NewService(dbClient)
	if err != nil {
		return err
	}
	authenticator, err := middleware.NewAuthenticator(cfg.JWT, userRepo)
	if err != nil {
		return err
	}

	created, err := auth.BootstrapAdmin(ctx, userService, userRepo, cfg.Admin)
	if err != nil {
		return err
	}
	if created {
		logg.Info(logg.WithField(ctx, "email", users.NormalizeEmail(cfg.Admin.Email)), "admin.bootstrapped")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:            dbClient,
			Redis:         redisClient,
			Gatherer:      reg,
			HTTPMetrics:   metrics.NewHTTPMetrics(reg),
			Authenticator: authenticator,
			AuthService:   authService,
			UserService:   userService,
			StoreService:  storeService,
			RatingService: ratingService,
			BlogService:   blogService,
		}),
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
