package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/higherself/network-server/api/routes"
	"github.com/higherself/network-server/internal/auth"
	"github.com/higherself/network-server/internal/integrations/gateway"
	"github.com/higherself/network-server/internal/integrations/notion"
	"github.com/higherself/network-server/internal/integrations/wordpress"
	"github.com/higherself/network-server/internal/loader"
	"github.com/higherself/network-server/internal/store"
	"github.com/higherself/network-server/internal/the7space"
	"github.com/higherself/network-server/internal/users"
	"github.com/higherself/network-server/pkg/auth/session"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/db"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/higherself/network-server/pkg/metrics"
	"github.com/higherself/network-server/pkg/migrate"
	"github.com/higherself/network-server/pkg/redis"
	"github.com/higherself/network-server/pkg/security"
)

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	demoStore, err := buildDemoStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to seed demo store", err)
		os.Exit(1)
	}

	var (
		dbClient     *db.Client
		usersService users.Service
		directory    auth.UserDirectory
	)
	if cfg.FeatureFlags.DemoMode {
		logg.Info(ctx, "demo mode enabled, using in-memory user directory")
		directory = auth.NewDemoDirectory(demoStore)
	} else {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(ctx, "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}

		repo := users.NewRepository(dbClient.DB())
		usersService, err = users.NewService(repo, cfg.Password)
		if err != nil {
			logg.Error(ctx, "failed to create users service", err)
			os.Exit(1)
		}
		directory = auth.NewRepoDirectory(repo)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Directory:      directory,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	notionClient := notion.New(cfg.Notion, cfg.FeatureFlags.DisableWebhooks, logg)
	gatewayClient := gateway.New(cfg.Gateway, cfg.FeatureFlags.DisableWebhooks, redisClient, logg)
	wordpressClient := wordpress.New(cfg.WordPress, cfg.FeatureFlags.DisableWebhooks, logg)

	the7spaceService := the7space.NewService(the7space.ServiceParams{
		Syncer:   notionClient,
		Notifier: gatewayClient,
		Counter:  redisClient,
		Logger:   logg,
	})

	if wordpressClient.Enabled() {
		go mirrorCatalog(ctx, wordpressClient, the7spaceService, logg)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"demo_mode": cfg.FeatureFlags.DemoMode,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:       cfg,
			Logger:       logg,
			DB:           dbPinger(dbClient),
			Redis:        redisClient,
			Registry:     registry,
			HTTPMetrics:  httpMetrics,
			AuthService:  authService,
			UsersService: usersService,
			Store:        demoStore,
			The7Space:    the7spaceService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildDemoStore hydrates the in-memory store from the employee snapshot,
// falling back to the built-in seed when the file is absent.
func buildDemoStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*store.Store, error) {
	st := store.New()

	employees, loaded, err := loader.New(cfg.Snapshot, logg).Load(ctx)
	if err != nil {
		return nil, err
	}
	if !loaded {
		employees = store.DemoEmployees()
	}
	st.SeedEmployees(employees)
	st.SeedProjects(store.DemoProjects())

	if cfg.FeatureFlags.DemoMode {
		demoUsers, err := store.DemoUsers(func(password string) (string, error) {
			return security.HashPassword(password, cfg.Password)
		})
		if err != nil {
			return nil, err
		}
		st.SeedUsers(demoUsers)
	}

	return st, nil
}

// mirrorCatalog pushes the seeded catalog to the WordPress site at startup so
// the public pages track what the server serves.
func mirrorCatalog(ctx context.Context, client *wordpress.Client, svc the7space.Service, logg *logger.Logger) {
	if err := client.TestConnection(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "reason", err.Error()), "wordpress bridge unreachable, skipping catalog mirror")
		return
	}
	for _, artwork := range svc.Artworks(ctx) {
		if err := client.PublishArtwork(ctx, artwork); err != nil {
			logg.Warn(logg.WithField(ctx, "reason", err.Error()), "artwork mirror failed")
		}
	}
	for _, event := range svc.Events(ctx) {
		if err := client.PublishEvent(ctx, event); err != nil {
			logg.Warn(logg.WithField(ctx, "reason", err.Error()), "event mirror failed")
		}
	}
}

// dbPinger keeps a typed nil from masquerading as a live dependency in the
// readiness probe.
func dbPinger(client *db.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
