package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VinothKuppanna/walkmap/configs"
	"github.com/VinothKuppanna/walkmap/di"
	"github.com/VinothKuppanna/walkmap/internal/cache"
	"github.com/VinothKuppanna/walkmap/internal/endpoints/healthcheck"
	mapscreenep "github.com/VinothKuppanna/walkmap/internal/endpoints/mapscreen"
	"github.com/VinothKuppanna/walkmap/internal/endpoints/notifications"
	"github.com/VinothKuppanna/walkmap/internal/endpoints/pages"
	"github.com/VinothKuppanna/walkmap/internal/endpoints/places"
	"github.com/VinothKuppanna/walkmap/internal/houses"
	"github.com/VinothKuppanna/walkmap/internal/logger"
	"github.com/VinothKuppanna/walkmap/internal/mapscreen"
	"github.com/VinothKuppanna/walkmap/internal/mapview"
	"github.com/VinothKuppanna/walkmap/internal/middleware/logging"
	"github.com/VinothKuppanna/walkmap/internal/middleware/session"
	"github.com/VinothKuppanna/walkmap/internal/notify"
	"github.com/VinothKuppanna/walkmap/internal/scheduler"
	"github.com/VinothKuppanna/walkmap/pkg/data"
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/nsqio/go-nsq"
)

const sessionReportInterval = time.Minute

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the YAML config file")
	flag.Parse()

	cfg, err := configs.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.LogLevel)
	level.Info(log).Log("msg", "starting walkmap", "config", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]healthcheck.Check{}
	publisher := newPublisher(cfg, log, checks)
	routeCache := newRouteCache(ctx, cfg, log, checks)

	js := scheduler.New(log)

	var provider def.RouteProvider
	var placesService def.PlacesService
	mapsClient, loadErr := data.NewMapsClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, cfg.Maps.RateLimit)
	if loadErr != nil {
		level.Warn(log).Log("msg", "maps client unavailable, serving the not-configured state", "err", loadErr)
	} else {
		provider = di.InitRouteProvider(mapsClient, routeCache, log, publisher)
		placesService = di.InitPlacesService(mapsClient)
	}

	generator := houses.NewGenerator(cfg.Houses.Count, cfg.Houses.Divisor, nil)
	screenOptions := mapscreen.Options{
		Center:       def.Coordinate{Lat: cfg.Maps.Center.Lat, Lng: cfg.Maps.Center.Lng},
		Zoom:         cfg.Maps.Zoom,
		HitTolerance: cfg.Houses.HitTolerance,
		Toasts: notify.Defaults{
			Position:    cfg.Notifications.Position,
			AutoCloseMs: cfg.Notifications.AutoCloseMs,
			Theme:       cfg.Notifications.Theme,
		},
	}
	factory := di.InitScreenFactory(ctx, provider, js, generator, log, screenOptions)
	store := session.NewStore(factory, cfg.Sessions.TTL, func(id string) {
		if n := js.CancelWhere(mapscreen.JobsOf(id)); n > 0 {
			level.Debug(log).Log("msg", "cancelled route jobs of expired session", "session", id, "jobs", n)
		}
	}, log)

	js.AddPeriodic(ctx, js.NewJob("sessions-report", func(ctx context.Context) {
		level.Info(log).Log("msg", "sessions report", "sessions", store.Count(), "jobs", js.Active())
	}), sessionReportInterval)

	router := mux.NewRouter()
	logging.New(publisher, log).Setup(router)
	healthcheck.NewHandler(checks).SetupRouts(router)

	app := router.NewRoute().Subrouter()
	store.Setup(app)

	api := app.NewRoute().Subrouter()
	api.Use(pages.RequireConfigured(loadErr))
	mapscreenep.NewHandler(placesService, mapview.Options{MapID: cfg.Maps.MapID}).SetupRouts(api)
	places.NewHandler(placesService, cache.Cache).SetupRouts(api)
	notifications.SetupRouts(api)

	pages.NewHandler(cfg.Maps.APIKey, cfg.Maps.MapID, loadErr).SetupRouts(app)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      withMiddleware(router, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		level.Info(log).Log("msg", "HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(log).Log("msg", "HTTP server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	level.Info(log).Log("msg", "shutting down walkmap")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		level.Error(log).Log("msg", "HTTP server forced shutdown", "err", err)
	}

	cancel()
	js.Stop()
	if p, ok := publisher.(*nsq.Producer); ok {
		p.Stop()
	}

	level.Info(log).Log("msg", "walkmap stopped")
}

func withMiddleware(router http.Handler, cfg *configs.Config, log log.Logger) http.Handler {
	handler := handlers.CompressHandler(router)
	if len(cfg.Server.AllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowCredentials(),
		)(handler)
	}
	handler = handlers.ProxyHeaders(handler)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.Printer{Logger: log}),
		handlers.PrintRecoveryStack(true),
	)(handler)
}

// newPublisher connects the log archive when NSQD_ADDRESS is set. It
// returns a nil interface otherwise.
func newPublisher(cfg *configs.Config, log log.Logger, checks map[string]healthcheck.Check) data.Publisher {
	if len(cfg.NsqdAddress) == 0 {
		return nil
	}
	producer, err := nsq.NewProducer(cfg.NsqdAddress, nsq.NewConfig())
	if err != nil {
		level.Error(log).Log("msg", "failed to create nsq producer", "addr", cfg.NsqdAddress, "err", err)
		return nil
	}
	producer.SetLogger(logger.Printer{Logger: log}, nsq.LogLevelWarning)
	if err = producer.Ping(); err != nil {
		level.Warn(log).Log("msg", "nsqd is not reachable yet", "addr", cfg.NsqdAddress, "err", err)
	}
	checks["nsqd"] = func(context.Context) error { return producer.Ping() }
	return producer
}

// newRouteCache prefers redis when REDIS_ADDRESS answers and falls back to
// the in-process cache.
func newRouteCache(ctx context.Context, cfg *configs.Config, log log.Logger, checks map[string]healthcheck.Check) data.RouteCache {
	memory := data.NewMemoryRouteCache(cache.New(cfg.Redis.RouteTTL), cfg.Redis.RouteTTL)
	if len(cfg.Redis.Address) == 0 {
		return memory
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		level.Warn(log).Log("msg", "redis unavailable, using in-memory route cache", "addr", cfg.Redis.Address, "err", err)
		_ = client.Close()
		return memory
	}
	level.Info(log).Log("msg", "route cache backed by redis", "addr", cfg.Redis.Address)
	checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return data.NewRedisRouteCache(client, cfg.Redis.RouteTTL)
}
