package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dogwalk-tracker/internal/config"
	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/internal/database"
	"dogwalk-tracker/internal/handlers"
	"dogwalk-tracker/internal/services"
	"dogwalk-tracker/internal/services/routing"
	"dogwalk-tracker/internal/tracking"
	"dogwalk-tracker/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🐕 DOGWALK TRACKER SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	log.Println("📂 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Invalid configuration")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Saved-walk slot
	log.Printf("🔌 Opening %s store...", cfg.StoreDriver)
	store, err := database.OpenStore(ctx, database.StoreConfig{
		Driver:        cfg.StoreDriver,
		DSN:           cfg.StoreDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Store initialization failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong STORE_DSN or REDIS_ADDR")
		log.Println("   2. Database or Redis service is down")
		log.Println("   3. Data directory is not writable")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer store.Close()
	log.Println("✅ Store ready")

	// Routing, matching and geocoding
	routingClient := routing.NewClient(routing.Options{
		BaseURL: cfg.RoutingBaseURL,
		APIKey:  cfg.RoutingAPIKey,
		Profile: cfg.RoutingProfile,
		Timeout: cfg.HTTPTimeout,
	})
	matchCache := routing.NewMatchCache(cfg.MatchCacheMax, cfg.MatchCacheTTL)
	go matchCache.Run(ctx, time.Hour)

	generator := services.NewAutoRouteGenerator(routingClient, rand.NewSource(time.Now().UnixNano()))
	matcher := services.NewMatcher(routingClient, matchCache)
	geocoder := services.NewGeocodingService(cfg.GeocodingBaseURL, cfg.GeocodingUserAgent, cfg.HTTPTimeout)
	log.Printf("✅ Routing via %s (%s)", cfg.RoutingBaseURL, cfg.RoutingProfile)

	// Live page connection
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	log.Println("✅ WebSocket hub started")

	feed := tracking.NewFeedProvider()
	fixFilter := tracking.NewFixFilter(cfg.MaxFixAccuracy)

	ctrl := controller.New(controller.Deps{
		Generator: generator,
		Matcher:   matcher,
		Locator:   geocoder,
		Provider:  feed,
		WakeLock:  tracking.NewWakeLock(websocket.NewWakeLocker(wsHub)),
		Filter:    fixFilter,
		Store:     store,
		Notifier:  wsHub,
	})
	wsHub.Attach(feed, ctrl)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handlers.Mount(r, handlers.API{
		Controller: ctrl,
		Fixes:      feed,
		Diagnostics: map[string]handlers.StatsSource{
			"match_cache": matchCache,
			"websocket":   wsHub,
		},
		WebSocket: websocket.HandleWebSocket(wsHub, websocket.NewUpgrader(cfg.AllowedOrigins())),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost%s", cfg.Addr())
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Println("❌ FATAL ERROR: Server failed to start")
			log.Printf("   Error: %v", err)
			log.Printf("   Address: %s", cfg.Addr())
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("🛑 Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Graceful shutdown failed: %v", err)
	}
	log.Println("👋 Server stopped")
}
