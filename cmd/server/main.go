package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/openmenu/storefront/internal/backend"
	"github.com/openmenu/storefront/internal/catalog"
	"github.com/openmenu/storefront/internal/checkout"
	"github.com/openmenu/storefront/internal/config"
	"github.com/openmenu/storefront/internal/handlers"
	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/session"
	"github.com/openmenu/storefront/pkg/logger"
)

func main() {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"restaurant_id", cfg.Restaurant.ID,
		"api_base_url", cfg.Backend.BaseURL,
	)

	// Backend API client
	client := backend.New(backend.Options{
		BaseURL:           cfg.Backend.BaseURL,
		RequestTimeout:    time.Duration(cfg.Backend.RequestTimeout) * time.Second,
		SubmitTimeout:     time.Duration(cfg.Backend.SubmitTimeout) * time.Second,
		SubmitRetryWait:   time.Duration(cfg.Backend.SubmitRetryWait) * time.Second,
		SubmitMaxAttempts: cfg.Backend.SubmitMaxAttempts,
	}, log)

	// Background work stops with the server
	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Catalog mirror: initial load, then periodic refresh. A failed initial
	// load is not fatal; the menu endpoint serves the blocking error state
	// until a manual or scheduled retry succeeds.
	loader := catalog.New(client, cfg.Restaurant.ID,
		time.Duration(cfg.Catalog.RefreshInterval)*time.Second, log)
	if err := loader.Load(ctx); err != nil {
		log.Error("initial catalog load failed", "error", err)
	}
	go loader.Run(ctx)

	// Per-browser sessions
	store := session.NewStore(time.Duration(cfg.Session.TTL)*time.Second, log)
	go store.Sweep(ctx, time.Duration(cfg.Session.SweepInterval)*time.Second)

	checkoutService := checkout.New(loader, client, cfg.Restaurant.ID, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	menuHandler := handlers.NewMenuHandler(loader, cfg.Restaurant.CountryCode, log)
	cartHandler := handlers.NewCartHandler(loader, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	trackingHandler := handlers.NewTrackingHandler(client,
		time.Duration(cfg.Tracking.PollInterval)*time.Second,
		time.Duration(cfg.Backend.RequestTimeout)*time.Second, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Storefront API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.Session(store))

		r.Get("/menu", menuHandler.Get)
		r.Post("/menu/refresh", menuHandler.Refresh)

		r.Get("/cart", cartHandler.Get)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)
		r.Delete("/cart", cartHandler.Clear)

		r.Post("/checkout", checkoutHandler.Create)

		r.Get("/orders/{orderId}", trackingHandler.Get)
		r.Post("/orders/{orderId}/refresh", trackingHandler.Refresh)
		r.Post("/orders/{orderId}/warning/dismiss", trackingHandler.DismissWarning)
		r.Delete("/orders/{orderId}", trackingHandler.Stop)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
