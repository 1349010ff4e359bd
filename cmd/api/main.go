package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-streaks/internal/app"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/workers"
)

// @title                      Kanso Streaks API
// @version                    1.0
// @description                Derived habit streaks and sync control.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	startTime := time.Now()

	configPath := flag.String("config", os.Getenv("STREAKS_CONFIG"), "TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: Failed to open streak store: %v", err)
	}
	defer store.Close()

	recorder := metrics.NewRecorder()

	syncService, err := app.NewSyncService(cfg, store.Repo, services.WithMetrics(recorder))
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	syncWorker := workers.NewSyncWorker(syncService, cfg.Worker.IntervalDuration(), cfg.Worker.QueueSize)
	syncWorker.Start(ctx)
	if cfg.Worker.OnStart {
		syncWorker.Enqueue("startup")
	}

	if err := cfg.Auth.Validate(); err != nil {
		log.Fatalf("Critical: %v", err)
	}
	if cfg.Auth.AdminPasswordHash == "" {
		log.Println("[AUTH] Warning: admin password hash is not set, token requests will be refused")
	}
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TTL())
	authService := services.NewAuthService(cfg.Auth.AdminPasswordHash, tokenService)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:   adapterHTTP.NewAuthHandler(authService, cfg.Auth.TTL()),
		StreakHandler: adapterHTTP.NewStreakHandler(services.NewStreakService(store.Repo)),
		SyncHandler:   adapterHTTP.NewSyncHandler(syncWorker),
		TokenService:  tokenService,
		Metrics:       recorder,
		Redis:         store.Redis,
		RateLimit:     cfg.Server.RateLimit,
		RateWindow:    cfg.Server.RateWindowDuration(),
		StartTime:     startTime,
	}
	if store.DB != nil {
		deps.DB = store.DB
	}
	router := adapterHTTP.NewRouter(deps)

	readTimeout, writeTimeout, shutdownTimeout := cfg.Server.Timeouts()
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Streaks running on http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
