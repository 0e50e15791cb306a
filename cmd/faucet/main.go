package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zeckit-faucet/config"
	httpHandler "zeckit-faucet/internal/adapter/http/handler"
	"zeckit-faucet/internal/adapter/http/middleware"
	"zeckit-faucet/internal/adapter/shell"
	fileStorage "zeckit-faucet/internal/adapter/storage/file"
	pgStorage "zeckit-faucet/internal/adapter/storage/postgres"
	redisStorage "zeckit-faucet/internal/adapter/storage/redis"
	"zeckit-faucet/internal/adapter/zebra"
	"zeckit-faucet/internal/adapter/zingo"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/internal/service"
	"zeckit-faucet/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	bounds, err := cfg.Faucet.RequestBounds()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid faucet amount configuration")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("backend", cfg.Wallet.BackendURI).
		Str("min", bounds.Min.String()).
		Str("max", bounds.Max.String()).
		Str("default", bounds.Default.String()).
		Msg("Starting ZecKit Faucet")

	ctx := context.Background()

	// Ledger: a corrupt history file stops startup
	ledger, err := fileStorage.Load(cfg.Wallet.DataDir, logger.Component(log, "ledger"))
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Wallet.DataDir).Msg("Failed to load transaction history")
	}

	// Wallet engine and state
	runner := shell.NewRunner(log)
	engine := zingo.NewEngine(zingo.Options{
		CLIPath: cfg.Wallet.CLIPath,
		DataDir: cfg.Wallet.DataDir,
		Server:  cfg.Wallet.BackendURI,
		Chain:   cfg.Wallet.Chain,
	}, runner, logger.Component(log, "zingo"))
	walletSvc := service.NewWalletService(engine, ledger, log)

	if err := walletSvc.Open(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize wallet")
	}
	defer walletSvc.Close()

	if addr, err := walletSvc.UnifiedAddress(ctx); err == nil {
		bal, _ := walletSvc.Balance(ctx)
		log.Info().
			Str("address", addr).
			Str("balance", bal.TotalZEC().String()).
			Int("history_records", ledger.Len()).
			Str("history_file", ledger.Path()).
			Msg("Faucet wallet loaded")
	} else {
		log.Warn().Err(err).Msg("Could not read faucet address")
	}

	// Full node
	zebraClient := zebra.NewClient(cfg.Zebra, nil, logger.Component(log, "zebra"))
	healthCheckers := []ports.HealthChecker{zebra.NewHealthCheck(zebraClient)}

	faucetSvc := service.NewFaucetService(walletSvc, zebraClient, bounds, log)

	// Redis (optional): rate limiting
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else if cfg.RateLimit.Enabled {
		log.Warn().Msg("Rate limiting requires Redis, requests will not be limited")
	}

	// PostgreSQL (optional): audit trail
	var auditRepo ports.AuditRepository
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		auditRepo = pgStorage.NewAuditRepository(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	}
	auditSvc := service.NewAuditService(auditRepo, log)

	// Admin tokens
	var tokenSvc ports.TokenService
	if cfg.Admin.JWTSecret != "" {
		tokenSvc = service.NewJWTTokenService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, cfg.Admin.Issuer)
	} else {
		log.Info().Msg("Admin routes disabled (no JWT secret)")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		FaucetSvc:      faucetSvc,
		TokenSvc:       tokenSvc,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		RateLimitRule: middleware.RateLimitRule{
			Limit:  cfg.RateLimit.Requests,
			Window: cfg.RateLimit.Window,
		},
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
