// Package main runs the strategy studio API server: strategy editing and
// validation, code generation, mock backtests, the template marketplace, and
// the onboarding survey, over PostgreSQL + ClickHouse + Redis or fully
// in-memory for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"strategy-studio/internal/auth"
	"strategy-studio/internal/backtest"
	"strategy-studio/internal/httpapi"
	"strategy-studio/internal/marketplace"
	"strategy-studio/internal/session"
	"strategy-studio/internal/storage/memory"
	"strategy-studio/internal/storage/migrations"
	chstore "strategy-studio/internal/storage/clickhouse"
	pgstore "strategy-studio/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for sessions")
	redisPassword := flag.String("redis-password", os.Getenv("REDIS_PASSWORD"), "Redis password")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse/Redis")
	assetBaseURL := flag.String("asset-base-url", envOr("ASSET_BASE_URL", "/assets"), "Base URL prefix for uploaded assets")
	loginDelay := flag.Duration("login-delay", 800*time.Millisecond, "Artificial login latency")
	backtestDelay := flag.Duration("backtest-step-delay", 120*time.Millisecond, "Per-trade simulation delay, drives the progress stream")
	requestTimeout := flag.Duration("request-timeout", 30*time.Second, "Budget for one mutating request")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "" || *redisAddr == "") {
		logger.Fatal("--postgres-dsn, --clickhouse-dsn and --redis-addr are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, sessions, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *redisAddr, *redisPassword, *assetBaseURL, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Wire services
	authenticator := auth.New(stores.Users, sessions, auth.WithLoginDelay(*loginDelay))
	engine := backtest.NewEngine(backtest.WithStepDelay(*backtestDelay))
	market := marketplace.NewService(stores.Strategies, stores.Reports)

	api := httpapi.NewServer(stores, sessions, authenticator, engine, market,
		httpapi.WithLogger(logger),
		httpapi.WithRequestTimeout(*requestTimeout),
	)

	srv := &http.Server{
		Addr:    *addr,
		Handler: api.Routes(),
	}

	// Handle shutdown signals
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Graceful shutdown failed: %v", err)
		}
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	logger.Printf("Listening on %s (memory=%v)", *addr, *useMemory)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}
	close(done)

	logger.Println("Shutdown complete")
}

// createStores creates all required stores plus the session store.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN, redisAddr, redisPassword, assetBaseURL string, useMemory bool) (httpapi.Stores, session.Store, func(), error) {
	if useMemory {
		stores := httpapi.Stores{
			Strategies: memory.NewStrategyStore(),
			Users:      memory.NewUserStore(),
			Reports:    memory.NewBacktestReportStore(),
			Trades:     memory.NewBacktestTradeStore(),
			Assets:     memory.NewAssetStore(assetBaseURL),
		}
		return stores, session.NewMemoryStore(), func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return httpapi.Stores{}, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return httpapi.Stores{}, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse (migrations create the database and return the connection)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return httpapi.Stores{}, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	// Redis sessions
	sessions := session.NewRedisStore(redisAddr, redisPassword, 0, session.DefaultTTL)
	if err := sessions.HealthCheck(ctx); err != nil {
		chConn.Close()
		pool.Close()
		return httpapi.Stores{}, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	stores := httpapi.Stores{
		Strategies: pgstore.NewStrategyStore(pool),
		Users:      pgstore.NewUserStore(pool),
		Reports:    pgstore.NewBacktestReportStore(pool),
		Trades:     chstore.NewBacktestTradeStore(chConn),
		// Uploaded assets stay in memory; the storefront only needs them to
		// survive a session, not a deploy.
		Assets: memory.NewAssetStore(assetBaseURL),
	}

	cleanup := func() {
		_ = sessions.Close()
		chConn.Close()
		pool.Close()
	}

	return stores, sessions, cleanup, nil
}

// envOr returns the env var value or a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads .env into the environment without overriding variables
// that are already set.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
