// dashboard is the session agent of the school-feeding dashboard. It holds
// the signed-in session, keeps the role's notification feed fresh, and
// serves both to the UI over a local HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-feeding-dashboard/internal/application/auth"
	"github.com/go-feeding-dashboard/internal/application/notification"
	"github.com/go-feeding-dashboard/internal/application/role"
	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/backend"
	"github.com/go-feeding-dashboard/internal/pkg/clock"
	"github.com/go-feeding-dashboard/internal/pkg/id"
	transporthttp "github.com/go-feeding-dashboard/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("dashboard: %v", err)
	}
}

func run() error {
	var envFile, addr, backendURL, driver, storagePath string
	flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&addr, "addr", "", "listen address (overrides AGENT_ADDR)")
	flagSet.StringVar(&backendURL, "backend", "", "backend base URL (overrides BACKEND_URL)")
	flagSet.StringVar(&driver, "storage", "", "session storage: file, memory, dynamo or redis (overrides STORAGE_DRIVER)")
	flagSet.StringVar(&storagePath, "storage-path", "", "session file for the file driver (overrides STORAGE_PATH)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if flagSet.Changed("addr") {
		cfg.ListenAddr = addr
	}
	if flagSet.Changed("backend") {
		cfg.BackendURL = backendURL
	}
	if flagSet.Changed("storage") {
		cfg.StorageDriver = driver
	}
	if flagSet.Changed("storage-path") {
		cfg.StoragePath = storagePath
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = id.New()
		if cfg.StorageDriver == config.StorageDynamo || cfg.StorageDriver == config.StorageRedis {
			log.Printf("WARN: INSTANCE_ID not set, using %s; the session will not survive a restart", cfg.InstanceID)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer closeStorage()
	store := session.NewStore(storage, logger)

	client, err := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	history := auth.NewHistory(domain.RouteLogin)
	authSvc := auth.NewService(auth.ServiceDeps{
		Backend:   client,
		Store:     store,
		Navigator: history,
		Redirect:  fullRedirect(history, logger),
		Logger:    logger,
	})
	poller := notification.NewPoller(notification.PollerDeps{
		Fetcher:  client,
		Store:    store,
		Clock:    clock.Real(),
		Interval: cfg.NotificationPollInterval,
		Logger:   logger,
	})
	defer poller.Unbind()

	resume(ctx, store, poller, history)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Auth:    authSvc,
		Store:   store,
		Poller:  poller,
		History: history,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // long-polls hold up to 60s
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("Agent listening on %s (env=%s, backend=%s, storage=%s)", cfg.ListenAddr, cfg.AppEnv, cfg.BackendURL, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down agent...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Println("Agent stopped")
	return nil
}

// resume rebinds the poller when a session survived the last run.
// fullRedirect is the logout fallback for callers without a navigator: the
// UI reloads at route, so history restarts there.
func fullRedirect(history *auth.History, logger *slog.Logger) func(route string) {
	return func(route string) {
		logger.Info("full redirect", "route", route)
		history.Reset(route)
	}
}

func resume(ctx context.Context, store session.Store, poller notification.Poller, history *auth.History) {
	sess, ok := store.Load(ctx)
	if !ok {
		return
	}
	history.Replace(role.ResolveDashboard(sess.Role))
	if r, ok := role.Canonical(sess.Role); ok {
		poller.Bind(r)
		log.Printf("Resumed session (role=%s)", r)
	}
}
