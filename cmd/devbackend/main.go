// devbackend serves the backend endpoints the dashboard agent consumes from
// in-memory fixtures, for local development and demos.
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

	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/devbackend"
	jwtinfra "github.com/go-feeding-dashboard/internal/infrastructure/jwt"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("devbackend: %v", err)
	}
}

func run() error {
	var envFile, addr string
	flagSet := pflag.NewFlagSet("devbackend", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&addr, "addr", "", "listen address (overrides DEV_BACKEND_ADDR)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()
	if flagSet.Changed("addr") {
		cfg.DevBackendAddr = addr
	}

	signer, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}
	if cfg.JWTPrivateKeyPath == "" {
		log.Println("WARN: no JWT key files configured, using an ephemeral key")
	}

	dir := devbackend.NewDirectory(0)
	feeds := devbackend.NewFeeds()
	if err := devbackend.Seed(dir, feeds); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.DevBackendAddr,
		Handler: devbackend.NewRouter(cfg, &devbackend.Deps{
			Directory: dir,
			Feeds:     feeds,
			Signer:    signer,
			Logger:    slog.Default(),
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Dev backend listening on %s (fixture password %q)", cfg.DevBackendAddr, devbackend.FixturePassword)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down dev backend...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Println("Dev backend stopped")
	return nil
}
