// Reflectd is the reflection daemon of the point-mapping pipeline.
//
// It serves the feedback loop over HTTP: reflecting on mapping outcomes,
// suggesting mappings for new points, and running batch diagnostics over
// mapping and point batches. Pattern memory is persisted in a local Badger
// store.
//
// Usage:
//
//	# Start with defaults
//	reflectd
//
//	# Configure via file and environment
//	reflectd -config ~/.config/reflectd/config.yaml
//	REFLECTD_SERVER_HTTP_PORT=9191 reflectd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reflectd/internal/analysis"
	"github.com/fyrsmithlabs/reflectd/internal/config"
	"github.com/fyrsmithlabs/reflectd/internal/kvstore"
	"github.com/fyrsmithlabs/reflectd/internal/logging"
	"github.com/fyrsmithlabs/reflectd/internal/memory"
	"github.com/fyrsmithlabs/reflectd/internal/quality"
	"github.com/fyrsmithlabs/reflectd/internal/reflection"
	"github.com/fyrsmithlabs/reflectd/internal/strategy"
	"github.com/fyrsmithlabs/reflectd/pkg/server"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/reflectd/config.yaml)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  reflectd           Start the reflectd daemon\n")
			fmt.Fprintf(os.Stderr, "  reflectd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("reflectd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the reflectd server and blocks until the context is cancelled.
//
// Initialization order: configuration, logger, Badger-backed persistence,
// pattern memory, the reflection service, and finally the HTTP server.
// Shutdown flushes pattern memory before closing the store.
func run(ctx context.Context, configPath string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting reflectd",
		zap.String("version", version),
		zap.String("commit", gitCommit))

	persist, err := kvstore.NewBadger(kvstore.BadgerConfig{
		Path:       cfg.Storage.Path,
		InMemory:   cfg.Storage.InMemory,
		SyncWrites: cfg.Storage.SyncWrites,
	}, logger.Named("kvstore"))
	if err != nil {
		return fmt.Errorf("opening pattern storage: %w", err)
	}
	defer func() {
		if err := persist.Close(); err != nil {
			logger.Warn("closing pattern storage", zap.Error(err))
		}
	}()

	store, err := memory.NewStore(memory.Config{
		Persistence: persist,
		CacheTTL:    cfg.Memory.CacheTTL,
		FlushEvery:  cfg.Memory.FlushEvery,
	}, logger.Named("memory"))
	if err != nil {
		return fmt.Errorf("initializing pattern memory: %w", err)
	}

	svc := reflection.NewService(
		store,
		quality.NewAssessor(logger.Named("quality")),
		strategy.NewSelector(store, logger.Named("strategy")),
		analysis.NewEngine(logger.Named("analysis")),
		logger.Named("reflection"),
	)

	srv := server.NewServer(cfg.Server, svc, store, logger.Named("server"))

	err = srv.Start(ctx)
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	// Final write-behind flush so increments since the last cadence
	// flush survive the restart.
	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := store.Close(flushCtx); err != nil {
		logger.Warn("final pattern store flush failed", zap.Error(err))
	}

	return nil
}
