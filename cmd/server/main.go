/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the wallet server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load config (defaults, YAML file, WALLET_* environment)
  3. Initialize logger and, if configured, the SQLite audit journal
  4. Create API handler and load the opening scenario
  5. Start the settlement scheduler (if enabled)
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config    YAML config path (default: wallet.yaml, optional)
  -port      HTTP server port, overrides config when set
  -journal   SQLite journal path, overrides config when set
             Use ":memory:" for an in-memory journal

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the settlement scheduler and close the journal
  4. Exit

EXAMPLES:
  ./server -config=./wallet.yaml
  ./server -port=3000 -journal=":memory:"
  WALLET_SCENARIO=empty ./server

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config sources
*/
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

	"github.com/sirupsen/logrus"
	"github.com/warp/wallet-engine/api"
	"github.com/warp/wallet-engine/config"
	"github.com/warp/wallet-engine/logging"
	"github.com/warp/wallet-engine/store/sqlite"
	"github.com/warp/wallet-engine/wallet"
)

func main() {
	// Flags
	configPath := flag.String("config", "wallet.yaml", "YAML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	journalPath := flag.String("journal", "", "SQLite journal path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *journalPath != "" {
		cfg.Journal.Path = *journalPath
	}

	log, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}

	limits, err := cfg.WalletLimits()
	if err != nil {
		log.Fatalf("Invalid limits: %v", err)
	}

	// Journal is optional
	var journal wallet.Journal
	if cfg.Journal.Path != "" {
		j, err := sqlite.New(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("Failed to open journal: %v", err)
		}
		defer j.Close()
		journal = j
		log.WithField("path", cfg.Journal.Path).Info("audit journal enabled")
	}

	handler, err := api.NewHandler(api.Options{
		Limits:   &limits,
		Journal:  journal,
		Logger:   log,
		Scenario: cfg.Scenario,
	})
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}

	settler := api.NewSettlementScheduler(handler)
	settler.Enabled = cfg.Settlement.Enabled
	settler.CheckInterval = cfg.Settlement.Interval
	settler.SettleAfter = cfg.Settlement.After
	settler.Start()
	defer settler.Stop()

	router := api.NewRouter(handler, api.DefaultRouterOptions())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Infof("API available at http://localhost:%d/api/wallet", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
