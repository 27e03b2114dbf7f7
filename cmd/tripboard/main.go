package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"tripboard/internal/commands"
	"tripboard/internal/config"
	"tripboard/internal/enrich"
	"tripboard/internal/itinerary"
	appLog "tripboard/internal/log"
	"tripboard/internal/scrape"
	"tripboard/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
}

func main() {
	// Subcommands run before any server wiring.
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	appLog.Info("tripboard starting", "version", "0.1.0")

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		appLog.Debug(".env loaded")
	}

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	conf.ApplyEnv()

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"trip_start", conf.TripStart,
		"state_path", conf.StatePath,
		"autosave", conf.AutosaveCron,
		"headless", conf.Scrape.Headless,
		"ai_enabled", conf.AI.APIKey != "",
		"basic_auth", conf.BasicAuth != nil,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Itinerary board, restored from the last snapshot when present.
	store := itinerary.NewStore()
	if err := store.Load(conf.StatePath); err != nil {
		appLog.Error("failed to load itinerary state", err, "state_path", conf.StatePath)
		os.Exit(1)
	}

	// Periodic autosave of the board. Shutdown does a final save, the
	// cron schedule just bounds how much a crash can lose.
	sched := cron.New()
	if _, err := sched.AddFunc(conf.AutosaveCron, func() {
		if err := store.Save(conf.StatePath); err != nil {
			appLog.Error("autosave failed", err, "state_path", conf.StatePath)
		} else {
			appLog.Debug("autosave complete", "state_path", conf.StatePath)
		}
	}); err != nil {
		appLog.Error("invalid autosave schedule", err, "autosave", conf.AutosaveCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	scraper := scrape.New(scrape.Options{
		Headless:    conf.Scrape.Headless,
		NavTimeout:  conf.NavTimeout(),
		SettleDelay: conf.SettleDelay(),
		MaxPhotos:   conf.Scrape.MaxPhotos,
	})
	enricher := enrich.NewClient(conf.AI.APIKey, conf.AI.Model, conf.AI.Endpoint)
	if !enricher.Enabled() {
		appLog.Info("AI enrichment disabled, GEMINI_API_KEY not set")
	}

	server := web.NewServer(conf, store, scraper, enricher)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("HTTP server shutdown failed", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}

	// Final snapshot so edits made since the last autosave survive.
	if err := store.Save(conf.StatePath); err != nil {
		appLog.Error("final save failed", err, "state_path", conf.StatePath)
	}

	appLog.Info("tripboard exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")

	flag.Parse()

	return cfg
}
