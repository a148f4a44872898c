package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"m3u-mirror-failover/config"
	"m3u-mirror-failover/handlers"
	"m3u-mirror-failover/logger"
	"m3u-mirror-failover/updater"
)

// Exit codes for scripting use: 0 = updated or no-op, 1 = extraction or
// input failure, 2 = no working server found.
func exitCode(outcome updater.Outcome) int {
	switch outcome {
	case updater.OutcomeUpdated, updater.OutcomeNoOp:
		return 0
	case updater.OutcomeNoLink:
		return 1
	default:
		return 2
	}
}

func main() {
	// manually set time zone
	if tz := os.Getenv("TZ"); tz != "" {
		var err error
		time.Local, err = time.LoadLocation(tz)
		if err != nil {
			logger.Default.Errorf("error loading location '%s': %v", tz, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.FromEnv()
	config.SetConfig(cfg)

	if !cfg.WatchMode {
		report := updater.NewRunner(cfg).Run(ctx)
		if payload, err := report.JSON(); err == nil {
			logger.Default.Debugf("Run report: %s", string(payload))
		}
		os.Exit(exitCode(report.Outcome))
	}

	instance, err := updater.Initialize(ctx, cfg)
	if err != nil {
		logger.Default.Fatalf("Error initializing watch mode: %v", err)
	}

	status := handlers.NewStatusHandler(instance)
	http.HandleFunc("/status", status.Status)
	http.HandleFunc("/runs", status.Runs)
	http.HandleFunc("/history", status.History)

	logger.Default.Logf("Watch mode is running on %s (schedule: %s)", cfg.ListenAddr, cfg.SyncCron)
	logger.Default.Log("Status Endpoint is running (`/status`)")
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		logger.Default.Fatalf("HTTP server error: %v", err)
	}
}
