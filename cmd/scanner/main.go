// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command scanner runs a kiosk that recognizes faces from a camera on a timer
// and logs every result.
//
// The camera is either an HTTP snapshot endpoint (CAMERA_SNAPSHOT_URL) or a
// directory of stills replayed in order (CAMERA_DIR).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/camera"
	"github.com/taibuivan/facegate/internal/platform/config"
	"github.com/taibuivan/facegate/internal/recognition"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", "facegate-scanner"))
	slog.SetDefault(log)

	cfg, err := config.LoadScanner()
	if err != nil {
		log.Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Debug {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With(slog.String("app", "facegate-scanner"))
		slog.SetDefault(log)
	}

	var device camera.Device
	if cfg.CameraSnapshotURL != "" {
		device = camera.NewSnapshotDevice(cfg.CameraSnapshotURL, cfg.CameraTimeout)
	} else {
		device = camera.NewDirDevice(cfg.CameraDir)
	}

	scanner := recognition.NewScanner(
		camera.NewController(device, log),
		backend.NewClient(cfg.BackendURL, cfg.BackendTimeout),
		recognition.ScannerOptions{
			Interval:  cfg.ScanInterval,
			Token:     cfg.BackendToken,
			Logger:    log,
			OnOutcome: report(log),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := scanner.Run(ctx); err != nil {
		log.Error("scanner_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// report logs the best match of every cycle.
func report(log *slog.Logger) func(recognition.Outcome) {
	return func(outcome recognition.Outcome) {
		switch {
		case outcome.Err != nil:
			log.Warn("scan_failed", slog.Any("error", outcome.Err))
		case outcome.Result.Recognized && outcome.Result.User != nil:
			user := outcome.Result.User
			log.Info("person_recognized",
				slog.String("name", user.Name),
				slog.String("department", user.Department),
				slog.Float64("confidence", user.Confidence),
				slog.String("band", user.Band()),
			)
		default:
			log.Info("no_match", slog.Int("candidates", len(outcome.Result.Matches)))
		}
	}
}
