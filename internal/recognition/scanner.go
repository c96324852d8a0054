// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recognition

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/camera"
)

// Outcome is the end of one kiosk capture cycle.
type Outcome struct {
	Frame  camera.Frame
	Result *backend.Result
	Err    error
}

// ScannerOptions configures a [Scanner].
type ScannerOptions struct {
	// Interval between capture attempts.
	Interval time.Duration
	// Token is sent with every recognition call. Optional.
	Token string
	// OnOutcome receives every finished cycle. It runs on the recognition
	// goroutine and must not block for long.
	OnOutcome func(Outcome)
	Logger    *slog.Logger
}

// Scanner captures frames from a camera on a timer and recognizes them,
// with at most one recognition in flight.
type Scanner struct {
	controller *camera.Controller
	recognizer Recognizer
	machine    *Machine
	opts       ScannerOptions
	group      errgroup.Group
}

// NewScanner constructs a [Scanner]. The controller is switched on by Run.
func NewScanner(controller *camera.Controller, recognizer Recognizer, opts ScannerOptions) *Scanner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OnOutcome == nil {
		opts.OnOutcome = func(Outcome) {}
	}
	return &Scanner{
		controller: controller,
		recognizer: recognizer,
		machine:    NewMachine(),
		opts:       opts,
	}
}

// Machine exposes the scanner's state machine.
func (s *Scanner) Machine() *Machine { return s.machine }

/*
Run turns the camera on and scans every Interval until ctx is cancelled.
The camera is turned off and in-flight recognitions are awaited before
Run returns.
*/
func (s *Scanner) Run(ctx context.Context) error {
	if err := s.controller.On(ctx); err != nil {
		return err
	}
	defer s.controller.Off()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.opts.Logger.InfoContext(ctx, "scanner_started",
		slog.String("camera", s.controller.Name()),
		slog.Duration("interval", s.opts.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			err := s.group.Wait()
			s.opts.Logger.Info("scanner_stopped")
			return err
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

/*
Tick runs one capture attempt. It reports false without capturing when the
previous frame is still being recognized or the camera is off. Recognition
continues in the background; call Wait to join it.
*/
func (s *Scanner) Tick(ctx context.Context) bool {
	if !s.machine.Tick() {
		s.opts.Logger.DebugContext(ctx, "scan_tick_skipped", slog.String("state", s.machine.State().String()))
		return false
	}

	frame, err := s.controller.Capture(ctx)
	if err != nil {
		s.machine.Complete()
		if errors.Is(err, camera.ErrOff) {
			return false
		}
		s.opts.Logger.WarnContext(ctx, "scan_capture_failed", slog.Any("error", err))
		s.opts.OnOutcome(Outcome{Err: err})
		return true
	}

	if err := s.machine.Submit(); err != nil {
		s.machine.Complete()
		return false
	}

	s.group.Go(func() error {
		defer s.machine.Complete()

		result, err := s.recognizer.Recognize(ctx, s.opts.Token, frame.JPEG)
		if err != nil {
			s.opts.Logger.WarnContext(ctx, "scan_recognize_failed", slog.Any("error", err))
		} else {
			s.opts.Logger.InfoContext(ctx, "scan_recognized",
				slog.Bool("recognized", result.Recognized),
				slog.Int("matches", len(result.Matches)),
			)
		}
		s.opts.OnOutcome(Outcome{Frame: frame, Result: result, Err: err})
		return nil
	})
	return true
}

// Wait blocks until every started recognition has finished.
func (s *Scanner) Wait() error {
	return s.group.Wait()
}
