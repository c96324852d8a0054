// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recognition_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/camera"
	"github.com/taibuivan/facegate/internal/recognition"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// stillDevice serves the same JPEG forever.
type stillDevice struct{ jpeg []byte }

func (d stillDevice) Name() string { return "still" }

func (d stillDevice) Open(context.Context) (camera.Stream, error) { return d, nil }

func (d stillDevice) Capture(context.Context) (camera.Frame, error) {
	return camera.Frame{JPEG: d.jpeg, Width: 2, Height: 2, CapturedAt: time.Now()}, nil
}

func (d stillDevice) Close() error { return nil }

// scriptedRecognizer returns queued answers, optionally blocking on gate.
type scriptedRecognizer struct {
	mu      sync.Mutex
	answers []error
	calls   int
	gate    chan struct{}
}

func (r *scriptedRecognizer) Recognize(ctx context.Context, _ string, image []byte) (*backend.Result, error) {
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if len(r.answers) > 0 {
		err := r.answers[0]
		r.answers = r.answers[1:]
		if err != nil {
			return nil, err
		}
	}
	return &backend.Result{Recognized: false, Matches: []backend.Match{}}, nil
}

func (r *scriptedRecognizer) RecognizeUpload(ctx context.Context, token string, image []byte, _ string) (*backend.Result, error) {
	return r.Recognize(ctx, token, image)
}

func newScanner(t *testing.T, recognizer *scriptedRecognizer, outcomes chan<- recognition.Outcome) *recognition.Scanner {
	t.Helper()
	controller := camera.NewController(stillDevice{jpeg: stillJPEG(t)}, quiet)
	require.NoError(t, controller.On(context.Background()))
	t.Cleanup(func() { _ = controller.Off() })

	return recognition.NewScanner(controller, recognizer, recognition.ScannerOptions{
		Interval:  time.Millisecond,
		Logger:    quiet,
		OnOutcome: func(outcome recognition.Outcome) { outcomes <- outcome },
	})
}

/*
TestScanner_SkipsWhileInFlight captures nothing until the pending call returns.
*/
func TestScanner_SkipsWhileInFlight(t *testing.T) {
	recognizer := &scriptedRecognizer{gate: make(chan struct{})}
	outcomes := make(chan recognition.Outcome, 4)
	scanner := newScanner(t, recognizer, outcomes)
	ctx := context.Background()

	require.True(t, scanner.Tick(ctx))
	assert.False(t, scanner.Tick(ctx))
	assert.Equal(t, recognition.StateAwaitingResult, scanner.Machine().State())

	close(recognizer.gate)
	require.NoError(t, scanner.Wait())

	outcome := <-outcomes
	require.NoError(t, outcome.Err)
	assert.False(t, outcome.Result.Recognized)
	assert.NotEmpty(t, outcome.Frame.JPEG)
	assert.Equal(t, recognition.StateIdle, scanner.Machine().State())
}

/*
TestScanner_FailureReturnsToIdle keeps scanning after a failed recognition.
*/
func TestScanner_FailureReturnsToIdle(t *testing.T) {
	recognizer := &scriptedRecognizer{answers: []error{errors.New("backend down")}}
	outcomes := make(chan recognition.Outcome, 4)
	scanner := newScanner(t, recognizer, outcomes)
	ctx := context.Background()

	require.True(t, scanner.Tick(ctx))
	require.NoError(t, scanner.Wait())
	assert.EqualError(t, (<-outcomes).Err, "backend down")

	require.True(t, scanner.Tick(ctx))
	require.NoError(t, scanner.Wait())
	assert.NoError(t, (<-outcomes).Err)
	assert.Equal(t, 2, recognizer.calls)
}

/*
TestScanner_CameraOff skips ticks while the camera is off.
*/
func TestScanner_CameraOff(t *testing.T) {
	controller := camera.NewController(stillDevice{jpeg: stillJPEG(t)}, quiet)
	scanner := recognition.NewScanner(controller, &scriptedRecognizer{}, recognition.ScannerOptions{Interval: time.Millisecond, Logger: quiet})

	assert.False(t, scanner.Tick(context.Background()))
	assert.Equal(t, recognition.StateIdle, scanner.Machine().State())
}

/*
TestScanner_Run scans on the timer and releases the camera on cancel.
*/
func TestScanner_Run(t *testing.T) {
	controller := camera.NewController(stillDevice{jpeg: stillJPEG(t)}, quiet)
	outcomes := make(chan recognition.Outcome, 64)
	scanner := recognition.NewScanner(controller, &scriptedRecognizer{}, recognition.ScannerOptions{
		Interval:  time.Millisecond,
		Logger:    quiet,
		OnOutcome: func(outcome recognition.Outcome) {
			select {
			case outcomes <- outcome:
			default:
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scanner.Run(ctx) }()

	select {
	case <-outcomes:
	case <-time.After(2 * time.Second):
		t.Fatal("no scan outcome")
	}

	cancel()
	require.NoError(t, <-done)
	assert.False(t, controller.Active())
}
