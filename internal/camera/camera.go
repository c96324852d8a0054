// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package camera models a capture device as a scoped resource.

A [Controller] owns at most one open [Stream]. Switching it on acquires the
stream; switching it off (or shutting down) releases it. Acquisition can fail
(device missing, permission denied, unreachable snapshot URL); the controller
then stays off and never holds a half-open stream.

Lifecycle:

	OFF ──On()──▶ ON ──Capture()──▶ Frame
	 ▲             │
	 └────Off()────┘
*/
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrOff is returned by Capture while the camera is off.
	ErrOff = errors.New("camera: off")

	// ErrClosed is returned by a stream used after Close.
	ErrClosed = errors.New("camera: stream closed")
)

// JPEGQuality is the quality of re-encoded frames.
const JPEGQuality = 90

// Frame is one still image captured from a stream.
type Frame struct {
	// JPEG is the rasterized image.
	JPEG       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// Device is a source of video that can be opened.
type Device interface {
	Open(ctx context.Context) (Stream, error)
	Name() string
}

// Stream is an open device.
type Stream interface {
	Capture(ctx context.Context) (Frame, error)
	Close() error
}

// Rasterize decodes an encoded image (JPEG, PNG, or GIF) and re-encodes it
// as a JPEG still.
func Rasterize(data []byte) (Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("camera: decode frame: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Frame{}, fmt.Errorf("camera: encode frame: %w", err)
	}

	bounds := img.Bounds()
	return Frame{
		JPEG:       buf.Bytes(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		CapturedAt: time.Now(),
	}, nil
}

// Controller switches one device on and off.
//
// # Concurrency
//
// All methods are safe for concurrent use. A capture racing with Off either
// completes on the old stream or fails with [ErrClosed].
type Controller struct {
	device Device
	logger *slog.Logger

	mu     sync.Mutex
	stream Stream
}

// NewController creates a controller in the off state.
func NewController(device Device, logger *slog.Logger) *Controller {
	return &Controller{device: device, logger: logger}
}

// On acquires the device. Calling On while on is a no-op.
func (c *Controller) On(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return nil
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "camera_acquire_failed",
			slog.String("device", c.device.Name()),
			slog.Any("error", err),
		)
		return fmt.Errorf("camera: open %s: %w", c.device.Name(), err)
	}

	c.stream = stream
	c.logger.InfoContext(ctx, "camera_on", slog.String("device", c.device.Name()))
	return nil
}

// Off releases the device. Calling Off while off is a no-op.
func (c *Controller) Off() error {
	c.mu.Lock()
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()

	if stream == nil {
		return nil
	}

	c.logger.Info("camera_off", slog.String("device", c.device.Name()))
	return stream.Close()
}

// Name returns the device name.
func (c *Controller) Name() string { return c.device.Name() }

// Active reports whether the camera is on.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// Capture takes a still from the open stream.
func (c *Controller) Capture(ctx context.Context) (Frame, error) {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()

	if stream == nil {
		return Frame{}, ErrOff
	}
	return stream.Capture(ctx)
}
