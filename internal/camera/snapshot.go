// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// maxSnapshotBytes bounds one snapshot download.
const maxSnapshotBytes = 16 << 20

// SnapshotDevice reads stills from an HTTP snapshot URL, as exposed by most
// IP cameras.
type SnapshotDevice struct {
	url    string
	client *http.Client
}

// NewSnapshotDevice creates a device for url.
func NewSnapshotDevice(url string, timeout time.Duration) *SnapshotDevice {
	return &SnapshotDevice{url: url, client: &http.Client{Timeout: timeout}}
}

// Name implements [Device].
func (d *SnapshotDevice) Name() string { return "snapshot:" + d.url }

// Open takes one probe snapshot so an unreachable camera fails acquisition
// instead of the first capture.
func (d *SnapshotDevice) Open(ctx context.Context) (Stream, error) {
	stream := &snapshotStream{device: d}
	if _, err := stream.Capture(ctx); err != nil {
		return nil, err
	}
	return stream, nil
}

type snapshotStream struct {
	device *SnapshotDevice
	closed atomic.Bool
}

func (s *snapshotStream) Capture(ctx context.Context) (Frame, error) {
	if s.closed.Load() {
		return Frame{}, ErrClosed
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.device.url, nil)
	if err != nil {
		return Frame{}, err
	}

	resp, err := s.device.client.Do(request)
	if err != nil {
		return Frame{}, fmt.Errorf("camera: snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Frame{}, fmt.Errorf("camera: snapshot: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return Frame{}, fmt.Errorf("camera: snapshot: %w", err)
	}

	if detected := mimetype.Detect(data); !strings.HasPrefix(detected.String(), "image/") {
		return Frame{}, fmt.Errorf("camera: snapshot is %s, not an image", detected.String())
	}
	return Rasterize(data)
}

func (s *snapshotStream) Close() error {
	s.closed.Store(true)
	return nil
}
