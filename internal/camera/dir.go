// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// errNoImages is returned when a directory holds no image files.
var errNoImages = errors.New("camera: directory holds no images")

// DirDevice replays the image files of a directory in name order, looping.
// It stands in for a camera on machines without one.
type DirDevice struct {
	dir string
}

// NewDirDevice creates a device over dir.
func NewDirDevice(dir string) *DirDevice {
	return &DirDevice{dir: dir}
}

// Name implements [Device].
func (d *DirDevice) Name() string { return "dir:" + d.dir }

// Open lists the images of the directory.
func (d *DirDevice) Open(_ context.Context) (Stream, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("camera: read %s: %w", d.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(d.dir, entry.Name())
		detected, err := mimetype.DetectFile(path)
		if err != nil || !strings.HasPrefix(detected.String(), "image/") {
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, errNoImages
	}

	sort.Strings(files)
	return &dirStream{files: files}, nil
}

type dirStream struct {
	mu     sync.Mutex
	files  []string
	next   int
	closed bool
}

func (s *dirStream) Capture(_ context.Context) (Frame, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Frame{}, ErrClosed
	}
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("camera: read frame: %w", err)
	}
	return Rasterize(data)
}

func (s *dirStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
