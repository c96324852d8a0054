// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recognition

import (
	"context"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/validate"
)

// Recognizer is the part of the backend client this package needs.
type Recognizer interface {
	Recognize(ctx context.Context, token string, image []byte) (*backend.Result, error)
	RecognizeUpload(ctx context.Context, token string, image []byte, filename string) (*backend.Result, error)
}

// Service runs recognitions.
type Service struct {
	recognizer Recognizer
}

// NewService constructs a [Service].
func NewService(recognizer Recognizer) *Service {
	return &Service{recognizer: recognizer}
}

// Scan recognizes a submitted still (page form).
func (s *Service) Scan(ctx context.Context, token string, image []byte, filename string) (*backend.Result, error) {
	if len(image) == 0 {
		return nil, validate.RequiredError(backend.ImageField, "Please capture or upload a face image")
	}
	return s.recognizer.RecognizeUpload(ctx, token, image, filename)
}

// Frame recognizes one auto-capture frame and returns the ranked matches.
func (s *Service) Frame(ctx context.Context, token string, image []byte) (*backend.Result, error) {
	return s.recognizer.Recognize(ctx, token, image)
}
