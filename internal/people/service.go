// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package people

import (
	"context"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/pkg/fold"
	"github.com/taibuivan/facegate/pkg/pagination"
)

// Directory is the part of the backend client this package needs.
type Directory interface {
	ListPeople(ctx context.Context, token string) ([]backend.Person, error)
	AddPerson(ctx context.Context, token string, person backend.NewPerson, image []byte, filename string) (*backend.Created, error)
	DeletePerson(ctx context.Context, token string, id int64) error
}

// Service implements the register operations.
type Service struct {
	directory Directory
}

// NewService constructs a [Service].
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// List fetches the register, filters it by query, and returns one page.
func (s *Service) List(ctx context.Context, token, query string, params pagination.Params) (*Listing, error) {
	all, err := s.directory.ListPeople(ctx, token)
	if err != nil {
		return nil, err
	}

	page, meta := pagination.Slice(Search(all, query), params)
	return &Listing{Query: query, People: page, Meta: meta}, nil
}

// All fetches the whole register.
func (s *Service) All(ctx context.Context, token string) ([]backend.Person, error) {
	return s.directory.ListPeople(ctx, token)
}

// Add validates the form and registers the person. A camera capture has no
// file name, so one is derived from the person's name.
func (s *Service) Add(ctx context.Context, token string, form Form, image []byte, filename string) (*backend.Created, error) {
	if err := form.Validate(len(image) > 0); err != nil {
		return nil, err
	}

	if filename == "" {
		filename = fold.Slug(form[FieldFullName])
	}
	return s.directory.AddPerson(ctx, token, form.Person(), image, filename)
}

// Delete removes a person from the register.
func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	return s.directory.DeletePerson(ctx, token, id)
}
