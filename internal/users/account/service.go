// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"strings"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
)

// Accounts is the part of the backend client this package needs.
type Accounts interface {
	Login(ctx context.Context, credentials backend.Credentials) (*backend.LoginResult, error)
	Signup(ctx context.Context, registration backend.Registration) (string, error)
}

// Service implements the account flows.
type Service struct {
	accounts Accounts
}

// NewService constructs a [Service].
func NewService(accounts Accounts) *Service {
	return &Service{accounts: accounts}
}

// Login validates the form, authenticates against the backend, and starts a
// session on authCtx. The session is stored before the method returns.
func (s *Service) Login(ctx context.Context, authCtx *auth.Context, form LoginForm) (*backend.LoginResult, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	result, err := s.accounts.Login(ctx, backend.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		return nil, err
	}

	if err := authCtx.Login(ctx, result.User, result.Token); err != nil {
		return nil, err
	}
	return result, nil
}

// Signup validates the form and registers the account. It returns the
// backend's confirmation message.
func (s *Service) Signup(ctx context.Context, form SignupForm) (string, error) {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return "", err
	}

	return s.accounts.Signup(ctx, backend.Registration{
		FullName: form.FullName,
		Email:    form.Email,
		Password: form.Password,
	})
}

// Logout ends the session on authCtx. No backend call is made.
func (s *Service) Logout(ctx context.Context, authCtx *auth.Context) error {
	return authCtx.Logout(ctx)
}
