// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the login, signup, and logout pages.

Accounts live in the recognition backend. This package validates the forms,
forwards them, and turns a successful login into a session through the
request's [auth.Context].

# Security

Login and signup are guest-only pages: a signed-in browser is redirected to
the dashboard by the RequireGuest guard before any handler here runs.
*/
package account

import (
	"strings"

	"github.com/taibuivan/facegate/internal/platform/validate"
)

// # Form Fields

const (
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// backendInputs renames backend field names onto signup inputs.
var backendInputs = map[string]string{
	"username": FieldFullName,
	"name":     FieldFullName,
	"email":    FieldEmail,
}

// LoginForm is a submitted login form.
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks the form before any network call.
func (f LoginForm) Validate() error {
	v := &validate.Validator{}
	v.Required(FieldEmail, f.Email, "Email is required").
		Required(FieldPassword, f.Password, "Password is required")
	return v.Err()
}

// SignupForm is a submitted signup form.
type SignupForm struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the form before any network call.
func (f SignupForm) Validate() error {
	v := &validate.Validator{}
	v.Required(FieldFullName, f.FullName, "User name is required").
		Required(FieldEmail, f.Email, "Email is required").
		LooseEmail(FieldEmail, strings.TrimSpace(f.Email), "Email is invalid").
		MinLen(FieldPassword, f.Password, MinPasswordLength, "Password must be at least 6 characters long").
		Match(FieldConfirmPassword, f.ConfirmPassword, f.Password, "Passwords do not match")
	return v.Err()
}
