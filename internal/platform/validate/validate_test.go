// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Ada", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value, "Name is required")

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				assert.Equal(t, "Name is required", ae.Details[0].Message)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_LooseEmail checks the permissive signup email rule.
*/
func TestValidator_LooseEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"simple", "a@b.com", true},
		{"subdomain", "user@mail.example.org", true},
		{"empty_is_left_to_required", "", true},
		{"missing_at", "ab.com", false},
		{"missing_dot", "a@bcom", false},
		{"spaces_only", "a @ b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.LooseEmail("email", tt.email, "Email is invalid")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Email checks the strict RFC 5322 email rule.
*/
func TestValidator_Email(t *testing.T) {
	v := &validate.Validator{}
	v.Email("email", "a@b.com")
	assert.False(t, v.HasErrors())

	v.Email("email", "not an email")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_SignupChain mirrors the signup form rules end to end.
*/
func TestValidator_SignupChain(t *testing.T) {
	v := &validate.Validator{}
	v.Required("fullName", "", "Full name is required").
		Required("email", "a@b.com", "Email is required").
		LooseEmail("email", "a@b.com", "Email is invalid").
		MinLen("password", "12345", 6, "Password must be at least 6 characters").
		Match("confirmPassword", "123456", "12345", "Passwords do not match")

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)

	fields := ae.FieldMap()
	assert.Len(t, fields, 3)
	assert.Equal(t, "Full name is required", fields["fullName"])
	assert.Equal(t, "Password must be at least 6 characters", fields["password"])
	assert.Equal(t, "Passwords do not match", fields["confirmPassword"])
}

/*
TestValidator_Range ensures integer bounds are inclusive.
*/
func TestValidator_Range(t *testing.T) {
	v := &validate.Validator{}
	v.Range("age", 0, 0, 150).Range("age", 150, 0, 150)
	assert.False(t, v.HasErrors())

	v.Range("age", 151, 0, 150)
	assert.True(t, v.HasErrors())
}

/*
TestRequiredError builds a single-field error.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("faceImage", "Please capture or upload a face image")
	assert.Equal(t, "faceImage", err.Details[0].Field)
	assert.Equal(t, 400, err.HTTPStatus)
}
