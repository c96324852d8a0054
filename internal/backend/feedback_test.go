// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/apperr"
)

/*
TestExplain places each failure class on the part of the page that shows it.
*/
func TestExplain(t *testing.T) {
	inputs := map[string]string{"username": "full_name"}

	t.Run("validation_inline", func(t *testing.T) {
		feedback := backend.Explain(apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "email", Message: "Email is required"}), inputs)

		assert.Equal(t, http.StatusBadRequest, feedback.Status)
		assert.Equal(t, "Email is required", feedback.Fields["email"])
		assert.Empty(t, feedback.Alert)
		assert.Empty(t, feedback.Toast)
	})

	t.Run("rejection_alert", func(t *testing.T) {
		feedback := backend.Explain(&backend.Error{Kind: backend.KindHTTP, Status: 401, Message: "Invalid credentials"}, inputs)

		assert.Equal(t, http.StatusUnauthorized, feedback.Status)
		assert.Equal(t, "Invalid credentials", feedback.Alert)
		assert.Empty(t, feedback.Toast)
	})

	t.Run("rejection_field_renamed", func(t *testing.T) {
		feedback := backend.Explain(&backend.Error{Kind: backend.KindHTTP, Status: 409, Message: "Username taken", Field: "username"}, inputs)

		assert.Equal(t, "Username taken", feedback.Fields["full_name"])
	})

	t.Run("network_toast", func(t *testing.T) {
		feedback := backend.Explain(&backend.Error{Kind: backend.KindNetwork, Err: errors.New("refused")}, inputs)

		assert.Equal(t, http.StatusServiceUnavailable, feedback.Status)
		assert.Contains(t, feedback.Toast, "Network error")
		assert.Empty(t, feedback.Alert)
	})

	t.Run("malformed_toast", func(t *testing.T) {
		feedback := backend.Explain(&backend.Error{Kind: backend.KindMalformed, Err: errors.New("html")}, inputs)

		assert.Equal(t, http.StatusBadGateway, feedback.Status)
		assert.NotEmpty(t, feedback.Toast)
	})

	t.Run("unknown_error", func(t *testing.T) {
		feedback := backend.Explain(errors.New("boom"), inputs)

		assert.Equal(t, http.StatusInternalServerError, feedback.Status)
		assert.Equal(t, "An unexpected error occurred", feedback.Toast)
	})
}
