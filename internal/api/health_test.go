// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/api"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type readyBody struct {
	Data struct {
		Status string `json:"status"`
		Checks []struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	} `json:"data"`
}

func ok(context.Context) error { return nil }

/*
TestLiveness always answers 200.
*/
func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, discard)

	rec := httptest.NewRecorder()
	liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rec.Body.String())
}

/*
TestReadiness reports each dependency in order and degrades on any failure.
*/
func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks []api.Check
		status int
		label  string
	}{
		{"no_checks", nil, http.StatusOK, "ready"},
		{"all_ok", []api.Check{{Name: "storage", Run: ok}, {Name: "backend", Run: ok}}, http.StatusOK, "ready"},
		{"backend_down", []api.Check{
			{Name: "storage", Run: ok},
			{Name: "backend", Run: func(context.Context) error { return errors.New("connection refused") }},
		}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(api.HealthDependencies{Checks: tt.checks}, discard)

			rec := httptest.NewRecorder()
			readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, rec.Code)

			var body readyBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.label, body.Data.Status)
			require.Len(t, body.Data.Checks, len(tt.checks))
			for i, check := range tt.checks {
				assert.Equal(t, check.Name, body.Data.Checks[i].Name)
			}
		})
	}
}

/*
TestReadiness_Deadline bounds a hanging dependency.
*/
func TestReadiness_Deadline(t *testing.T) {
	hanging := api.Check{Name: "backend", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{Checks: []api.Check{hanging}}, discard)

	request := httptest.NewRequest(http.MethodGet, "/ready", nil)
	ctx, cancel := context.WithCancel(request.Context())
	cancel()

	rec := httptest.NewRecorder()
	readiness(rec, request.WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "context canceled")
}
