// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/view"
)

/*
TestHeaderVisible hides the marketing header on the dashboard and feature pages.
*/
func TestHeaderVisible(t *testing.T) {
	tests := []struct {
		path    string
		visible bool
	}{
		{"/", true},
		{"/login", true},
		{"/signup", true},
		{"/dashboard", false},
		{"/add-people", false},
		{"/add-user", false},
		{"/scan-people", false},
		{"/scan", false},
		{"/remove-people", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.visible, view.HeaderVisible(tt.path), tt.path)
	}
}

/*
TestRender_Layout checks the decorator output and header visibility in rendered pages.
*/
func TestRender_Layout(t *testing.T) {
	renderer, err := view.New(func(request *http.Request, page *view.Page) {
		page.Viewer = &view.Viewer{Name: "Ada Lovelace"}
		page.Toasts = []view.Toast{{Kind: "success", Message: "Saved"}}
	})
	require.NoError(t, err)

	t.Run("dashboard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil), http.StatusOK, view.PageDashboard, view.Page{})

		body := rec.Body.String()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Welcome, Ada Lovelace")
		assert.Contains(t, body, "toast-success")
		assert.NotContains(t, body, `class="header"`)
	})

	t.Run("home", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, view.PageHome, view.Page{})

		body := rec.Body.String()
		assert.Contains(t, body, `class="header"`)
		assert.Contains(t, body, "Logout")
	})
}

/*
TestRender_FormState refills values and shows inline errors.
*/
func TestRender_FormState(t *testing.T) {
	renderer, err := view.New(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	renderer.Render(rec, httptest.NewRequest(http.MethodPost, "/login", nil), http.StatusUnprocessableEntity, view.PageLogin, view.Page{
		Form:   map[string]string{"email": "a@b.com"},
		Errors: map[string]string{"password": "Password is required"},
		Alert:  "Invalid credentials",
	})

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body, `value="a@b.com"`)
	assert.Contains(t, body, "Password is required")
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, "/login")
}

/*
TestLoading renders the neutral spinner page.
*/
func TestLoading(t *testing.T) {
	renderer, err := view.New(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	renderer.Loading().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spinner")
	assert.NotContains(t, rec.Body.String(), "Welcome")
}

/*
TestError maps application errors onto the error page.
*/
func TestError(t *testing.T) {
	renderer, err := view.New(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	renderer.Error(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil), apperr.NotFound("Page"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

/*
TestStatic serves the embedded assets.
*/
func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	view.Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camera.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "getUserMedia")
}
