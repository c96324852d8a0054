// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pages_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/pages"
	"github.com/taibuivan/facegate/internal/portaltest"
	"github.com/taibuivan/facegate/internal/session"
)

func newHarness(t *testing.T) *portaltest.Harness {
	t.Helper()
	harness := portaltest.New(t, nil)
	pages.NewHandler(harness.View).RegisterRoutes(harness.Router, harness.Guards)
	return harness
}

/*
TestHome renders the marketing sections with the header.
*/
func TestHome(t *testing.T) {
	browser := newHarness(t).Browser(t)

	resp, body := browser.Get(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, section := range []string{`id="hero"`, `id="workflow"`, `id="about-us"`, `id="team"`, `id="contact-us"`} {
		assert.Contains(t, body, section)
	}
	assert.Contains(t, body, `class="header"`)
	assert.Contains(t, body, `href="/login"`)
}

/*
TestDashboard_Guarded redirects signed-out browsers and greets signed-in ones.
*/
func TestDashboard_Guarded(t *testing.T) {
	harness := newHarness(t)

	guest := harness.Browser(t)
	resp, _ := guest.Get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	member := harness.Browser(t)
	member.SignIn(t, session.User{ID: "7", Username: "ada", Email: "ada@example.com"}, "abc")
	resp, body := member.Get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome, ada")
	assert.NotContains(t, body, `class="header"`)
}

/*
TestContact validates and confirms with a toast.
*/
func TestContact(t *testing.T) {
	browser := newHarness(t).Browser(t)

	resp, body := browser.PostForm(t, "/contact", url.Values{"name": {"Ada"}, "email": {"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Email is invalid")
	assert.Contains(t, body, "Message is required")

	resp, _ = browser.PostForm(t, "/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	toasts := browser.Toasts(t)
	require.Len(t, toasts, 1)
	assert.Equal(t, session.ToastSuccess, toasts[0].Kind)
}
