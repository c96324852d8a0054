// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/portaltest"
	"github.com/taibuivan/facegate/internal/session"
	"github.com/taibuivan/facegate/internal/users/account"
)

func newHarness(t *testing.T, upstream http.Handler) *portaltest.Harness {
	t.Helper()
	harness := portaltest.New(t, upstream)
	account.NewHandler(account.NewService(harness.Client), harness.View).RegisterRoutes(harness.Router, harness.Guards)
	return harness
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

/*
TestLogin_Success stores the session and redirects to the dashboard.
*/
func TestLogin_Success(t *testing.T) {
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"Login successful","token":"abc","user":{"id":7,"email":"a@b.com"}}`)
	}))
	browser := harness.Browser(t)

	resp, _ := browser.PostForm(t, "/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.True(t, browser.SignedIn())

	toasts := browser.Toasts(t)
	require.Len(t, toasts, 1)
	assert.Equal(t, session.ToastSuccess, toasts[0].Kind)
}

/*
TestLogin_InvalidCredentials shows the backend message above the form.
*/
func TestLogin_InvalidCredentials(t *testing.T) {
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"Invalid credentials"}`)
	}))
	browser := harness.Browser(t)

	resp, body := browser.PostForm(t, "/login", url.Values{"email": {"a@b.com"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="a@b.com"`)
	assert.False(t, browser.SignedIn())
}

/*
TestLogin_ValidationSkipsBackend never calls the backend for an empty form.
*/
func TestLogin_ValidationSkipsBackend(t *testing.T) {
	var calls atomic.Int32
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	browser := harness.Browser(t)

	resp, body := browser.PostForm(t, "/login", url.Values{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Email is required")
	assert.Contains(t, body, "Password is required")
	assert.Zero(t, calls.Load())
}

/*
TestLogin_NetworkFailure keeps the form and shows a toast.
*/
func TestLogin_NetworkFailure(t *testing.T) {
	harness := newHarness(t, nil)
	browser := harness.Browser(t)

	resp, body := browser.PostForm(t, "/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}})

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "toast-error")
	assert.Contains(t, body, "Network error")
	assert.False(t, browser.SignedIn())
}

/*
TestLogin_MalformedResponse treats an HTML success page as a connectivity failure.
*/
func TestLogin_MalformedResponse(t *testing.T) {
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>captive portal</html>")
	}))
	browser := harness.Browser(t)

	resp, body := browser.PostForm(t, "/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "unexpected response")
	assert.False(t, browser.SignedIn())
}

/*
TestGuestPages_RedirectSignedIn sends signed-in browsers to the dashboard.
*/
func TestGuestPages_RedirectSignedIn(t *testing.T) {
	harness := newHarness(t, nil)
	browser := harness.Browser(t)
	browser.SignIn(t, session.User{ID: "7", Email: "a@b.com"}, "abc")

	for _, path := range []string{"/login", "/signup"} {
		resp, _ := browser.Get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), path)
	}
}

/*
TestSignup_Success redirects to login with the backend message.
*/
func TestSignup_Success(t *testing.T) {
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"message":"User created successfully"}`)
	}))
	browser := harness.Browser(t)

	resp, _ := browser.PostForm(t, "/signup", url.Values{
		"full_name":        {"Ada Lovelace"},
		"email":            {"ada@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, browser.SignedIn())

	toasts := browser.Toasts(t)
	require.Len(t, toasts, 1)
	assert.Contains(t, toasts[0].Message, "User created successfully")
}

/*
TestSignup_FieldConflict places the backend message on the blamed input.
*/
func TestSignup_FieldConflict(t *testing.T) {
	harness := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"error":"Email already registered","field":"email"}`)
	}))
	browser := harness.Browser(t)

	resp, body := browser.PostForm(t, "/signup", url.Values{
		"full_name":        {"Ada Lovelace"},
		"email":            {"ada@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, `<span class="field-error">Email already registered</span>`)
}

/*
TestLogout clears the session and survives a repeat.
*/
func TestLogout(t *testing.T) {
	harness := newHarness(t, nil)
	browser := harness.Browser(t)
	browser.SignIn(t, session.User{ID: "7", Email: "a@b.com"}, "abc")

	for range 2 {
		resp, _ := browser.PostForm(t, "/logout", url.Values{})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.False(t, browser.SignedIn())
	}
}
