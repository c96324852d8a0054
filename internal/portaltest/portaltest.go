// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package portaltest runs page handlers behind the portal's real session stack
for tests: signed browser cookie, in-memory browser storage, the auth
provider, and the guards.

Usage:

	harness := portaltest.New(t, upstream)
	handler.RegisterRoutes(harness.Router, harness.Guards)
	browser := harness.Browser(t)
	resp, body := browser.Get(t, "/dashboard")
*/
package portaltest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

// cookiePath is requested once per browser to obtain its cookie.
const cookiePath = "/__portaltest/cookie"

// Harness is a running portal with an upstream recognition backend double.
type Harness struct {
	Router *chi.Mux
	View   *view.Renderer
	Guards auth.Guards
	Client *backend.Client
	Store  *session.Store

	storage *recordingBackend
	server  *httptest.Server
}

// New starts a harness. upstream answers the backend client; nil means every
// backend call fails with a network error.
func New(t testing.TB, upstream http.Handler) *Harness {
	t.Helper()

	var backendURL string
	if upstream != nil {
		upstreamServer := httptest.NewServer(upstream)
		t.Cleanup(upstreamServer.Close)
		backendURL = upstreamServer.URL
	} else {
		closed := httptest.NewServer(http.NotFoundHandler())
		backendURL = closed.URL
		closed.Close()
	}

	renderer, err := view.New(auth.Decorate)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := &recordingBackend{Backend: session.NewMemoryBackend(time.Hour)}
	store := session.NewStore(logger)

	router := chi.NewRouter()
	router.Use(session.Attach(session.NewCookies("portaltest-secret", time.Hour, false), storage))
	router.Use(auth.Provide(store, time.Second))
	router.NotFound(renderer.NotFound().ServeHTTP)

	harness := &Harness{
		Router:  router,
		View:    renderer,
		Guards:  auth.Guards{Pending: renderer.Loading()},
		Client:  backend.NewClient(backendURL, 5*time.Second),
		Store:   store,
		storage: storage,
	}

	harness.server = httptest.NewServer(router)
	t.Cleanup(harness.server.Close)
	return harness
}

// URL returns the portal origin.
func (h *Harness) URL() string { return h.server.URL }

// recordingBackend remembers the last browser namespace it opened.
type recordingBackend struct {
	session.Backend

	mu   sync.Mutex
	last string
}

func (b *recordingBackend) Open(browserID string) session.Storage {
	b.mu.Lock()
	b.last = browserID
	b.mu.Unlock()
	return b.Backend.Open(browserID)
}

func (b *recordingBackend) lastOpened() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Browser is one cookie-keeping client that never follows redirects.
type Browser struct {
	harness *Harness
	client  *http.Client
	id      string
}

// Browser creates a browser and gives it a cookie.
func (h *Harness) Browser(t testing.TB) *Browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	browser := &Browser{
		harness: h,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}

	resp, _ := browser.Get(t, cookiePath)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	browser.id = h.storage.lastOpened()
	require.NotEmpty(t, browser.id)
	return browser
}

// Storage returns the browser's storage namespace.
func (b *Browser) Storage() session.Storage {
	return b.harness.storage.Open(b.id)
}

// SignIn stores a session for the browser as a completed login would.
func (b *Browser) SignIn(t testing.TB, user session.User, token string) {
	t.Helper()
	require.NoError(t, b.harness.Store.Persist(context.Background(), b.Storage(), session.Session{Token: token, User: user}))
}

// SignedIn reports whether the browser's storage holds a session.
func (b *Browser) SignedIn() bool {
	return b.harness.Store.Restore(context.Background(), b.Storage()) != nil
}

// Toasts returns the queued toasts without consuming them.
func (b *Browser) Toasts(t testing.TB) []session.Toast {
	t.Helper()
	toasts, err := session.PopToasts(context.Background(), b.Storage())
	require.NoError(t, err)
	for _, toast := range toasts {
		require.NoError(t, session.PushToast(context.Background(), b.Storage(), toast.Kind, toast.Message))
	}
	return toasts
}

// Do sends request and returns the response with its body read.
func (b *Browser) Do(t testing.TB, request *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := b.client.Do(request)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// Get requests path.
func (b *Browser) Get(t testing.TB, path string) (*http.Response, string) {
	t.Helper()
	request, err := http.NewRequest(http.MethodGet, b.harness.URL()+path, nil)
	require.NoError(t, err)
	return b.Do(t, request)
}

// PostForm submits an urlencoded form.
func (b *Browser) PostForm(t testing.TB, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	request, err := http.NewRequest(http.MethodPost, b.harness.URL()+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.Do(t, request)
}

// PostJSON posts payload as a script would.
func (b *Browser) PostJSON(t testing.TB, path string, payload any) (*http.Response, string) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, b.harness.URL()+path, bytes.NewReader(raw))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	return b.Do(t, request)
}

// PostMultipart submits a prepared multipart body.
func (b *Browser) PostMultipart(t testing.TB, path string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	request, err := http.NewRequest(http.MethodPost, b.harness.URL()+path, body)
	require.NoError(t, err)
	request.Header.Set("Content-Type", contentType)
	return b.Do(t, request)
}
