// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/platform/constants"
)

func browserCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == constants.BrowserCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestCookies_IssueAndReuse issues a cookie once and reuses its browser id.
*/
func TestCookies_IssueAndReuse(t *testing.T) {
	cookies := NewCookies("secret", time.Hour, true)

	rec := httptest.NewRecorder()
	first, err := cookies.Browser(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookie := browserCookie(t, rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()

	second, err := cookies.Browser(rec, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Nil(t, browserCookie(t, rec), "a fresh cookie is not reissued")
}

/*
TestCookies_Rejects replaces tampered or foreign cookies with a new browser.
*/
func TestCookies_Rejects(t *testing.T) {
	cookies := NewCookies("secret", time.Hour, false)
	other := NewCookies("other-secret", time.Hour, false)

	rec := httptest.NewRecorder()
	original, err := other.Browser(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	values := []string{browserCookie(t, rec).Value, "garbage", ""}
	for _, value := range values {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: constants.BrowserCookieName, Value: value})
		rec := httptest.NewRecorder()

		id, err := cookies.Browser(rec, req)
		require.NoError(t, err)
		assert.NotEqual(t, original, id)
		assert.NotNil(t, browserCookie(t, rec))
	}
}

/*
TestCookies_Refresh reissues the same id past half of the lifetime and
rejects expired cookies.
*/
func TestCookies_Refresh(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cookies := NewCookies("secret", time.Hour, false)
	cookies.now = func() time.Time { return clock }

	rec := httptest.NewRecorder()
	id, err := cookies.Browser(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := browserCookie(t, rec)

	// 1. Past half-life: same id, new cookie
	clock = clock.Add(40 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()

	refreshed, err := cookies.Browser(rec, req)
	require.NoError(t, err)
	assert.Equal(t, id, refreshed)
	require.NotNil(t, browserCookie(t, rec))

	// 2. Past expiry of the original cookie: new browser
	clock = clock.Add(time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	expired, err := cookies.Browser(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, id, expired)
}
