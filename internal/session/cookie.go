// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/facegate/internal/platform/constants"
)

// browserClaims is the payload of the browser cookie.
type browserClaims struct {
	BrowserID string `json:"bid"`
	jwt.RegisteredClaims
}

// Cookies issues and verifies the signed browser cookie.
//
// The cookie carries only a random browser id; the session lives server side
// in the namespace that id opens.
type Cookies struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCookies creates a cookie codec. ttl bounds both the JWT and the cookie.
func NewCookies(secret string, ttl time.Duration, secure bool) *Cookies {
	return &Cookies{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Browser returns the browser id of the request, issuing a new cookie when
// the current one is missing, invalid, or past half of its lifetime.
func (c *Cookies) Browser(writer http.ResponseWriter, request *http.Request) (string, error) {
	if cookie, err := request.Cookie(constants.BrowserCookieName); err == nil {
		claims, err := c.parse(cookie.Value)
		if err == nil {
			if c.fresh(claims) {
				return claims.BrowserID, nil
			}
			return claims.BrowserID, c.issue(writer, claims.BrowserID)
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("session_browser_id_failed: %w", err)
	}
	browserID := id.String()
	return browserID, c.issue(writer, browserID)
}

// fresh reports whether more than half of the cookie lifetime remains.
func (c *Cookies) fresh(claims *browserClaims) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Sub(c.now()) > c.ttl/2
}

// issue signs browserID and sets the cookie.
func (c *Cookies) issue(writer http.ResponseWriter, browserID string) error {
	now := c.now()
	claims := browserClaims{
		BrowserID: browserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.BrowserIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("session_cookie_sign_failed: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.BrowserCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(c.ttl),
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// parse verifies the signature, issuer, and expiry of a cookie value.
func (c *Cookies) parse(value string) (*browserClaims, error) {
	claims := &browserClaims{}

	token, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.BrowserIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.BrowserID == "" {
		return nil, errors.New("session: browser cookie has no id")
	}
	return claims, nil
}
