// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"context"
	"net/http"

	"github.com/taibuivan/facegate/internal/session"
)

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, credentials Credentials) (*LoginResult, error) {
	req, err := jsonRequest("login", http.MethodPost, "/login", "", credentials)
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	return &LoginResult{
		Message: resp.Message,
		Token:   resp.Token,
		User: session.User{
			ID:       resp.User.ID,
			Username: resp.User.Username,
			FullName: resp.User.FullName,
			Email:    resp.User.Email,
		},
	}, nil
}

// Signup registers an account and returns the service's confirmation message.
func (c *Client) Signup(ctx context.Context, registration Registration) (string, error) {
	req, err := jsonRequest("signup", http.MethodPost, "/signup", "", registration)
	if err != nil {
		return "", err
	}

	var resp messageResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
