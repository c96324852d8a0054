// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/taibuivan/facegate/internal/platform/apperr"
)

// noMatchMessage is shown when the upload scan finds nobody.
const noMatchMessage = "No matching person found"

// Recognize sends a still image as base64 JSON and returns the ranked matches.
// A face nobody matches is a successful, unrecognized [Result].
func (c *Client) Recognize(ctx context.Context, token string, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, apperr.ValidationError("Please capture or upload a face image")
	}

	payload := map[string]string{"image": base64.StdEncoding.EncodeToString(image)}
	req, err := jsonRequest("recognize", http.MethodPost, "/recognize", token, payload)
	if err != nil {
		return nil, err
	}

	var resp recognizeResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	result := &Result{
		Recognized: *resp.Recognized,
		Matches:    resp.Matches,
		User:       resp.User,
		Message:    resp.Message,
	}
	if result.Matches == nil {
		result.Matches = []Match{}
	}
	return result, nil
}

// RecognizeUpload sends an image file to the upload scan endpoint, which
// returns only the best match, and converts the answer into a [Result].
func (c *Client) RecognizeUpload(ctx context.Context, token string, image []byte, filename string) (*Result, error) {
	body, contentType, err := imageForm(nil, image, filename)
	if err != nil {
		return nil, err
	}

	var resp scanResponse
	req := request{
		op:          "scan",
		method:      http.MethodPost,
		path:        "/api/scan",
		token:       token,
		contentType: contentType,
		body:        body,
	}

	err = c.do(ctx, req, &resp)
	if IsStatus(err, http.StatusNotFound) {
		message := AsError(err).Message
		if message == "" {
			message = noMatchMessage
		}
		return &Result{Recognized: false, Matches: []Match{}, Message: message}, nil
	}
	if err != nil {
		return nil, err
	}

	result := resp.result()
	return &result, nil
}
