// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, body decoding,
and face image extraction from multipart forms or data URLs, ensuring
consistent error handling.
*/
package requestutil

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/validate"
)

// ErrNoImage is returned when a form carries neither an upload nor a capture.
var ErrNoImage = errors.New("request: no image supplied")

/*
DecodeJSON reads at most limit bytes of the request body and decodes them
into the target structure.

Returns:
  - error: apperr.TooLarge when the body exceeds limit, validate.ErrInvalidJSON
    if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}, limit int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, limit)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.TooLarge("Request body is too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ParseMultipart parses a multipart (or urlencoded) form bounded by limit.
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, limit int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, limit)

	err := request.ParseMultipartForm(limit)
	if errors.Is(err, http.ErrNotMultipart) {
		err = request.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.TooLarge("Image is too large")
		}
		return apperr.ValidationError("Malformed form submission")
	}
	return nil
}

/*
Image returns the face image of a parsed form.

The uploaded file under fileField wins; otherwise the data URL in
captureField (a camera capture rendered by the page) is decoded.

Returns:
  - []byte: raw image bytes
  - string: uploaded file name, empty for a capture
  - error: ErrNoImage when neither is present
*/
func Image(request *http.Request, fileField, captureField string) ([]byte, string, error) {
	if request.MultipartForm != nil {
		if files := request.MultipartForm.File[fileField]; len(files) > 0 {
			file, err := files[0].Open()
			if err != nil {
				return nil, "", err
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return nil, "", err
			}
			if len(data) > 0 {
				return data, files[0].Filename, nil
			}
		}
	}

	capture := strings.TrimSpace(request.FormValue(captureField))
	if capture == "" {
		return nil, "", ErrNoImage
	}

	data, err := DecodeDataURL(capture)
	if err != nil {
		return nil, "", err
	}
	return data, "", nil
}

/*
DecodeDataURL decodes "data:image/jpeg;base64,...." or a bare base64 string.
*/
func DecodeDataURL(value string) ([]byte, error) {
	if strings.HasPrefix(value, "data:") {
		comma := strings.IndexByte(value, ',')
		if comma < 0 || !strings.Contains(value[:comma], ";base64") {
			return nil, apperr.ValidationError("Captured image is not base64 encoded")
		}
		value = value[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(data) == 0 {
		return nil, apperr.ValidationError("Captured image could not be decoded")
	}
	return data, nil
}
