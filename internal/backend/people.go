// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/facegate/internal/platform/apperr"
)

// ImageField is the multipart field carrying a face image.
const ImageField = "faceImage"

// ListPeople returns every registered person.
func (c *Client) ListPeople(ctx context.Context, token string) ([]Person, error) {
	var people []Person
	req := request{op: "list_people", method: http.MethodGet, path: "/api/people", token: token}
	if err := c.do(ctx, req, &people); err != nil {
		return nil, err
	}
	if people == nil {
		people = []Person{}
	}
	return people, nil
}

// AddPerson registers a person with a face image.
func (c *Client) AddPerson(ctx context.Context, token string, person NewPerson, image []byte, filename string) (*Created, error) {
	body, contentType, err := imageForm(person.fields(), image, filename)
	if err != nil {
		return nil, err
	}

	var created Created
	req := request{
		op:          "add_person",
		method:      http.MethodPost,
		path:        "/api/people",
		token:       token,
		contentType: contentType,
		body:        body,
	}
	if err := c.do(ctx, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePerson removes a registered person. The response body is ignored.
func (c *Client) DeletePerson(ctx context.Context, token string, id int64) error {
	req := request{
		op:     "delete_person",
		method: http.MethodDelete,
		path:   "/api/people/" + strconv.FormatInt(id, 10),
		token:  token,
	}
	return c.do(ctx, req, nil)
}

// imageForm encodes fields and the image as multipart/form-data.
//
// The image type is sniffed from its bytes; anything that is not an image is
// rejected as a validation error before a request is sent.
func imageForm(fields [][2]string, image []byte, filename string) (*bytes.Buffer, string, error) {
	if len(image) == 0 {
		return nil, "", apperr.ValidationError("Please capture or upload a face image",
			apperr.FieldError{Field: ImageField, Message: "Please capture or upload a face image"})
	}

	detected := mimetype.Detect(image)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, "", apperr.ValidationError("The selected file is not an image",
			apperr.FieldError{Field: ImageField, Message: fmt.Sprintf("Unsupported file type %s", detected.String())})
	}

	if filename == "" {
		filename = "face"
	}
	if !strings.Contains(filename, ".") {
		filename += detected.Extension()
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ImageField, filename))
	header.Set("Content-Type", detected.String())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
