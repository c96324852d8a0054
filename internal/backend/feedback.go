// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"net/http"

	"github.com/taibuivan/facegate/internal/platform/apperr"
)

// Feedback is how a failed form submission is shown on the re-rendered page.
type Feedback struct {
	// Status is the HTTP status of the re-rendered page.
	Status int
	// Fields holds inline errors keyed by form input.
	Fields map[string]string
	// Alert is shown on top of the form.
	Alert string
	// Toast is a dismissible notification for failures the form cannot explain.
	Toast string
}

// Explain places err on a form page:
//
//   - validation errors become inline field errors
//   - backend rejections become the form alert, plus an inline error when the
//     backend named a field (renamed through inputs when the names differ)
//   - network and malformed-response failures become toasts
func Explain(err error, inputs map[string]string) Feedback {
	if backendErr := AsError(err); backendErr != nil {
		switch backendErr.Kind {
		case KindHTTP:
			feedback := Feedback{Status: backendErr.AppError().HTTPStatus, Alert: backendErr.UserMessage()}
			if backendErr.Field != "" {
				input := backendErr.Field
				if renamed, ok := inputs[input]; ok {
					input = renamed
				}
				feedback.Fields = map[string]string{input: backendErr.UserMessage()}
			}
			return feedback
		case KindNetwork:
			return Feedback{Status: http.StatusServiceUnavailable, Toast: backendErr.UserMessage()}
		default:
			return Feedback{Status: http.StatusBadGateway, Toast: backendErr.UserMessage()}
		}
	}

	if appErr := apperr.As(err); appErr != nil {
		if len(appErr.Details) > 0 {
			return Feedback{Status: appErr.HTTPStatus, Fields: appErr.FieldMap()}
		}
		if appErr.HTTPStatus < http.StatusInternalServerError {
			return Feedback{Status: appErr.HTTPStatus, Alert: appErr.Message}
		}
		return Feedback{Status: appErr.HTTPStatus, Toast: appErr.Message}
	}

	return Feedback{Status: http.StatusInternalServerError, Toast: apperr.Internal(err).Message}
}
