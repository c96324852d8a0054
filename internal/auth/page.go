// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

// Decorate fills the viewer and the pending toasts of every rendered page.
// Rendering a page consumes the toasts.
func Decorate(request *http.Request, page *view.Page) {
	ctx := request.Context()

	if authCtx := FromContext(ctx); authCtx != nil {
		if user, ok := authCtx.CurrentUser(); ok {
			page.Viewer = &view.Viewer{Name: user.DisplayName(), Email: user.Email}
		}
	}

	storage := session.StorageFrom(ctx)
	if storage == nil {
		return
	}

	toasts, err := session.PopToasts(ctx, storage)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "toast_pop_failed", slog.Any("error", err))
		return
	}
	for _, toast := range toasts {
		page.Toasts = append(page.Toasts, view.Toast{Kind: toast.Kind, Message: toast.Message})
	}
}
