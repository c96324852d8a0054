// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/facegate/internal/platform/ctxkey"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
)

// Attach resolves the browser cookie and places the browser's [Storage] in
// the request context. Requests without a usable cookie get a new browser.
func Attach(cookies *Cookies, backend Backend) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			browserID, err := cookies.Browser(writer, request)
			if err != nil {
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "browser_cookie_failed",
					slog.Any("error", err),
				)
				http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx := WithStorage(request.Context(), backend.Open(browserID))
			ctx = context.WithValue(ctx, ctxkey.KeyBrowserKey, storageKey(browserID))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// WithStorage returns a context carrying storage.
func WithStorage(ctx context.Context, storage Storage) context.Context {
	return context.WithValue(ctx, ctxkey.KeyBrowser, storage)
}

// StorageFrom returns the browser storage of ctx, or nil outside [Attach].
func StorageFrom(ctx context.Context) Storage {
	storage, _ := ctx.Value(ctxkey.KeyBrowser).(Storage)
	return storage
}

// BrowserKey returns the hashed identifier of the requesting browser, or ""
// outside [Attach]. It is stable for the lifetime of the browser cookie.
func BrowserKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxkey.KeyBrowserKey).(string)
	return key
}

// Flash queues a toast for the browser of ctx and logs failures instead of
// returning them; a lost notification must not fail the request.
func Flash(ctx context.Context, kind, message string) {
	storage := StorageFrom(ctx)
	if storage == nil {
		return
	}
	if err := PushToast(ctx, storage, kind, message); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "toast_push_failed", slog.Any("error", err))
	}
}
