// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	"github.com/taibuivan/facegate/internal/platform/respond"
	"github.com/taibuivan/facegate/internal/session"
)

// errMissingStorage means Provide was mounted without session.Attach before it.
var errMissingStorage = errors.New("auth: browser storage not attached")

// Rule selects which browsers a guard admits.
type Rule int

const (
	// RuleSignedIn admits signed-in browsers and sends others to the login page.
	RuleSignedIn Rule = iota
	// RuleGuest admits signed-out browsers and sends others to the dashboard.
	RuleGuest
)

// Outcome is the result of one guard evaluation.
type Outcome int

const (
	Pending Outcome = iota
	Allow
	Redirect
)

// Decision is an [Outcome] plus the redirect target when there is one.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide evaluates rule against the current auth state. While loading, no
// redirect decision is made.
func Decide(loading, authenticated bool, rule Rule) Decision {
	if loading {
		return Decision{Outcome: Pending}
	}

	switch rule {
	case RuleGuest:
		if authenticated {
			return Decision{Outcome: Redirect, Location: constants.RouteDashboard}
		}
	default:
		if !authenticated {
			return Decision{Outcome: Redirect, Location: constants.RouteLogin}
		}
	}
	return Decision{Outcome: Allow}
}

// # Middleware

// Provide attaches a restored [Context] to every request.
//
// The restore gets at most budget; when the browser storage is slower than
// that, the request proceeds with the Context still loading and the guards
// answer with the pending page instead of guessing.
func Provide(store *session.Store, budget time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			storage := session.StorageFrom(ctx)
			if storage == nil {
				respond.Error(writer, request, apperr.Internal(errMissingStorage))
				return
			}

			authCtx := New(store, storage)
			go authCtx.Init(ctx)

			timer := time.NewTimer(budget)
			select {
			case <-authCtx.Done():
			case <-timer.C:
				ctxutil.GetLogger(ctx).WarnContext(ctx, "session_restore_slow",
					slog.Duration("budget", budget),
				)
			}
			timer.Stop()

			if user, ok := authCtx.CurrentUser(); ok {
				ctxutil.SetUserID(ctx, user.ID.String())
			}

			next.ServeHTTP(writer, request.WithContext(WithContext(ctx, authCtx)))
		})
	}
}

// Guards enforces page access rules. Pending renders the neutral loading page.
type Guards struct {
	Pending http.Handler
}

// RequireAuth admits signed-in browsers only.
func (g Guards) RequireAuth(next http.Handler) http.Handler {
	return g.guard(RuleSignedIn, next)
}

// RequireGuest admits signed-out browsers only (login and signup pages).
func (g Guards) RequireGuest(next http.Handler) http.Handler {
	return g.guard(RuleGuest, next)
}

func (g Guards) guard(rule Rule, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		loading, authenticated := true, false
		if authCtx := FromContext(request.Context()); authCtx != nil {
			loading, authenticated = authCtx.Loading(), authCtx.IsAuthenticated()
		}

		decision := Decide(loading, authenticated, rule)

		switch decision.Outcome {
		case Allow:
			next.ServeHTTP(writer, request)

		case Pending:
			writer.Header().Set("Cache-Control", "no-store")
			g.Pending.ServeHTTP(writer, request)

		case Redirect:
			// Script clients cannot follow a page redirect meaningfully.
			if wantsJSON(request) {
				if rule == RuleSignedIn {
					respond.Error(writer, request, apperr.Unauthorized("Please log in to continue"))
				} else {
					respond.Error(writer, request, apperr.Forbidden("Already logged in"))
				}
				return
			}
			http.Redirect(writer, request, decision.Location, http.StatusSeeOther)
		}
	})
}

// wantsJSON reports whether the caller is a script rather than a page load.
func wantsJSON(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(request.Header.Get("Content-Type"), "application/json")
}
