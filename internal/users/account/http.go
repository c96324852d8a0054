// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

var errNoAuthContext = errors.New("account: auth context missing")

// Handler implements the account pages.
type Handler struct {
	service *Service
	view    *view.Renderer
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, renderer *view.Renderer) *Handler {
	return &Handler{service: service, view: renderer}
}

// RegisterRoutes mounts the account pages on router.
//
// # Endpoints
//   - GET/POST /login  : guest only
//   - GET/POST /signup : guest only
//   - POST /logout     : always allowed, idempotent
func (handler *Handler) RegisterRoutes(router chi.Router, guards auth.Guards) {
	router.Group(func(guest chi.Router) {
		guest.Use(guards.RequireGuest)

		guest.Get(constants.RouteLogin, handler.showLogin)
		guest.Post(constants.RouteLogin, handler.login)
		guest.Get(constants.RouteSignup, handler.showSignup)
		guest.Post(constants.RouteSignup, handler.signup)
	})

	router.Post(constants.RouteLogout, handler.logout)
}

func (handler *Handler) showLogin(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageLogin, view.Page{Title: "Login"})
}

/*
login authenticates against the backend and starts the session.

POST /login

Response:
  - 303: redirect to the dashboard
  - 400: inline validation errors
  - 401: backend message on top of the form
  - 502/503: form re-rendered with a toast
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	authCtx := auth.FromContext(request.Context())
	if authCtx == nil {
		handler.view.Error(writer, request, apperr.Internal(errNoAuthContext))
		return
	}

	form := LoginForm{
		Email:    request.PostFormValue(FieldEmail),
		Password: request.PostFormValue(FieldPassword),
	}

	result, err := handler.service.Login(request.Context(), authCtx, form)
	if err != nil {
		handler.fail(writer, request, view.PageLogin, view.Page{
			Title: "Login",
			Form:  map[string]string{FieldEmail: form.Email},
		}, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Login successful!"
	}
	session.Flash(request.Context(), session.ToastSuccess, message)
	http.Redirect(writer, request, constants.RouteDashboard, http.StatusSeeOther)
}

func (handler *Handler) showSignup(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageSignup, view.Page{Title: "Sign up"})
}

/*
signup registers an account and sends the browser to the login page.

POST /signup

Response:
  - 303: redirect to /login with a success toast
  - 400: inline validation errors
  - 409: backend message placed on the email or name input
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	form := SignupForm{
		FullName:        request.PostFormValue(FieldFullName),
		Email:           request.PostFormValue(FieldEmail),
		Password:        request.PostFormValue(FieldPassword),
		ConfirmPassword: request.PostFormValue(FieldConfirmPassword),
	}

	message, err := handler.service.Signup(request.Context(), form)
	if err != nil {
		handler.fail(writer, request, view.PageSignup, view.Page{
			Title: "Sign up",
			Form:  map[string]string{FieldFullName: form.FullName, FieldEmail: form.Email},
		}, err)
		return
	}

	if message == "" {
		message = "Registration successful!"
	}
	session.Flash(request.Context(), session.ToastSuccess, message+" Please log in.")
	http.Redirect(writer, request, constants.RouteLogin, http.StatusSeeOther)
}

// logout clears the session and returns to the home page.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if authCtx := auth.FromContext(ctx); authCtx != nil {
		if err := handler.service.Logout(ctx, authCtx); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "session_clear_failed", slog.Any("error", err))
		}
	}

	session.Flash(ctx, session.ToastInfo, "You have been logged out.")
	http.Redirect(writer, request, constants.RouteHome, http.StatusSeeOther)
}

// fail re-renders a form page with the error placed where it belongs.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, name string, page view.Page, err error) {
	feedback := backend.Explain(err, backendInputs)

	if feedback.Toast != "" {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).WarnContext(ctx, "account_request_failed",
			slog.String("page", name),
			slog.Any("error", err),
		)
		session.Flash(ctx, session.ToastError, feedback.Toast)
	}

	page.Alert = feedback.Alert
	page.Errors = feedback.Fields
	handler.view.Render(writer, request, feedback.Status, name, page)
}
