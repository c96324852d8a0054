// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pages serves the marketing home page, its contact form, and the
// signed-in dashboard.
package pages

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	"github.com/taibuivan/facegate/internal/platform/validate"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

// maxContactMessage bounds the contact message length.
const maxContactMessage = 2000

// ContactForm is a submitted contact form.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Validate checks the contact form.
func (f ContactForm) Validate() error {
	v := &validate.Validator{}
	v.Required("name", f.Name, "Name is required").
		Required("email", f.Email, "Email is required").
		LooseEmail("email", f.Email, "Email is invalid").
		Required("message", f.Message, "Message is required").
		MaxLen("message", f.Message, maxContactMessage)
	return v.Err()
}

// Handler serves the pages.
type Handler struct {
	view *view.Renderer
}

// NewHandler constructs a [Handler].
func NewHandler(renderer *view.Renderer) *Handler {
	return &Handler{view: renderer}
}

// RegisterRoutes mounts the pages on router.
func (handler *Handler) RegisterRoutes(router chi.Router, guards auth.Guards) {
	router.Get(constants.RouteHome, handler.home)
	router.Post(constants.RouteContact, handler.contact)
	router.With(guards.RequireAuth).Get(constants.RouteDashboard, handler.dashboard)
}

func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageHome, view.Page{})
}

// contact accepts a message from the home page. Nothing is sent upstream.
func (handler *Handler) contact(writer http.ResponseWriter, request *http.Request) {
	form := ContactForm{
		Name:    strings.TrimSpace(request.PostFormValue("name")),
		Email:   strings.TrimSpace(request.PostFormValue("email")),
		Message: strings.TrimSpace(request.PostFormValue("message")),
	}

	if err := form.Validate(); err != nil {
		appErr := apperr.As(err)
		handler.view.Render(writer, request, appErr.HTTPStatus, view.PageHome, view.Page{
			Path:   constants.RouteHome,
			Form:   map[string]string{"name": form.Name, "email": form.Email, "message": form.Message},
			Errors: appErr.FieldMap(),
		})
		return
	}

	ctx := request.Context()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "contact_message_received",
		slog.String("email", form.Email),
		slog.Int("length", len(form.Message)),
	)

	session.Flash(ctx, session.ToastSuccess, "Thank you for your message! We will get back to you soon.")
	http.Redirect(writer, request, constants.RouteHome+"#contact-us", http.StatusSeeOther)
}

func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageDashboard, view.Page{Title: "Dashboard"})
}
