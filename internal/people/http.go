// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package people

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/facegate/internal/platform/request"
	"github.com/taibuivan/facegate/internal/platform/respond"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
	"github.com/taibuivan/facegate/pkg/pagination"
)

// Handler serves the add and remove pages and the JSON proxy.
type Handler struct {
	service *Service
	view    *view.Renderer
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service, renderer *view.Renderer) *Handler {
	return &Handler{service: service, view: renderer}
}

// RegisterRoutes mounts the people routes. Every route requires a session.
//
// # Endpoints
//   - GET/POST /add-people (alias /add-user)
//   - GET  /remove-people?q=&page=
//   - POST /remove-people/{id}/delete
//   - GET  /api/people
func (handler *Handler) RegisterRoutes(router chi.Router, guards auth.Guards) {
	router.Group(func(member chi.Router) {
		member.Use(guards.RequireAuth)

		for _, path := range []string{constants.RouteAddPeople, constants.RouteAddUser} {
			member.Get(path, handler.showAdd)
			member.Post(path, handler.add)
		}

		member.Get(constants.RouteRemovePeople, handler.list)
		member.Post(constants.RouteRemovePeople+"/{id}/delete", handler.remove)

		member.Get("/api/people", handler.listJSON)
	})
}

func (handler *Handler) showAdd(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageAddPeople, view.Page{Title: "Add Person"})
}

/*
add registers a person with the uploaded or captured face image.

POST /add-people

Response:
  - 303: redirect to the dashboard with a success toast
  - 400: inline validation errors (including a missing image)
  - 4xx: backend message on top of the form
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	page := view.Page{Title: "Add Person"}

	if err := requestutil.ParseMultipart(writer, request, constants.MaxUploadBytes); err != nil {
		handler.fail(writer, request, view.PageAddPeople, page, err)
		return
	}

	form := Form{}
	for _, field := range formFields {
		form[field] = strings.TrimSpace(request.FormValue(field))
	}
	page.Form = form

	image, filename, err := requestutil.Image(request, backend.ImageField, FieldCapture)
	if err != nil && !errors.Is(err, requestutil.ErrNoImage) {
		handler.fail(writer, request, view.PageAddPeople, page, err)
		return
	}

	created, err := handler.service.Add(ctx, tokenOf(request), form, image, filename)
	if err != nil {
		handler.fail(writer, request, view.PageAddPeople, page, err)
		return
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "person_added", slog.Int64("person_id", created.ID))
	session.Flash(ctx, session.ToastSuccess, fmt.Sprintf("%s has been added successfully!", form[FieldFullName]))
	http.Redirect(writer, request, constants.RouteDashboard, http.StatusSeeOther)
}

// list renders one page of the searched register.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := strings.TrimSpace(request.URL.Query().Get("q"))
	page := view.Page{Title: "Remove People"}

	listing, err := handler.service.List(request.Context(), tokenOf(request), query, pagination.FromRequest(request))
	if err != nil {
		feedback := backend.Explain(err, nil)
		handler.notify(request, err, feedback)
		page.Alert = "Could not load people data"
		page.Data = &Listing{Query: query}
		handler.view.Render(writer, request, feedback.Status, view.PageRemovePeople, page)
		return
	}

	page.Data = listing
	handler.view.Render(writer, request, http.StatusOK, view.PageRemovePeople, page)
}

/*
remove deletes one person and returns to the list.

POST /remove-people/{id}/delete

Response:
  - 303: back to the list, with a success toast or the backend's error as a toast
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	name := strings.TrimSpace(request.PostFormValue("name"))
	if name == "" {
		name = "Person"
	}

	back := constants.RouteRemovePeople
	returnQuery := url.Values{}
	if q := request.PostFormValue("q"); q != "" {
		returnQuery.Set("q", q)
	}
	if p := request.PostFormValue("page"); p != "" {
		returnQuery.Set("page", p)
	}
	if len(returnQuery) > 0 {
		back += "?" + returnQuery.Encode()
	}

	id, err := strconv.ParseInt(requestutil.Param(request, "id"), 10, 64)
	if err != nil || id <= 0 {
		session.Flash(ctx, session.ToastError, "Unknown person")
		http.Redirect(writer, request, back, http.StatusSeeOther)
		return
	}

	if err := handler.service.Delete(ctx, tokenOf(request), id); err != nil {
		feedback := backend.Explain(err, nil)
		if feedback.Toast == "" {
			session.Flash(ctx, session.ToastError, feedback.Alert)
		}
		handler.notify(request, err, feedback)
		http.Redirect(writer, request, back, http.StatusSeeOther)
		return
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "person_removed", slog.Int64("person_id", id))
	session.Flash(ctx, session.ToastSuccess, name+" removed successfully!")
	http.Redirect(writer, request, back, http.StatusSeeOther)
}

/*
listJSON proxies the register for scripts.

GET /api/people?q=&page=&limit=

Response:
  - 200: paginated people
  - 401: no session
  - 502/503: backend failure
*/
func (handler *Handler) listJSON(writer http.ResponseWriter, request *http.Request) {
	listing, err := handler.service.List(request.Context(), tokenOf(request),
		strings.TrimSpace(request.URL.Query().Get("q")), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, backend.Translate(err))
		return
	}
	respond.Paginated(writer, listing.People, listing.Meta)
}

// fail re-renders a form page with the error placed where it belongs.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, name string, page view.Page, err error) {
	feedback := backend.Explain(err, nil)
	handler.notify(request, err, feedback)

	page.Alert = feedback.Alert
	page.Errors = feedback.Fields
	handler.view.Render(writer, request, feedback.Status, name, page)
}

// notify logs and toasts failures the page cannot explain inline.
func (handler *Handler) notify(request *http.Request, err error, feedback backend.Feedback) {
	if feedback.Toast == "" {
		return
	}
	ctx := request.Context()
	ctxutil.GetLogger(ctx).WarnContext(ctx, "people_request_failed", slog.Any("error", err))
	session.Flash(ctx, session.ToastError, feedback.Toast)
}

// tokenOf returns the bearer token of the signed-in browser.
func tokenOf(request *http.Request) string {
	if authCtx := auth.FromContext(request.Context()); authCtx != nil {
		return authCtx.Token()
	}
	return ""
}
