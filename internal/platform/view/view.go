// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the portal's HTML pages.

Templates and static assets are embedded in the binary. Every page is parsed
together with the shared layout, which owns the header, the toast stack, and
the footer.

Architecture:

  - Page: the data every template receives (viewer, toasts, form state, payload).
  - Decorator: fills per-request fields (viewer, toasts) so handlers only set
    what is specific to their page.
  - Header visibility is decided from the request path, not by handlers.
*/
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	"github.com/taibuivan/facegate/internal/platform/respond"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page names.
const (
	PageHome         = "home"
	PageLogin        = "login"
	PageSignup       = "signup"
	PageDashboard    = "dashboard"
	PageAddPeople    = "add_people"
	PageRemovePeople = "remove_people"
	PageScan         = "scan"
	PageLoading      = "loading"
	PageError        = "error"
)

var pageNames = []string{
	PageHome, PageLogin, PageSignup, PageDashboard, PageAddPeople,
	PageRemovePeople, PageScan, PageLoading, PageError,
}

// hiddenHeader lists the paths that render without the marketing header.
var hiddenHeader = map[string]bool{
	constants.RouteDashboard:    true,
	constants.RouteScanPeople:   true,
	constants.RouteScan:         true,
	constants.RouteAddPeople:    true,
	constants.RouteAddUser:      true,
	constants.RouteRemovePeople: true,
}

// HeaderVisible reports whether the marketing header is shown on path.
func HeaderVisible(path string) bool {
	return !hiddenHeader[path]
}

// Viewer is the signed-in person as the layout shows them.
type Viewer struct {
	Name  string
	Email string
}

// Toast is a notification rendered once by the layout.
type Toast struct {
	Kind    string
	Message string
}

// Page is the data passed to every template.
type Page struct {
	Title  string
	Path   string
	Viewer *Viewer
	Toasts []Toast

	// Form holds submitted values to refill inputs after a failed submit.
	Form map[string]string
	// Errors maps input names to inline error messages.
	Errors map[string]string
	// Alert is the message shown on top of a form.
	Alert string

	Data any
}

// ShowHeader reports whether the layout renders the marketing header.
func (p Page) ShowHeader() bool { return HeaderVisible(p.Path) }

// Value returns the submitted value of a form input.
func (p Page) Value(name string) string { return p.Form[name] }

// Error returns the inline error of a form input.
func (p Page) Error(name string) string { return p.Errors[name] }

// Decorator fills the request-scoped fields of a page before rendering.
type Decorator func(request *http.Request, page *Page)

// Renderer executes the embedded templates.
type Renderer struct {
	pages    map[string]*template.Template
	decorate Decorator
}

// New parses every page with the layout. decorate may be nil.
func New(decorate Decorator) (*Renderer, error) {
	funcs := template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"percent": func(value float64) string {
			return fmt.Sprintf("%.1f%%", value)
		},
		"appTitle": func() string { return constants.AppTitle },
	}

	renderer := &Renderer{pages: make(map[string]*template.Template, len(pageNames)), decorate: decorate}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		renderer.pages[name] = tmpl
	}
	return renderer, nil
}

// Render writes page name with status. Execution happens into a buffer so a
// template failure never leaves a half-written page.
func (r *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		respond.Error(writer, request, apperr.Internal(fmt.Errorf("view: unknown page %q", name)))
		return
	}

	if page.Path == "" {
		page.Path = request.URL.Path
	}
	if r.decorate != nil {
		r.decorate(request, &page)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, "layout", page); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "view_render_failed",
			slog.String("page", name),
			slog.Any("error", err),
		)
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buf.WriteTo(writer)
}

// Error renders err on the error page with its mapped status.
func (r *Renderer) Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := respond.Classify(request, err)
	r.Render(writer, request, appError.HTTPStatus, PageError, Page{
		Title: http.StatusText(appError.HTTPStatus),
		Alert: appError.Message,
		Data:  appError.HTTPStatus,
	})
}

// Loading is the neutral page shown while the session restore is pending.
// It reloads itself shortly.
func (r *Renderer) Loading() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		r.Render(writer, request, http.StatusOK, PageLoading, Page{Title: "Loading"})
	})
}

// NotFound renders the error page for unknown routes.
func (r *Renderer) NotFound() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		r.Error(writer, request, apperr.NotFound("Page"))
	})
}

// Static serves the embedded assets (stylesheet and scripts).
func Static() http.Handler {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(assets))
}
