// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recognition

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/apperr"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/facegate/internal/platform/request"
	"github.com/taibuivan/facegate/internal/platform/respond"
	"github.com/taibuivan/facegate/internal/platform/validate"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/session"
)

// FieldCapture holds a camera capture rendered by the scan page.
const FieldCapture = "capture"

// frameRequest is one auto-capture frame posted by the scan page.
type frameRequest struct {
	Image string `json:"image"`
}

// Handler serves the scan page and the auto-capture endpoint.
type Handler struct {
	service  *Service
	machines *Machines
	view     *view.Renderer
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service, machines *Machines, renderer *view.Renderer) *Handler {
	return &Handler{service: service, machines: machines, view: renderer}
}

// RegisterRoutes mounts the scan routes behind the auth guard.
//
// # Endpoints
//   - GET/POST /scan-people (alias GET /scan)
//   - POST     /scan-people/frames
func (handler *Handler) RegisterRoutes(router chi.Router, guards auth.Guards) {
	router.Group(func(member chi.Router) {
		member.Use(guards.RequireAuth)

		member.Get(constants.RouteScanPeople, handler.show)
		member.Get(constants.RouteScan, handler.show)
		member.Post(constants.RouteScanPeople, handler.scan)
		member.Post(constants.RouteScanPeople+"/frames", handler.frame)
	})
}

func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) {
	handler.view.Render(writer, request, http.StatusOK, view.PageScan, view.Page{Title: "Scan Face"})
}

/*
scan recognizes an uploaded or captured still and renders the outcome.

POST /scan-people

Response:
  - 200: the scan page with the match card (or the no-match message)
  - 400: inline error when no image was supplied
  - 502/503: the page with an error toast
*/
func (handler *Handler) scan(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	page := view.Page{Title: "Scan Face"}

	if err := requestutil.ParseMultipart(writer, request, constants.MaxUploadBytes); err != nil {
		handler.fail(writer, request, page, err)
		return
	}

	image, filename, err := requestutil.Image(request, backend.ImageField, FieldCapture)
	if err != nil && !errors.Is(err, requestutil.ErrNoImage) {
		handler.fail(writer, request, page, err)
		return
	}
	if filename == "" {
		filename = "capture.jpg"
	}

	result, err := handler.service.Scan(ctx, tokenOf(request), image, filename)
	if err != nil {
		handler.fail(writer, request, page, err)
		return
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "face_scanned",
		slog.Bool("recognized", result.Recognized),
		slog.Int("matches", len(result.Matches)),
	)

	page.Data = result
	handler.view.Render(writer, request, http.StatusOK, view.PageScan, page)
}

/*
frame recognizes one auto-capture frame of the requesting browser.

POST /scan-people/frames

Request Body:
  - image: string (required, data URL or bare base64)

Response:
  - 200: the recognition [backend.Result]
  - 202: {"skipped": true} while an earlier frame is still being recognized
  - 400: missing or undecodable image
  - 502/503: backend failure
*/
func (handler *Handler) frame(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	machine := handler.machines.Get(browserOf(request))
	if !machine.Tick() {
		respond.Accepted(writer, map[string]bool{"skipped": true})
		return
	}
	defer machine.Complete()

	var body frameRequest
	if err := requestutil.DecodeJSON(writer, request, &body, constants.MaxFrameBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	capture := strings.TrimSpace(body.Image)
	if capture == "" {
		respond.Error(writer, request, validate.RequiredError("image", "Please capture a face image"))
		return
	}

	image, err := requestutil.DecodeDataURL(capture)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := machine.Submit(); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	result, err := handler.service.Frame(ctx, tokenOf(request), image)
	if err != nil {
		respond.Error(writer, request, backend.Translate(err))
		return
	}

	respond.OK(writer, result)
}

// fail re-renders the scan page with the error placed where it belongs.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, page view.Page, err error) {
	ctx := request.Context()
	feedback := backend.Explain(err, nil)

	if feedback.Toast != "" {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "scan_request_failed", slog.Any("error", err))
		session.Flash(ctx, session.ToastError, feedback.Toast)
	}

	page.Alert = feedback.Alert
	page.Errors = feedback.Fields
	handler.view.Render(writer, request, feedback.Status, view.PageScan, page)
}

func tokenOf(request *http.Request) string {
	if authCtx := auth.FromContext(request.Context()); authCtx != nil {
		return authCtx.Token()
	}
	return ""
}

// browserOf keys the auto-capture machine of the requesting browser.
func browserOf(request *http.Request) string {
	if key := session.BrowserKey(request.Context()); key != "" {
		return key
	}
	return request.RemoteAddr
}
