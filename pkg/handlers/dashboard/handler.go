package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/de-tools/covid-atlas/pkg/adapters"
	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	Title = "COVID-19 Dashboard"

	maxEventBytes = 64 << 10
)

//go:embed templates/page.html.tmpl
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/page.html.tmpl"))

type EventLoop interface {
	Submit(ctx context.Context, ev dashboard.Event) (dashboard.Update, error)
	Current(ctx context.Context, output domain.OutputID) (dashboard.Update, error)
}

type EventDecoder interface {
	Decode(control domain.ControlID, raw json.RawMessage) (dashboard.Event, error)
}

type SVGRenderer interface {
	SVG(ctx context.Context, fig domain.Figure, w io.Writer) error
}

type Handler struct {
	loop     EventLoop
	decoder  EventDecoder
	renderer SVGRenderer
}

func NewHandler(loop EventLoop, decoder EventDecoder, renderer SVGRenderer) *Handler {
	return &Handler{
		loop:     loop,
		decoder:  decoder,
		renderer: renderer,
	}
}

type pageData struct {
	Title      string
	Tabs       []api.Option
	DefaultTab string
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := page.Execute(w, pageData{
		Title:      Title,
		Tabs:       adapters.MapOptionsDomainToApi(dashboard.Tabs()),
		DefaultTab: string(domain.TabHome),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to render page")
	}
}

// Layout returns the panel of a tab with its default control values. It does
// not touch the selection; switching tabs goes through Update.
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	tab := domain.Tab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = domain.TabHome
	}

	writeJSON(w, r, http.StatusOK, api.LayoutResponse{
		Title: Title,
		Tabs:  adapters.MapOptionsDomainToApi(dashboard.Tabs()),
		Panel: adapters.MapPanelDomainToApi(dashboard.Panel(tab)),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.UpdateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed event: "+err.Error())
		return
	}
	if len(req.Value) == 0 {
		writeError(w, r, http.StatusBadRequest, "event has no value")
		return
	}

	ev, err := h.decoder.Decode(domain.ControlID(req.Control), req.Value)
	if err != nil {
		writeError(w, r, statusFor(err), err.Error())
		return
	}

	update, err := h.loop.Submit(ctx, ev)
	if err != nil {
		logger.Error().Err(err).Str("control", req.Control).Msg("failed to dispatch event")
		writeError(w, r, statusFor(err), err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, mapUpdate(update))
}

// RenderSVG draws the figure an output currently shows.
func (h *Handler) RenderSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output := domain.OutputID(chi.URLParam(r, "output"))

	update, err := h.loop.Current(ctx, output)
	if err != nil {
		writeError(w, r, statusFor(err), err.Error())
		return
	}
	if update.Figure == nil {
		writeError(w, r, http.StatusNotFound, "output "+string(output)+" has no figure")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := h.renderer.SVG(ctx, *update.Figure, w); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("output", string(output)).Msg("failed to write svg")
	}
}

func mapUpdate(u dashboard.Update) api.UpdateResponse {
	res := api.UpdateResponse{Output: string(u.Output)}
	if u.Figure != nil {
		fig := adapters.MapFigureDomainToApi(*u.Figure)
		res.Figure = &fig
	}
	if u.Panel != nil {
		panel := adapters.MapPanelDomainToApi(*u.Panel)
		res.Panel = &panel
	}
	for _, m := range u.Mounted {
		res.Mounted = append(res.Mounted, mapUpdate(m))
	}
	return res
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownControl), errors.Is(err, dashboard.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownOutput):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrLoopStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	zerolog.Ctx(r.Context()).Debug().Int("status", status).Str("error", message).Msg("request rejected")
	writeJSON(w, r, status, api.Error{Code: status, Message: message})
}
