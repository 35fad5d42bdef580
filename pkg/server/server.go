package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/covid-atlas/pkg/handlers/dashboard"
	"github.com/de-tools/covid-atlas/pkg/observability"
	covidmiddleware "github.com/de-tools/covid-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	devops *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	Loop     handlers.EventLoop
	Decoder  handlers.EventDecoder
	Renderer handlers.SVGRenderer
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	DevOpsAddr      string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the dashboard routes.
func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Loop, deps.Decoder, deps.Renderer)

	router := chi.NewRouter()
	router.Use(covidmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Get("/_dash-layout", h.Layout)
	router.Post("/_dash-update-component", h.Update)
	router.Get("/_dash-render/{output}.svg", h.RenderSVG)

	return router
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	router := ConfigureRouter(config)

	api := &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: config.ShutdownTimeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if api.shutdownTimeout <= 0 {
		api.shutdownTimeout = defaultShutdownTimeout
	}
	if config.DevOpsAddr != "" {
		api.devops = observability.NewDevOpsServer(config.DevOpsAddr)
	}
	return api
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then shuts both listeners down.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 2)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()
	if w.devops != nil {
		go func() {
			w.logger.Info().Str("addr", w.devops.Addr).Msg("starting devops server")
			serverErrors <- w.devops.ListenAndServe()
		}()
	}

	var serveErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")
	case <-ctx.Done():
		w.logger.Info().Msg("context cancelled, shutting down")
	}

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()

	servers := []*http.Server{w.server}
	if w.devops != nil {
		servers = append(servers, w.devops)
	}
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			w.logger.Error().Err(err).Str("addr", srv.Addr).Msg("graceful shutdown failed")
			if err := srv.Close(); err != nil && serveErr == nil {
				serveErr = err
			}
		}
	}

	return serveErr
}
