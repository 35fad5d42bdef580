package observability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewDevOpsServer serves /metrics on addr. It is meant for intra-cluster
// scraping and is kept off the dashboard listener.
func NewDevOpsServer(addr string) *http.Server {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:    addr,
		Handler: router,
	}
}
