// Package httptransport assembles the full HTTP surface: the vital-monitoring
// API, health endpoints, and the Prometheus scrape endpoint.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vitaledge/pkg/platform/httputil"
)

const serviceName = "vitaledge"

// Registrar is implemented by feature handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints. Feature handlers mount themselves so
// transport stays free of domain knowledge.
func NewRouter(handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"service":   serviceName,
		"status":    "operational",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"components": map[string]string{
			"api":   "operational",
			"store": "operational",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
