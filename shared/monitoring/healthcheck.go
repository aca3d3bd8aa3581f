package monitoring

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthServer struct {
	monitor *Monitor
	port    string
}

func NewHealthServer(monitor *Monitor, port string) *HealthServer {
	if port == "" || port == "0" {
		port = "8080"
	}
	return &HealthServer{
		monitor: monitor,
		port:    port,
	}
}

// Handler serves /health, /status and the prometheus /metrics endpoint.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/status", h.statusHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (h *HealthServer) Start() {
	log.Printf("Health check server starting on port %s", h.port)
	go func() {
		if err := http.ListenAndServe(":"+h.port, h.Handler()); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.GetStatusSummary())
	}
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", h.monitor.GetStatusSummary())
}
