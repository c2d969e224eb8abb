// Package httpx wires the report pipeline to its HTTP surface.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/storewatch/uptime-api/internal/service"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Reports *service.ReportService
	Logger  *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	reportHandlers := &ReportHandlers{Svc: services.Reports, Logger: services.Logger}
	registerReportRoutes(mux, reportHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Compression()(handler)
	if services.Logger != nil {
		handler = Logging(services.Logger)(handler)
		handler = Recover(services.Logger)(handler)
	}
	return handler
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers) {
	mux.HandleFunc("POST /reports/trigger", h.Trigger)
	mux.HandleFunc("GET /reports/{id}", h.Get)
}
