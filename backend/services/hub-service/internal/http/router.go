package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	EVSEData      Processor
	EVSEStatus    Processor
	Authorization Processor
	StatusFeed    http.HandlerFunc
	HealthHandler http.HandlerFunc
	MaxBodySize   int64
	Logger        *zap.Logger
}

// NewRouter wires the OICP endpoints behind partner authentication.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", deps.HealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(chimw.Timeout(30 * time.Second))
		r.Post("/oicp/evsedata", SOAPHandler(deps.EVSEData, deps.MaxBodySize, deps.Logger))
		r.Post("/oicp/evsestatus", SOAPHandler(deps.EVSEStatus, deps.MaxBodySize, deps.Logger))
		r.Post("/oicp/authorization", SOAPHandler(deps.Authorization, deps.MaxBodySize, deps.Logger))
	})

	if deps.StatusFeed != nil {
		r.With(authMiddleware).Get("/feed/evse-status", deps.StatusFeed)
	}
	return r
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
