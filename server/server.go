// Package server exposes the derived sensor values over HTTP: a JSON
// endpoint for consumers, Prometheus metrics and a health check.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/qbitwatch/poller"
	"github.com/s0up4200/qbitwatch/sensor"
)

// SensorSource provides the latest sensor reading.
type SensorSource interface {
	Latest() (poller.Reading, bool)
}

type Server struct {
	source     SensorSource
	logger     zerolog.Logger
	staleAfter time.Duration
	metrics    http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStaleAfter marks readings older than d as stale in the JSON payload.
// Zero disables the stale flag.
func WithStaleAfter(d time.Duration) Option {
	return func(s *Server) {
		s.staleAfter = d
	}
}

// WithMetricsHandler overrides the /metrics handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func New(source SensorSource, options ...Option) *Server {
	s := &Server{
		source:  source,
		logger:  zerolog.Nop(),
		metrics: promhttp.Handler(),
	}
	for _, option := range options {
		if option != nil {
			option(s)
		}
	}
	return s
}

// Handler returns the full HTTP handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/sensors", s.handleSensors)
	mux.Handle("/metrics", s.metrics)

	return loggingMiddleware(s.logger, mux)
}

// sensorsPayload is the JSON body returned by /api/v1/sensors.
type sensorsPayload struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Stale       bool          `json:"stale"`
	Sensors     sensor.Values `json:"sensors"`
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reading, ok := s.source.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no data yet, waiting for first successful poll",
		})
		return
	}

	payload := sensorsPayload{
		GeneratedAt: reading.FetchedAt,
		Sensors:     reading.Values,
	}
	if s.staleAfter > 0 && time.Since(reading.FetchedAt) > s.staleAfter {
		payload.Stale = true
	}

	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
