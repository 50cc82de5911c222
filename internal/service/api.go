// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"log/slog"
	stdhttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/estatehub/placename/internal/logger"
)

type locationResponse struct {
	Location string `json:"location"`
}

type sweepResponse struct {
	Evicted int `json:"evicted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) routes() stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newHTTPMetrics(s.registry).middleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/location", s.handleLocation)
		r.Delete("/cache", s.handleCacheClear)
		r.Post("/cache/sweep", s.handleCacheSweep)
	})
	return r
}

// handleLocation returns the label for the listing's latlng and location query parameters.
func (s *Service) handleLocation(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	query := r.URL.Query()
	coords := strings.TrimSpace(query.Get("latlng"))
	raw := strings.TrimSpace(query.Get("location"))
	if coords == "" && raw == "" {
		writeErr(w, stdhttp.StatusBadRequest, "latlng or location parameter required")
		return
	}

	name, err := s.labeler.Label(r.Context(), raw, coords)
	if err != nil {
		s.logger.Error("failed to render location label", logger.Err(err),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		writeErr(w, stdhttp.StatusInternalServerError, "failed to render location label")
		return
	}
	writeJSON(w, stdhttp.StatusOK, locationResponse{Location: name})
}

func (s *Service) handleCacheClear(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.resolver.Clear(r.Context())
	w.WriteHeader(stdhttp.StatusNoContent)
}

func (s *Service) handleCacheSweep(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	writeJSON(w, stdhttp.StatusOK, sweepResponse{Evicted: s.resolver.EvictExpired(r.Context())})
}

func writeJSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w stdhttp.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
