// Copyright 2024 The Sentinel Authors
// This file is part of the Sentinel bytecode analyzer.
//
// Sentinel is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sentinel is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Sentinel. If not, see <http://www.gnu.org/licenses/>.

// Package sentinelapi is the HTTP façade over the analyzer core: a thin,
// purely translational shell per the design's error taxonomy — it decodes
// untrusted input, calls the total core pipeline, and renders a response.
// It never contains analysis logic of its own.
package sentinelapi

import (
	"net/http"
	"time"

	uuid "github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/sentinel-sh/evmscan/log"
	"github.com/sentinel-sh/evmscan/sentinelconfig"
)

// cacheSize bounds the number of decoded reports kept in memory, keyed by
// bytecode hash, so repeated requests for the same contract skip the full
// pipeline.
const cacheSize = 1024

// Server bundles the façade's dependencies: configuration and a response
// cache shared across requests.
type Server struct {
	cfg   sentinelconfig.Config
	cache *lru.Cache
	log   log.Logger
}

// NewServer builds a Server ready to be wrapped in a net/http handler via
// Handler.
func NewServer(cfg sentinelconfig.Config) *Server {
	cache, err := lru.New(cacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size, which cacheSize never is.
		panic(err)
	}
	return &Server{cfg: cfg, cache: cache, log: log.New("component", "sentinelapi")}
}

// Handler returns the fully wired net/http.Handler: routes, CORS, and
// per-request logging with a bound request ID.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/health", s.handleHealth)
	router.POST("/analyze", s.handleAnalyze)
	router.GET("/ws/analyze", s.handleAnalyzeWS)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return s.withRequestID(c.Handler(router))
}

// withRequestID binds a fresh request ID to a child logger used for the
// duration of one request.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		reqLog := s.log.New("reqID", id)
		start := time.Now()
		reqLog.Debug("request received", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), reqLog)))

		reqLog.Info("request handled", "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: "sentinel-decompiler",
		Version: "1.0.0",
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
