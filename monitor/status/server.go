// Package status exposes the pipeline's results over HTTP: the merged
// validation summary, the resolved per-chain parameters, and Prometheus
// metrics. It publishes the structured report only; delivering
// notifications is someone else's job.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/chainwatch/monitor/config"
	"github.com/Cogwheel-Validator/chainwatch/monitor/report"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "status").Logger()
}

// ChainParams is the externally visible parameter set of one chain
// after resolution.
type ChainParams struct {
	Name          string `json:"name"`
	RestAPIURL    string `json:"rest_api_url"`
	ValoperPrefix string `json:"valoper_prefix,omitempty"`
	ValconsPrefix string `json:"valcons_prefix,omitempty"`
	BaseDenom     string `json:"base_denom,omitempty"`
	TokenSymbol   string `json:"token_symbol,omitempty"`
}

// Server serves the status API.
type Server struct {
	httpServer *http.Server
	summary    report.Summary
	chains     []ChainParams
}

// NewServer creates a status server for the given pipeline results.
func NewServer(addr string, summary report.Summary, chains *config.Chains) *Server {
	s := &Server{summary: summary}

	for _, chainName := range chains.Names() {
		chain, _ := chains.Get(chainName)
		s.chains = append(s.chains, ChainParams{
			Name:          chainName,
			RestAPIURL:    chain.RestAPIURL,
			ValoperPrefix: chain.ValoperPrefix,
			ValconsPrefix: chain.ValconsPrefix,
			BaseDenom:     chain.BaseDenom,
			TokenSymbol:   chain.TokenSymbol,
		})
	}

	router := chi.NewRouter()
	router.Use(zerologMiddleware)
	router.Use(httprate.LimitByIP(60, time.Minute))

	router.Get("/healthz", s.handleHealthz)
	router.Get("/status/validation", s.handleValidation)
	router.Get("/chains", s.handleChains)
	router.Handle("/metrics", promhttp.Handler())

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("Status server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Warn().Err(err).Msg("Failed to write health response")
	}
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.summary)
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.chains)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// zerologMiddleware logs HTTP requests using zerolog.
func zerologMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}
