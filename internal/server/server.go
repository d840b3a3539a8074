// Package server exposes the translation pipeline over HTTP.
//
// Endpoints:
//
//   - POST /api/translate — run the text pipeline on a JSON request.
//   - GET  /healthz       — liveness probe.
//   - GET  /readyz        — readiness probe.
//   - GET  /metrics       — Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bharatml/codemix/internal/health"
	"github.com/bharatml/codemix/internal/langid"
	"github.com/bharatml/codemix/internal/observe"
	"github.com/bharatml/codemix/internal/pipeline"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server wires the pipeline into an HTTP surface.
type Server struct {
	pipeline *pipeline.Pipeline
	metrics  *observe.Metrics
	health   *health.Handler
	httpSrv  *http.Server
}

// New creates a Server listening on addr. metrics may be nil; checkers feed
// the /readyz endpoint.
func New(addr string, p *pipeline.Pipeline, metrics *observe.Metrics, checkers ...health.Checker) *Server {
	s := &Server{
		pipeline: p,
		metrics:  metrics,
		health:   health.New(checkers...),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	s.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	if metrics != nil {
		handler = observe.Middleware(metrics)(mux)
	}

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// translateRequest is the JSON body of POST /api/translate.
type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// translateResponse wraps the pipeline result with the display flag.
type translateResponse struct {
	*pipeline.Result
	LowConfidence bool `json:"low_confidence"`
}

// errorResponse is the JSON body of every non-200 response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	res, err := s.pipeline.Translate(r.Context(), req.Text, langid.Language(req.Target))
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidTarget) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		slog.Error("translate request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Result:        res,
		LowConfidence: res.LowConfidence(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
