// Package server exposes the game engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/game"
	"github.com/joss/nixdle/internal/logging"
	"github.com/joss/nixdle/internal/metrics"
)

// maxBodyBytes bounds an attempt request body.
const maxBodyBytes = 4 << 10

// Evaluator is the part of the game engine the server needs. Evaluate and
// StartMessage must be safe for concurrent use once a session is selected.
type Evaluator interface {
	StartMessage(attemptURL string) api.StartMessage
	Evaluate(input string, attempts int) (*api.AttemptMessage, bool)
}

var _ Evaluator = (*game.Engine)(nil)

// Server serves one selected game session.
type Server struct {
	engine    Evaluator
	metrics   *metrics.Metrics
	publicURL string
	addr      string
	mux       *http.ServeMux
	validate  *validator.Validate
}

// New returns a server for engine. publicURL is the externally visible base
// URL advertised in start messages.
func New(engine Evaluator, m *metrics.Metrics, addr, publicURL string) *Server {
	s := &Server{
		engine:    engine,
		metrics:   m,
		publicURL: publicURL,
		addr:      addr,
		mux:       http.NewServeMux(),
		validate:  validator.New(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.route("GET /{$}", s.handleIndex)
	s.route("GET /health", s.handleHealth)
	s.route("GET /start", s.handleStart)
	s.route("POST /attempt", s.handleAttempt)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// route registers h under pattern with latency recording.
func (s *Server) route(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		s.metrics.Requests.WithLabelValues(pattern, strconv.Itoa(sw.code)).Observe(time.Since(start).Seconds())
		logging.FromContext(r.Context(), "server").TimedEvent("request", start, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.code,
		})
	}))
}

// AttemptURL is where clients submit guesses.
func (s *Server) AttemptURL() string {
	return s.publicURL + "/attempt"
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("hai :3"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordStart()
	writeJSON(w, http.StatusOK, s.engine.StartMessage(s.AttemptURL()))
}

func (s *Server) handleAttempt(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), "server")

	var req api.AttemptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.metrics.RecordAttempt(metrics.OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "invalid attempt body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordAttempt(metrics.OutcomeInvalid, 0)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid attempt body")
		return
	}

	msg, ok := s.engine.Evaluate(req.Input, req.Attempts)
	switch {
	case !ok:
		s.metrics.RecordAttempt(metrics.OutcomeUnknown, req.Attempts)
	case msg.Success:
		s.metrics.RecordAttempt(metrics.OutcomeCorrect, req.Attempts)
		log.Info("solved", map[string]interface{}{"attempts": req.Attempts})
	default:
		s.metrics.RecordAttempt(metrics.OutcomeWrong, req.Attempts)
	}

	// an unknown guess is answered with null
	writeJSON(w, http.StatusOK, msg)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return RequestID(Recover(CORS(JSON(s.mux))))
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.New("server").Info("listening", map[string]interface{}{
		"addr":       s.addr,
		"public_url": s.publicURL,
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
