// Package server exposes guest analyses over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/tracker"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; batch lists are small.
const maxBodyBytes = 1 << 20

// Tracker is the part of tracker.Tracker the API needs.
type Tracker interface {
	Analyze(ctx context.Context, req tracker.Request) *tracker.AnalysisResult
	AnalyzeBatch(ctx context.Context, refs []guest.Ref, channelURL string) *tracker.BatchResult
	CachedChannels() int
}

type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	tracker  Tracker
	gatherer prometheus.Gatherer
	validate *validator.Validate
	logger   *zap.Logger
	http     *http.Server
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	GuestName      string `json:"guest_name" validate:"required"`
	GuestURL       string `json:"guest_url" validate:"required"`
	HostChannelURL string `json:"host_channel_url" validate:"required"`
	// UseCache defaults to true when omitted.
	UseCache *bool `json:"use_cache,omitempty"`
}

// BatchRequest is the body of POST /api/batch.
type BatchRequest struct {
	GuestList      []guest.Ref `json:"guest_list" validate:"required,min=1,dive"`
	HostChannelURL string      `json:"host_channel_url" validate:"required"`
}

// Response wraps every API answer.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type healthResponse struct {
	Status         string `json:"status"`
	CachedChannels int    `json:"cached_channels"`
}

// New builds a server. A nil gatherer disables /metrics.
func New(cfg Config, t Tracker, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	if t == nil {
		return nil, errors.New("server: tracker is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		tracker:  t,
		gatherer: gatherer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		// Batches run every guest sequentially.
		writeTimeout = 10 * time.Minute
	}

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/batch", s.handleBatch)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return s.withLogging(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("address", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}

	result := s.tracker.Analyze(r.Context(), tracker.Request{
		GuestName:      req.GuestName,
		GuestURL:       req.GuestURL,
		HostChannelURL: req.HostChannelURL,
		UseCache:       useCache,
	})

	if result.Failed() {
		s.jsonResponse(w, http.StatusOK, Response{Success: false, Error: result.Error, Data: result})
		return
	}
	s.jsonResponse(w, http.StatusOK, Response{Success: true, Data: result})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.tracker.AnalyzeBatch(r.Context(), req.GuestList, req.HostChannelURL)
	s.jsonResponse(w, http.StatusOK, Response{Success: true, Data: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, healthResponse{
		Status:         "ok",
		CachedChannels: s.tracker.CachedChannels(),
	})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return missingFields(verrs)
		}
		return err
	}
	return nil
}

func missingFields(verrs validator.ValidationErrors) error {
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonName(fe))
	}
	return fmt.Errorf("missing required field: %s", strings.Join(fields, ", "))
}

// jsonName maps a validator error back to the request's JSON field path.
func jsonName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	replacer := strings.NewReplacer(
		"GuestName", "guest_name",
		"GuestURL", "guest_url",
		"HostChannelURL", "host_channel_url",
		"GuestList", "guest_list",
		"Name", "name",
	)
	return replacer.Replace(ns)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding json response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, Response{Success: false, Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
