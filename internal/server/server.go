// Package server exposes grading and stored reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/output"
	"github.com/zinc-sig/pyramid/internal/store"
)

const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxSourceBytes = 256 << 10
)

// Grader grades one submission.
type Grader interface {
	Grade(ctx context.Context, source string) (*grading.Report, error)
	Cases() []grading.TestCase
}

// Reports is the persistence the report routes need.
type Reports interface {
	Save(ctx context.Context, r *output.Report) error
	Get(ctx context.Context, id string) (*output.Report, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

type Options struct {
	Grader         Grader
	Reports        Reports // optional
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxSourceBytes int64
}

type server struct {
	grader   Grader
	reports  Reports
	logger   *zap.Logger
	maxBytes int64
}

// New builds the router.
func New(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxSourceBytes <= 0 {
		opts.MaxSourceBytes = DefaultMaxSourceBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &server{
		grader:   opts.Grader,
		reports:  opts.Reports,
		logger:   opts.Logger.Named("http"),
		maxBytes: opts.MaxSourceBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/grade", s.grade)
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/", s.listReports)
		rr.Get("/{id}", s.getReport)
	})

	return r
}

type gradeRequest struct {
	Source string `json:"source"`
}

func (s *server) grade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "source is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.grader.Grade(r.Context(), req.Source)
	report := output.FromGrading(result, len(s.grader.Cases()))
	report.Source = req.Source

	status := http.StatusOK
	switch {
	case errors.Is(err, grading.ErrEmptySource):
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	case err != nil:
		s.logger.Error("grading failed", zap.String("report_id", report.ID), zap.Error(err))
		status = http.StatusInternalServerError
	}

	if s.reports != nil {
		if err := s.reports.Save(r.Context(), report); err != nil {
			s.logger.Warn("failed to store report", zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	writeJSON(w, status, report)
}

func (s *server) listReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	limit := store.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) getReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	report, err := s.reports.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load report", zap.String("report_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
