// Package server exposes the HTTP API: company CRUD, LLM analysis, and
// cross-company comparison over the persisted canonical set.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/analyze"
	"github.com/adtech-insider/insight-cli/internal/compare"
	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/normalize"
	"github.com/adtech-insider/insight-cli/internal/schema"
	"github.com/adtech-insider/insight-cli/internal/store"
)

// Options configures the server.
type Options struct {
	AllowedOrigins []string
	Weights        model.MetricWeights
	Normalize      bool
	// AnalysisTTL is how long persisted analyses stay valid.
	AnalysisTTL time.Duration
}

// Server routes API requests to the store, analyzer, and compare engine.
type Server struct {
	store    store.Store
	analyzer *analyze.Analyzer
	engine   *compare.Engine
	opts     Options
}

// New builds a Server. The analyzer may be nil, which disables /api/analyze.
func New(st store.Store, analyzer *analyze.Analyzer, engine *compare.Engine, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.AnalysisTTL <= 0 {
		opts.AnalysisTTL = analyze.DefaultCacheTTL
	}
	if opts.Weights == (model.MetricWeights{}) {
		opts.Weights = model.DefaultWeights()
	}
	return &Server{store: st, analyzer: analyzer, engine: engine, opts: opts}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.handleListCompanies)
		r.Post("/companies", s.handleImportCompanies)
		r.Get("/companies/{id}", s.handleGetCompany)
		r.Delete("/companies/{id}", s.handleDeleteCompany)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/compare", s.handleCompare)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// within grace.
func (s *Server) ListenAndServe(ctx context.Context, port int, grace time.Duration) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseWeights reads "brand,innovation,presence,activity" percentages.
func parseWeights(v string) (model.MetricWeights, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return model.MetricWeights{}, eris.New("server: weights must be four comma-separated numbers")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.MetricWeights{}, eris.Wrap(err, "server: parse weight")
		}
		vals[i] = f
	}
	return model.MetricWeights{Brand: vals[0], Innovation: vals[1], Presence: vals[2], Activity: vals[3]}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		zap.L().Warn("health check store ping", zap.Error(err))
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context(), store.CompanyFilter{
		Slug: r.URL.Query().Get("slug"),
	})
	if err != nil {
		zap.L().Error("list companies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list companies")
		return
	}
	if companies == nil {
		companies = []model.CanonicalCompany{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (s *Server) handleImportCompanies(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 10<<20)
	defer body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	parsed, err := schema.ParseJSON(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	canonical := normalize.Normalize(parsed.Companies)
	sanity := compare.RunSanityChecks(canonical)

	n, err := s.store.UpsertCompanies(r.Context(), canonical)
	if err != nil {
		zap.L().Error("import companies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist companies")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imported": n,
		"partial":  parsed.Partial,
		"sane":     sanity.OK,
	})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	company, err := s.store.GetCompany(r.Context(), id)
	if err != nil {
		zap.L().Error("get company", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load company")
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteCompany(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		zap.L().Error("delete company", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete company")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type analyzeRequest struct {
	Company string `json:"company"`
	Year    int    `json:"year"`
	// Persist imports the analysis into the company store as well.
	Persist bool `json:"persist"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}
	year := req.Year
	if year == 0 {
		year = analyze.DefaultYear
	}

	key := analyze.CacheKey(req.Company, year)
	if data, err := s.store.GetCachedAnalysis(r.Context(), key); err == nil && data != nil {
		var cached analyze.Response
		if json.Unmarshal(data, &cached) == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	res, err := s.analyzer.Analyze(r.Context(), req.Company)
	if err != nil {
		zap.L().Error("analyze company", zap.String("company", req.Company), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if data, err := json.Marshal(res); err == nil {
		if err := s.store.SetCachedAnalysis(r.Context(), key, data, s.opts.AnalysisTTL); err != nil {
			zap.L().Warn("persist analysis cache", zap.Error(err))
		}
	}

	if req.Persist {
		input := analyze.ToInputCompany(res.Company.Slug, res)
		canonical := normalize.Normalize([]model.InputCompany{input})
		if len(canonical) == 1 {
			if err := s.store.UpsertCompany(r.Context(), canonical[0]); err != nil {
				zap.L().Warn("persist analyzed company", zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context(), store.CompanyFilter{})
	if err != nil {
		zap.L().Error("compare list companies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}
	if len(companies) == 0 {
		writeError(w, http.StatusNotFound, "no companies to compare")
		return
	}

	var quarters []string
	if q := r.URL.Query().Get("quarters"); q != "" {
		quarters = strings.Split(q, ",")
	}

	normalizeCharts := s.opts.Normalize
	if v := r.URL.Query().Get("normalize"); v != "" {
		normalizeCharts = v != "false" && v != "0"
	}

	weights := s.opts.Weights
	if v := r.URL.Query().Get("weights"); v != "" {
		parsed, err := parseWeights(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		weights = parsed
	}

	result := s.engine.Compute(companies, quarters, weights, normalizeCharts)
	writeJSON(w, http.StatusOK, result)
}
