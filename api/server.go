// Package api provides the HTTP REST API server for the risk engine.
//
// It exposes endpoints for risk estimation, multi-method reports,
// asynchronous Monte Carlo jobs, option pricing, configuration, and
// WebSocket progress streaming.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/config"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/infra"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/pricing"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/risk"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/web"
)

// mcJobTimeout bounds a detached Monte Carlo job. Jobs outlive their
// submitting request, so they cannot inherit its context.
const mcJobTimeout = 10 * time.Minute

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	wsHub     *WSHub
	cache     *infra.Cache
	mcLimiter *infra.RateLimiter
	jobs      *jobStore
	serveUI   bool // when true, serve the embedded web UI at /
	version   string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	srv := &Server{
		cfg:       cfg,
		wsHub:     NewWSHub(),
		cache:     infra.NewCache(time.Duration(cfg.Server.CacheTTLSec) * time.Second),
		mcLimiter: infra.NewRateLimiter(cfg.Server.RateLimitPerMin, time.Minute),
		jobs:      newJobStore(),
		serveUI:   true, // serve embedded web UI by default
		version:   "dev",
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the embedded web UI is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// SetVersion sets the version string reported by the health endpoint.
func (s *Server) SetVersion(v string) {
	s.version = v
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.cfg.Server.RequestTimeoutSec) * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Estimation methods
		r.Get("/methods", s.handleMethods)

		// Risk measures
		r.Post("/risk/estimate", s.handleEstimate)
		r.Post("/risk/report", s.handleReport)
		r.Post("/risk/compare", s.handleCompare)

		// Asynchronous Monte Carlo jobs
		r.Post("/risk/montecarlo", s.handleMonteCarloSubmit)
		r.Get("/risk/montecarlo/{id}", s.handleMonteCarloStatus)

		// Option pricing
		r.Post("/pricing/blackscholes", s.handleBlackScholes)
		r.Post("/pricing/cliquet", s.handleCliquet)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Get("/config/paths", s.handleGetConfigPaths)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	// Serve embedded web UI (SPA with fallback to index.html)
	if s.serveUI {
		s.mountSPA(r, web.DistFS())
	}

	return r
}

// mountSPA serves the embedded dashboard as a single-page app.
// Static assets (assets/*) are served directly with caching.
// All other paths fall back to index.html for client-side routing.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServer(http.FS(distFS))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		// Try to open the requested file from the embedded FS
		f, err := distFS.Open(rPath)
		if err != nil {
			// File not found — serve index.html for SPA client-side routing
			serveIndexHTML(w, r, distFS)
			return
		}
		f.Close()

		// Set cache headers for immutable assets (assets/*)
		if strings.HasPrefix(rPath, "assets/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else if rPath == "index.html" || strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}

		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html for SPA fallback.
func serveIndexHTML(w http.ResponseWriter, r *http.Request, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PriceObservation is one (date, price) row of inline request data.
type PriceObservation struct {
	Date  string  `json:"date"` // formatted per data.date_format, default YYYY-MM-DD
	Price float64 `json:"price"`
}

// RiskRequest is the body for the risk measurement endpoints. Prices carries
// an inline price history per instrument; when omitted, the server loads
// <data.dir>/<instrument>.csv for every underlying in the portfolio.
type RiskRequest struct {
	Portfolio  models.Portfolio              `json:"portfolio"`
	Method     string                        `json:"method,omitempty"` // estimate only
	Parameters *models.RiskModelParameters   `json:"parameters,omitempty"`
	Prices     map[string][]PriceObservation `json:"prices,omitempty"`
	Spots      map[string]float64            `json:"spots,omitempty"` // option underlying levels
	Rate       *float64                      `json:"rate,omitempty"`  // risk-free rate; omit for configured default
}

// MethodInfo describes one available estimation method.
type MethodInfo struct {
	Method      models.Method `json:"method"`
	Description string        `json:"description"`
}

// BlackScholesRequest is the body for POST /api/v1/pricing/blackscholes.
type BlackScholesRequest struct {
	Type          string  `json:"type"` // "call" or "put"
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	Maturity      float64 `json:"maturity"` // years
	Rate          float64 `json:"rate"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
	Vol           float64 `json:"vol"`
}

// CliquetRequest is the body for POST /api/v1/pricing/cliquet. Cap and floor
// fields are pointers because JSON cannot carry ±Inf: omitting a cap or
// floor disables it. Simulation fields left at zero fall back to the
// configured risk defaults.
type CliquetRequest struct {
	Spot        float64   `json:"spot"`
	Periods     int       `json:"periods"`
	PeriodYears float64   `json:"period_years"`
	LocalCap    *float64  `json:"local_cap,omitempty"`
	LocalFloor  *float64  `json:"local_floor,omitempty"`
	GlobalCap   *float64  `json:"global_cap,omitempty"`
	GlobalFloor *float64  `json:"global_floor,omitempty"`
	Rate        float64   `json:"rate"`
	Vols        []float64 `json:"vols"`
	Notional    float64   `json:"notional,omitempty"`
	Paths       int       `json:"paths,omitempty"`
	Seed        int64     `json:"seed,omitempty"`
	Antithetic  bool      `json:"antithetic,omitempty"`
	Workers     int       `json:"workers,omitempty"`
}

// toSpec maps the request onto a pricing spec, turning omitted caps and
// floors into ±Inf.
func (req CliquetRequest) toSpec() models.CliquetSpec {
	spec := models.CliquetSpec{
		Spot:        req.Spot,
		Periods:     req.Periods,
		PeriodYears: req.PeriodYears,
		LocalCap:    math.Inf(1),
		LocalFloor:  math.Inf(-1),
		GlobalCap:   math.Inf(1),
		GlobalFloor: math.Inf(-1),
		Rate:        req.Rate,
		Vols:        req.Vols,
		Notional:    req.Notional,
	}
	if req.LocalCap != nil {
		spec.LocalCap = *req.LocalCap
	}
	if req.LocalFloor != nil {
		spec.LocalFloor = *req.LocalFloor
	}
	if req.GlobalCap != nil {
		spec.GlobalCap = *req.GlobalCap
	}
	if req.GlobalFloor != nil {
		spec.GlobalFloor = *req.GlobalFloor
	}
	return spec
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": s.version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// methodDescriptions holds a one-line summary per estimation method for the
// methods listing.
var methodDescriptions = map[models.Method]string{
	models.MethodGaussian:           "parametric VaR/ES under i.i.d. normal portfolio P&L",
	models.MethodHistorical:         "historical simulation over the estimation window",
	models.MethodBootstrap:          "bootstrap resampling of historical dates",
	models.MethodWeightedHistorical: "exponentially weighted historical simulation",
	models.MethodPCA:                "Gaussian VaR/ES on a principal-component factor model",
	models.MethodMonteCarlo:         "full option revaluation under simulated factor paths",
	models.MethodDeltaNormal:        "linear (delta) Gaussian approximation with optional gamma term",
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	// The revaluation methods live outside the estimator registry because
	// they need spots and a discount rate on top of the return history.
	methods := append(risk.Methods(), models.MethodMonteCarlo, models.MethodDeltaNormal)
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })

	infos := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, MethodInfo{Method: m, Description: methodDescriptions[m]})
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    infos,
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req RiskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, "method is required")
		return
	}
	if len(req.Portfolio.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "portfolio with at least one position is required")
		return
	}

	method := models.Method(req.Method)
	switch method {
	case models.MethodMonteCarlo, models.MethodDeltaNormal:
	default:
		if _, err := risk.EstimatorFor(method); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	key := cacheKey("estimate", body)
	if cached, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	if method == models.MethodMonteCarlo && !s.mcLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "monte carlo rate limit exceeded; retry later")
		return
	}

	returns, err := s.returnsFor(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := s.effectiveParams(req.Parameters)
	rate := s.effectiveRate(req.Rate)

	var result *models.RiskMeasureResult
	switch method {
	case models.MethodMonteCarlo:
		result, err = risk.MonteCarloVaR(r.Context(), req.Portfolio, returns, req.Spots, params, rate)
	case models.MethodDeltaNormal:
		result, err = risk.DeltaNormalVaR(req.Portfolio, returns, req.Spots, params, rate)
	default:
		var in *risk.Input
		in, err = risk.NewInput(req.Portfolio, returns, params)
		if err == nil {
			result, err = risk.Measure(method, in)
		}
	}
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.cache.Set(key, result)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req RiskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Portfolio.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "portfolio with at least one position is required")
		return
	}

	key := cacheKey("report", body)
	if cached, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	// The full report includes a Monte Carlo run.
	if !s.mcLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "monte carlo rate limit exceeded; retry later")
		return
	}

	returns, err := s.returnsFor(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := risk.FullReport(r.Context(), req.Portfolio, returns, req.Spots, s.effectiveParams(req.Parameters), s.effectiveRate(req.Rate))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.cache.Set(key, report)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req RiskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Portfolio.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "portfolio with at least one position is required")
		return
	}

	key := cacheKey("compare", body)
	if cached, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	if !s.mcLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "monte carlo rate limit exceeded; retry later")
		return
	}

	returns, err := s.returnsFor(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmp, err := risk.CompareRevaluation(r.Context(), req.Portfolio, returns, req.Spots, s.effectiveParams(req.Parameters), s.effectiveRate(req.Rate), nil)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	// Broadcast to WebSocket clients
	s.wsHub.Broadcast(WSMessage{
		Type: "compare_complete",
		Data: map[string]interface{}{
			"relative_gap": cmp.RelativeGap,
		},
	})

	s.cache.Set(key, cmp)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    cmp,
	})
}

func (s *Server) handleMonteCarloSubmit(w http.ResponseWriter, r *http.Request) {
	var req RiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Portfolio.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "portfolio with at least one position is required")
		return
	}

	if !s.mcLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "monte carlo rate limit exceeded; retry later")
		return
	}

	// Build the engine synchronously so bad input is a 400 on submission,
	// not a failed job discovered later.
	returns, err := s.returnsFor(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	engine, err := risk.NewMonteCarloEngine(req.Portfolio, returns, req.Spots, s.effectiveParams(req.Parameters), s.effectiveRate(req.Rate))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	job := s.jobs.create()
	go s.runMonteCarloJob(job.ID, engine)

	writeJSON(w, http.StatusAccepted, APIResponse{
		Success: true,
		Data:    job,
	})
}

func (s *Server) handleMonteCarloStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown job: %s", id))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    job,
	})
}

// runMonteCarloJob drives one detached simulation, mirroring its progress
// into the job store and onto the WebSocket stream.
func (s *Server) runMonteCarloJob(id string, engine *risk.MonteCarloEngine) {
	ctx, cancel := context.WithTimeout(context.Background(), mcJobTimeout)
	defer cancel()

	onProgress := func(done, total int) {
		s.jobs.setProgress(id, done, total)
		s.wsHub.Broadcast(WSMessage{
			Type: "mc_progress",
			Data: map[string]interface{}{
				"job_id":   id,
				"done":     done,
				"total":    total,
				"progress": float64(done) / float64(total),
			},
		})
	}

	result, err := engine.Run(ctx, onProgress)
	if err != nil {
		s.jobs.fail(id, err)
		log.Printf("monte carlo job %s failed: %v", id, err)
		s.wsHub.Broadcast(WSMessage{
			Type: "mc_result",
			Data: map[string]interface{}{
				"job_id": id,
				"status": JobFailed,
				"error":  err.Error(),
			},
		})
		return
	}

	s.jobs.complete(id, result)
	s.wsHub.Broadcast(WSMessage{
		Type: "mc_result",
		Data: map[string]interface{}{
			"job_id": id,
			"status": JobDone,
			"result": result,
		},
	})
}

func (s *Server) handleBlackScholes(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req BlackScholesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := cacheKey("blackscholes", body)
	if cached, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	quote, err := pricing.BlackScholes(models.OptionType(req.Type), req.Spot, req.Strike, req.Maturity, req.Rate, req.DividendYield, req.Vol)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.cache.Set(key, quote)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    quote,
	})
}

func (s *Server) handleCliquet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req CliquetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := cacheKey("cliquet", body)
	if cached, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cached})
		return
	}

	sim := pricing.SimConfig{
		Paths:      s.cfg.Risk.Paths,
		Seed:       s.cfg.Risk.Seed,
		Antithetic: req.Antithetic,
		Workers:    s.cfg.Risk.Workers,
	}
	if req.Paths > 0 {
		sim.Paths = req.Paths
	}
	if req.Seed != 0 {
		sim.Seed = req.Seed
	}
	if req.Workers > 0 {
		sim.Workers = req.Workers
	}

	result, err := pricing.PriceCliquet(r.Context(), req.toSpec(), sim)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.cache.Set(key, result)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// ============================================================
// Helpers
// ============================================================

// effectiveParams merges request overrides onto the configured defaults.
// Zero values keep the default, so a request cannot ask for seed 0 or an
// estimation window of every observation explicitly; it inherits those from
// configuration instead.
func (s *Server) effectiveParams(req *models.RiskModelParameters) models.RiskModelParameters {
	params := s.cfg.Parameters()
	if req == nil {
		return params
	}

	if req.Confidence != 0 {
		params.Confidence = req.Confidence
	}
	if req.HorizonDays != 0 {
		params.HorizonDays = req.HorizonDays
	}
	if req.Lambda != 0 {
		params.Lambda = req.Lambda
	}
	if req.WindowDays != 0 {
		params.WindowDays = req.WindowDays
	}
	if req.Components != 0 {
		params.Components = req.Components
	}
	if req.Paths != 0 {
		params.Paths = req.Paths
	}
	if req.Seed != 0 {
		params.Seed = req.Seed
	}
	if req.Workers != 0 {
		params.Workers = req.Workers
	}
	if req.VolOfVol != 0 {
		params.VolOfVol = req.VolOfVol
	}
	// Antithetic and DeltaGamma are bools — always apply from incoming
	params.Antithetic = req.Antithetic
	params.DeltaGamma = req.DeltaGamma

	return params
}

// effectiveRate picks the request's risk-free rate, or the configured one
// when the request leaves it out. Zero is a meaningful rate, hence the
// pointer.
func (s *Server) effectiveRate(rate *float64) float64 {
	if rate != nil {
		return *rate
	}
	return s.cfg.Risk.RiskFreeRate
}

// returnsFor resolves the return history for a request: inline prices when
// provided, otherwise per-instrument CSV files from the configured data
// directory.
func (s *Server) returnsFor(ctx context.Context, req RiskRequest) (*marketdata.AlignedReturns, error) {
	kind := marketdata.ReturnType(s.cfg.Data.ReturnType)
	instruments := req.Portfolio.Underlyings()

	if len(req.Prices) == 0 {
		return marketdata.LoadAlignedDir(ctx, s.cfg.Data.Dir, instruments, kind)
	}

	series := make([]*marketdata.ReturnSeries, 0, len(instruments))
	for _, id := range instruments {
		obs, ok := req.Prices[id]
		if !ok {
			return nil, fmt.Errorf("no inline prices for instrument %s", id)
		}
		points := make([]marketdata.PricePoint, 0, len(obs))
		for _, o := range obs {
			date, err := time.Parse(s.cfg.Data.DateFormat, o.Date)
			if err != nil {
				return nil, fmt.Errorf("instrument %s: bad date %q: %w", id, o.Date, err)
			}
			points = append(points, marketdata.PricePoint{Date: date, Price: o.Price})
		}
		ps, err := marketdata.NewPriceSeries(id, points)
		if err != nil {
			return nil, err
		}
		rs, err := marketdata.BuildReturns(ps, kind)
		if err != nil {
			return nil, err
		}
		series = append(series, rs)
	}
	return marketdata.Align(series...)
}

// cacheKey derives a stable cache key from the endpoint name and the raw
// request body. Responses are deterministic given the body (seeds are
// explicit), so byte-identical requests can share a result.
func cacheKey(op string, body []byte) string {
	sum := sha256.Sum256(body)
	return op + ":" + hex.EncodeToString(sum[:])
}

// statusForError maps domain errors onto HTTP status codes: problems with
// the submitted input are 400s, numerical failures during computation 500s.
func statusForError(err error) int {
	var (
		paramErr *models.InvalidParameterError
		dataErr  *models.InvalidMarketDataError
		needErr  *models.InsufficientDataError
		distErr  *models.EmptyDistributionError
	)
	switch {
	case errors.As(err, &paramErr), errors.As(err, &dataErr),
		errors.As(err, &needErr), errors.As(err, &distErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
