// Package api — configuration management endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/config"
)

// configMu serialises writes to the config file.
var configMu sync.Mutex

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // path to the active config file
}

// handleGetConfig returns the current (running) configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: config.ConfigFilePath(),
		},
	})
}

// handleUpdateConfig merges the provided partial configuration into the
// running config, persists it to disk, and returns the updated config.
// The cache and rate limiter keep their construction-time settings until
// the server restarts.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	configMu.Lock()
	defer configMu.Unlock()

	// Merge into a copy first, so a rejected update leaves the running
	// config untouched.
	updated := *s.cfg
	mergeConfig(&updated, &incoming)
	if err := updated.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid configuration: "+err.Error())
		return
	}
	*s.cfg = updated

	// Persist to disk.
	cfgPath := config.ConfigFilePath()
	if err := config.SaveToFile(s.cfg, cfgPath); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: cfgPath,
		},
	})
}

// handleGetConfigPaths reports whether the configured data and report
// directories exist and how many price files the data directory holds.
func (s *Server) handleGetConfigPaths(w http.ResponseWriter, r *http.Request) {
	paths := config.CheckDataPaths(s.cfg)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    paths,
	})
}

// mergeConfig copies non-zero/non-empty values from src into dst.
func mergeConfig(dst, src *config.Config) {
	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.CORSOrigins) > 0 {
		dst.Server.CORSOrigins = src.Server.CORSOrigins
	}
	if src.Server.RequestTimeoutSec != 0 {
		dst.Server.RequestTimeoutSec = src.Server.RequestTimeoutSec
	}
	if src.Server.RateLimitPerMin != 0 {
		dst.Server.RateLimitPerMin = src.Server.RateLimitPerMin
	}
	if src.Server.CacheTTLSec != 0 {
		dst.Server.CacheTTLSec = src.Server.CacheTTLSec
	}

	// Risk
	if src.Risk.Confidence != 0 {
		dst.Risk.Confidence = src.Risk.Confidence
	}
	if src.Risk.HorizonDays != 0 {
		dst.Risk.HorizonDays = src.Risk.HorizonDays
	}
	if src.Risk.Lambda != 0 {
		dst.Risk.Lambda = src.Risk.Lambda
	}
	if src.Risk.WindowDays != 0 {
		dst.Risk.WindowDays = src.Risk.WindowDays
	}
	if src.Risk.Components != 0 {
		dst.Risk.Components = src.Risk.Components
	}
	if src.Risk.Paths != 0 {
		dst.Risk.Paths = src.Risk.Paths
	}
	if src.Risk.Seed != 0 {
		dst.Risk.Seed = src.Risk.Seed
	}
	if src.Risk.Workers != 0 {
		dst.Risk.Workers = src.Risk.Workers
	}
	if src.Risk.VolOfVol != 0 {
		dst.Risk.VolOfVol = src.Risk.VolOfVol
	}
	if src.Risk.RiskFreeRate != 0 {
		dst.Risk.RiskFreeRate = src.Risk.RiskFreeRate
	}
	// Antithetic and DeltaGamma are bools — always apply from incoming
	dst.Risk.Antithetic = src.Risk.Antithetic
	dst.Risk.DeltaGamma = src.Risk.DeltaGamma

	// Data
	if src.Data.Dir != "" {
		dst.Data.Dir = src.Data.Dir
	}
	if src.Data.ReturnType != "" {
		dst.Data.ReturnType = src.Data.ReturnType
	}
	if src.Data.DateFormat != "" {
		dst.Data.DateFormat = src.Data.DateFormat
	}

	// Report
	if src.Report.OutputDir != "" {
		dst.Report.OutputDir = src.Report.OutputDir
	}
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.Title != "" {
		dst.Report.Title = src.Report.Title
	}

	// Logging
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}
