// Package server provides the HTTP server and routing for WardNavi.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/estatelab/wardnavi/internal/database"
	"github.com/estatelab/wardnavi/internal/modules/listings"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log             zerolog.Logger
	dataDir         string
	startupTime     time.Time
	listingsDB      *database.DB
	listingsRepo    *listings.Repository
	estimatorLoaded bool
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	listingsDB *database.DB,
	listingsRepo *listings.Repository,
	estimatorLoaded bool,
) *SystemHandlers {
	return &SystemHandlers{
		log:             log.With().Str("component", "system_handlers").Logger(),
		dataDir:         dataDir,
		startupTime:     time.Now(),
		listingsDB:      listingsDB,
		listingsRepo:    listingsRepo,
		estimatorLoaded: estimatorLoaded,
	}
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status          string  `json:"status"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryPercent   float64 `json:"memory_percent"`
	EstimatorLoaded bool    `json:"estimator_loaded"`
	RecordCount     int     `json:"record_count"`
	DatabaseHealthy bool    `json:"database_healthy"`
	LastChecked     string  `json:"last_checked"`
}

// HandleSystemStatus returns overall system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()

	dbHealthy := h.listingsDB.HealthCheck(r.Context()) == nil

	recordCount, err := h.listingsRepo.Count()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to count stored records")
	}

	status := "healthy"
	if !dbHealthy {
		status = "unhealthy"
	} else if !h.estimatorLoaded {
		// The service still answers simulations in fallback mode, but
		// appraisals are rejected until an artifact is available.
		status = "degraded"
	}

	response := SystemStatusResponse{
		Status:          status,
		UptimeSeconds:   int64(time.Since(h.startupTime).Seconds()),
		CPUPercent:      cpuPercent,
		MemoryPercent:   memPercent,
		EstimatorLoaded: h.estimatorLoaded,
		RecordCount:     recordCount,
		DatabaseHealthy: dbHealthy,
		LastChecked:     time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DBInfo describes one database file on disk
type DBInfo struct {
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// DatabaseStatsResponse is the body of GET /api/system/database/stats
type DatabaseStatsResponse struct {
	Databases   []DBInfo        `json:"databases"`
	Internal    *database.Stats `json:"internal,omitempty"`
	TotalSizeMB float64         `json:"total_size_mb"`
	LastChecked string          `json:"last_checked"`
}

// HandleDatabaseStats returns database file sizes and pool stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	databases := []DBInfo{}
	totalSizeMB := 0.0

	dbPaths := []struct {
		name string
		path string
	}{
		{"listings.db", filepath.Join(h.dataDir, "listings.db")},
	}

	for _, dbPath := range dbPaths {
		if info, err := os.Stat(dbPath.path); err == nil {
			sizeMB := float64(info.Size()) / 1024 / 1024
			totalSizeMB += sizeMB

			databases = append(databases, DBInfo{
				Name:   dbPath.name,
				Path:   dbPath.path,
				SizeMB: sizeMB,
			})
		}
	}

	internal, err := h.listingsDB.GetStats()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read database page stats")
	}

	response := DatabaseStatsResponse{
		Databases:   databases,
		Internal:    internal,
		TotalSizeMB: totalSizeMB,
		LastChecked: time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DiskUsageResponse is the body of GET /api/system/disk
type DiskUsageResponse struct {
	DataDirMB  float64 `json:"data_dir_mb"`
	ModelDirMB float64 `json:"model_dir_mb"`
	TotalMB    float64 `json:"total_mb"`
}

// HandleDiskUsage returns disk usage statistics
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting disk usage")

	dataDirSize := h.getDirSize(h.dataDir)
	modelDir := filepath.Join(h.dataDir, "model")
	modelDirSize := h.getDirSize(modelDir)

	response := DiskUsageResponse{
		DataDirMB:  dataDirSize,
		ModelDirMB: modelDirSize,
		TotalMB:    dataDirSize,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages. A 100ms sample
// keeps the endpoint fast enough for dashboard polling.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	return cpuPercent[0], memStat.UsedPercent
}
