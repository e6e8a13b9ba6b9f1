package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/hedge/internal/database"
	"github.com/aristath/hedge/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints.
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	universeDB  *database.DB
	scoresDB    *database.DB
	portfolioDB *database.DB

	batchScoringJob scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	universeDB, scoresDB, portfolioDB *database.DB,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		universeDB:  universeDB,
		scoresDB:    scoresDB,
		portfolioDB: portfolioDB,
	}
}

// SetBatchScoringJob registers the batch scoring job for manual triggering.
func (h *SystemHandlers) SetBatchScoringJob(job scheduler.Job) {
	h.batchScoringJob = job
}

// SystemStatusResponse represents the system status response.
type SystemStatusResponse struct {
	Status          string  `json:"status"`
	UptimeHours     float64 `json:"uptime_hours"`
	CPUPercent      float64 `json:"cpu_percent"`
	RAMPercent      float64 `json:"ram_percent"`
	CompanyCount    int     `json:"company_count"`
	SnapshotCount   int     `json:"snapshot_count"`
	PortfolioCount  int     `json:"portfolio_count"`
	LastScoringRun  string  `json:"last_scoring_run,omitempty"`
	LastScoringDate string  `json:"last_scoring_date,omitempty"`
}

// HandleSystemStatus returns system status including resource usage and
// universe/scoring counters.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()

	var companyCount int
	if err := h.universeDB.QueryRow(`SELECT COUNT(*) FROM companies WHERE active = 1`).Scan(&companyCount); err != nil && err != sql.ErrNoRows {
		h.log.Warn().Err(err).Msg("Failed to count companies")
	}

	var snapshotCount int
	if err := h.scoresDB.QueryRow(`SELECT COUNT(*) FROM score_snapshots`).Scan(&snapshotCount); err != nil && err != sql.ErrNoRows {
		h.log.Warn().Err(err).Msg("Failed to count snapshots")
	}

	var portfolioCount int
	if err := h.portfolioDB.QueryRow(`SELECT COUNT(*) FROM portfolios`).Scan(&portfolioCount); err != nil && err != sql.ErrNoRows {
		h.log.Warn().Err(err).Msg("Failed to count portfolios")
	}

	var lastRunStatus, lastRunDate sql.NullString
	err := h.scoresDB.QueryRow(`SELECT status, run_date FROM scoring_runs
		ORDER BY started_at DESC LIMIT 1`).Scan(&lastRunStatus, &lastRunDate)
	if err != nil && err != sql.ErrNoRows {
		h.log.Warn().Err(err).Msg("Failed to query last scoring run")
	}

	response := SystemStatusResponse{
		Status:          "healthy",
		UptimeHours:     time.Since(h.startupTime).Hours(),
		CPUPercent:      cpuPercent,
		RAMPercent:      ramPercent,
		CompanyCount:    companyCount,
		SnapshotCount:   snapshotCount,
		PortfolioCount:  portfolioCount,
		LastScoringRun:  lastRunStatus.String,
		LastScoringDate: lastRunDate.String,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// DatabaseStatsResponse represents database statistics.
type DatabaseStatsResponse struct {
	Databases   []DBInfo `json:"databases"`
	TotalSizeMB float64  `json:"total_size_mb"`
	LastChecked string   `json:"last_checked"`
}

// DBInfo represents information about a single database.
type DBInfo struct {
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// HandleDatabaseStats returns database statistics.
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	var (
		databases   []DBInfo
		totalSizeMB float64
	)
	for _, db := range []*database.DB{h.universeDB, h.scoresDB, h.portfolioDB} {
		sizeMB := float64(db.SizeBytes()) / 1024 / 1024
		totalSizeMB += sizeMB
		databases = append(databases, DBInfo{
			Name:   db.Name(),
			Path:   db.Path(),
			SizeMB: sizeMB,
		})
	}

	response := DatabaseStatsResponse{
		Databases:   databases,
		TotalSizeMB: totalSizeMB,
		LastChecked: time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// HandleTriggerBatchScoring triggers the batch scoring job immediately.
// POST /api/system/jobs/batch-scoring
func (h *SystemHandlers) HandleTriggerBatchScoring(w http.ResponseWriter, r *http.Request) {
	if h.batchScoringJob == nil {
		h.log.Warn().Msg("Batch scoring job not registered yet")
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Batch scoring job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual batch scoring triggered")

	if err := h.batchScoringJob.Run(); err != nil {
		h.log.Error().Err(err).Msg("Batch scoring job failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Batch scoring completed",
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a short sampling interval to avoid blocking the API call.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
