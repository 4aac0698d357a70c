package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/audit"
)

// StatsHandler serves store-level statistics.
type StatsHandler struct {
	DB *sqlx.DB
}

// StatsResponse reports per-table row counts and the last import run.
type StatsResponse struct {
	Tables  map[string]int `json:"tables"`
	LastRun *RunSummary    `json:"last_run,omitempty"`
}

// RunSummary is the last import run as served by the API.
type RunSummary struct {
	Source     string    `json:"source"`
	Accepted   int       `json:"accepted"`
	Filtered   int       `json:"filtered"`
	Skipped    int       `json:"skipped"`
	Facts      int       `json:"facts"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// GetStats returns overall store statistics
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{Tables: make(map[string]int)}

	for _, table := range []string{"region", "district", "smi", "organisation", "broadcast"} {
		var count int
		if err := h.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to count "+table)
			return
		}
		stats.Tables[table] = count
	}

	run, err := audit.LastRun(h.DB)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read last import run")
		return
	}
	if run != nil {
		stats.LastRun = &RunSummary{
			Source:     run.Source,
			Accepted:   run.Accepted,
			Filtered:   run.Filtered,
			Skipped:    run.Skipped,
			Facts:      run.Facts,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		}
	}

	writeJSON(w, http.StatusOK, stats)
}
