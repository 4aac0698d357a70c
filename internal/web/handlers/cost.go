package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/cost"
)

// CostHandler serves the cost reports the budget calculator consumes.
type CostHandler struct {
	DB *sqlx.DB
}

// OrganisationCosts returns every organisation's total broadcast cost,
// keyed by organisation name.
func (h *CostHandler) OrganisationCosts(w http.ResponseWriter, r *http.Request) {
	totals, err := cost.OrganisationTotals(h.DB)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to calculate organisation costs")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// RegionCost returns the summed broadcast cost for one region; region
// id 0 covers the whole country.
func (h *CostHandler) RegionCost(w http.ResponseWriter, r *http.Request) {
	total, err := cost.RegionCost(h.DB, pathID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to calculate region cost")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"region_cost": total})
}
