package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
)

// RegionsHandler serves regions. Regions are created by the importer;
// the API only reads them and maintains their price coefficients.
type RegionsHandler struct {
	DB *sqlx.DB
}

// Region is a region row as served by the API.
type Region struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Rating float64 `db:"rating" json:"rating"`
}

// List returns all regions with their coefficients.
func (h *RegionsHandler) List(w http.ResponseWriter, r *http.Request) {
	var regions []Region
	if err := h.DB.Select(&regions, `SELECT id, name, COALESCE(rating, 1.0) AS rating FROM region ORDER BY name`); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list regions")
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

// UpdateRating sets a region's price coefficient.
func (h *RegionsHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating *float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rating == nil {
		writeError(w, http.StatusBadRequest, "invalid rating value")
		return
	}

	id := pathID(r)
	res, err := h.DB.Exec(h.DB.Rebind(`UPDATE region SET rating = ? WHERE id = ?`), *body.Rating, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update region rating")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}

	var region Region
	err = h.DB.QueryRow(h.DB.Rebind(`SELECT id, name, COALESCE(rating, 1.0) FROM region WHERE id = ?`), id).
		Scan(&region.ID, &region.Name, &region.Rating)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, "failed to read region")
		return
	}
	writeJSON(w, http.StatusOK, region)
}
