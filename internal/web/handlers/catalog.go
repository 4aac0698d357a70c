package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
)

// CatalogHandler serves the two catalog side tables: districts and
// media outlets. The importer creates them; the API maintains the
// attributes the feed does not carry (outlet ratings, corrected
// populations).
type CatalogHandler struct {
	DB *sqlx.DB
}

// District is a district row as served by the API.
type District struct {
	ID         int64         `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Population sql.NullInt64 `db:"population" json:"population"`
	RegionID   int64         `db:"region_id" json:"region_id"`
}

// Outlet is a media outlet ("smi") row as served by the API.
type Outlet struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Rating float64 `db:"rating" json:"rating"`
	Male   float64 `db:"male" json:"male"`
}

// ListDistricts returns all districts.
func (h *CatalogHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	var districts []District
	if err := h.DB.Select(&districts, `SELECT id, name, population, region_id FROM district ORDER BY name`); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list districts")
		return
	}
	writeJSON(w, http.StatusOK, districts)
}

// GetDistrict returns one district.
func (h *CatalogHandler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	var district District
	err := h.DB.Get(&district, h.DB.Rebind(`SELECT id, name, population, region_id FROM district WHERE id = ?`), pathID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "district not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read district")
		return
	}
	writeJSON(w, http.StatusOK, district)
}

type districtBody struct {
	Name       string `json:"name"`
	Population *int64 `json:"population"`
	RegionID   int64  `json:"region_id"`
}

// CreateDistrict inserts a district into an existing region.
func (h *CatalogHandler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var body districtBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.RegionID == 0 {
		writeError(w, http.StatusBadRequest, "invalid district")
		return
	}

	var id int64
	err := h.DB.QueryRow(
		h.DB.Rebind(`INSERT INTO district (name, population, region_id) VALUES (?, ?, ?) RETURNING id`),
		body.Name, body.Population, body.RegionID,
	).Scan(&id)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to create district")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateDistrict replaces a district's fields.
func (h *CatalogHandler) UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	var body districtBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.RegionID == 0 {
		writeError(w, http.StatusBadRequest, "invalid district")
		return
	}

	res, err := h.DB.Exec(
		h.DB.Rebind(`UPDATE district SET name = ?, population = ?, region_id = ? WHERE id = ?`),
		body.Name, body.Population, body.RegionID, pathID(r),
	)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to update district")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "district not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDistrict removes a district and its broadcasts.
func (h *CatalogHandler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM broadcast WHERE district_id = ?`), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete district broadcasts")
		return
	}
	res, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM district WHERE id = ?`), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete district")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "district not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOutlets returns all media outlets.
func (h *CatalogHandler) ListOutlets(w http.ResponseWriter, r *http.Request) {
	var outlets []Outlet
	err := h.DB.Select(&outlets,
		`SELECT id, name, COALESCE(rating, 1.0) AS rating, COALESCE(male, 0.5) AS male FROM smi ORDER BY name`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list outlets")
		return
	}
	writeJSON(w, http.StatusOK, outlets)
}

// GetOutlet returns one media outlet.
func (h *CatalogHandler) GetOutlet(w http.ResponseWriter, r *http.Request) {
	var outlet Outlet
	err := h.DB.Get(&outlet,
		h.DB.Rebind(`SELECT id, name, COALESCE(rating, 1.0) AS rating, COALESCE(male, 0.5) AS male FROM smi WHERE id = ?`),
		pathID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "outlet not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read outlet")
		return
	}
	writeJSON(w, http.StatusOK, outlet)
}

type outletBody struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Male   float64 `json:"male"`
}

// CreateOutlet inserts a media outlet.
func (h *CatalogHandler) CreateOutlet(w http.ResponseWriter, r *http.Request) {
	var body outletBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid outlet")
		return
	}
	if body.Rating == 0 {
		body.Rating = 1.0
	}

	var id int64
	err := h.DB.QueryRow(
		h.DB.Rebind(`INSERT INTO smi (name, rating, male) VALUES (?, ?, ?) RETURNING id`),
		body.Name, body.Rating, body.Male,
	).Scan(&id)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to create outlet")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateOutlet replaces an outlet's fields. This is how audience
// ratings get onto imported outlets, which arrive with defaults.
func (h *CatalogHandler) UpdateOutlet(w http.ResponseWriter, r *http.Request) {
	var body outletBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid outlet")
		return
	}

	res, err := h.DB.Exec(
		h.DB.Rebind(`UPDATE smi SET name = ?, rating = ?, male = ? WHERE id = ?`),
		body.Name, body.Rating, body.Male, pathID(r),
	)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to update outlet")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "outlet not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOutlet removes an outlet and its broadcasts.
func (h *CatalogHandler) DeleteOutlet(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM broadcast WHERE smi_id = ?`), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete outlet broadcasts")
		return
	}
	res, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM smi WHERE id = ?`), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete outlet")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "outlet not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
