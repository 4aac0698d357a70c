package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/cost"
)

// OrganisationsHandler serves organisation CRUD and the coverage
// summary used by the organisation list view.
type OrganisationsHandler struct {
	DB *sqlx.DB
}

// Organisation is an organisation row as served by the API. The
// external business id is read-only: it comes from the feed and the
// importer deduplicates on it.
type Organisation struct {
	ID        int64          `db:"id" json:"id"`
	OrgID     int64          `db:"org_id" json:"org_id"`
	Name      string         `db:"name" json:"name"`
	NameShort sql.NullString `db:"name_short" json:"name_short"`
	INN       sql.NullString `db:"inn" json:"inn"`
	OGRN      sql.NullString `db:"ogrn" json:"ogrn"`
	Address   sql.NullString `db:"address" json:"address"`
	Phone     sql.NullString `db:"phone" json:"phone"`
	Email     sql.NullString `db:"email" json:"email"`
}

// organisationBody is the mutable subset accepted on create/update.
type organisationBody struct {
	OrgID     int64  `json:"org_id"`
	Name      string `json:"name"`
	NameShort string `json:"name_short"`
	INN       string `json:"inn"`
	OGRN      string `json:"ogrn"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

const organisationColumns = `id, org_id, name, name_short, inn, ogrn, address, phone, email`

// List returns all organisations.
func (h *OrganisationsHandler) List(w http.ResponseWriter, r *http.Request) {
	var orgs []Organisation
	if err := h.DB.Select(&orgs, `SELECT `+organisationColumns+` FROM organisation ORDER BY name`); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list organisations")
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

// Get returns one organisation.
func (h *OrganisationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var org Organisation
	err := h.DB.Get(&org, h.DB.Rebind(`SELECT `+organisationColumns+` FROM organisation WHERE id = ?`), pathID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "organisation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read organisation")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Create inserts a new organisation.
func (h *OrganisationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body organisationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid organisation")
		return
	}

	var id int64
	err := h.DB.QueryRow(
		h.DB.Rebind(`INSERT INTO organisation (org_id, name, name_short, inn, ogrn, address, phone, email)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		body.OrgID, body.Name,
		nullable(body.NameShort), nullable(body.INN), nullable(body.OGRN),
		nullable(body.Address), nullable(body.Phone), nullable(body.Email),
	).Scan(&id)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to create organisation")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update replaces an organisation's mutable fields.
func (h *OrganisationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body organisationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid organisation")
		return
	}

	res, err := h.DB.Exec(
		h.DB.Rebind(`UPDATE organisation SET name = ?, name_short = ?, inn = ?, ogrn = ?, address = ?, phone = ?, email = ?
			WHERE id = ?`),
		body.Name,
		nullable(body.NameShort), nullable(body.INN), nullable(body.OGRN),
		nullable(body.Address), nullable(body.Phone), nullable(body.Email),
		pathID(r),
	)
	if err != nil {
		writeError(w, http.StatusConflict, "failed to update organisation")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "organisation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an organisation and its broadcasts.
func (h *OrganisationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM broadcast WHERE org_id = ?`), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete organisation broadcasts")
		return
	}
	res, err := h.DB.Exec(h.DB.Rebind(`DELETE FROM organisation WHERE id = ?`), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete organisation")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "organisation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns the organisation's coverage aggregate: distinct
// outlets and districts, covered population, total cost.
func (h *OrganisationsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := cost.SummarizeOrganisation(h.DB, pathID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize organisation")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
