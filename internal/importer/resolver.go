package importer

import (
	"database/sql"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/xmlfeed"
)

// ErrNoOrganisation marks a record whose organisation cannot be resolved
// because the feed carries no business id for it. Such a license has no
// meaningful owner and the whole record is skipped.
var ErrNoOrganisation = errors.New("record has no organisation id")

// districtKey is the natural key of a district: districts with the same
// name in different regions are distinct entities.
type districtKey struct {
	regionID int64
	name     string
}

// Resolver deduplicates regions, districts, media outlets and
// organisations within a single import run. Each natural key hits
// storage exactly once; later references are served from the caches.
// A Resolver is bound to one transaction and is not reused across runs.
type Resolver struct {
	tx *sqlx.Tx

	regions   map[string]int64
	districts map[districtKey]int64
	outlets   map[string]int64
	orgs      map[int64]int64
}

// NewResolver creates a resolver with empty caches over the given
// transaction.
func NewResolver(tx *sqlx.Tx) *Resolver {
	return &Resolver{
		tx:        tx,
		regions:   make(map[string]int64),
		districts: make(map[districtKey]int64),
		outlets:   make(map[string]int64),
		orgs:      make(map[int64]int64),
	}
}

// insertReturningID runs a single insert under its own savepoint and
// scans back the assigned surrogate id. Callers update their cache only
// on success, so a rolled-back insert leaves no stale cache entry.
func (r *Resolver) insertReturningID(savepoint, query string, args ...interface{}) (int64, error) {
	var id int64
	err := withSavepoint(r.tx, savepoint, func() error {
		return r.tx.QueryRow(r.tx.Rebind(query), args...).Scan(&id)
	})
	return id, err
}

// Region resolves a region name to its surrogate id, inserting a new row
// on first sight.
func (r *Resolver) Region(name string) (int64, error) {
	if id, ok := r.regions[name]; ok {
		return id, nil
	}

	id, err := r.insertReturningID("sp_region",
		`INSERT INTO region (name) VALUES (?) RETURNING id`, name)
	if err != nil {
		return 0, addContext(err, "failed to insert region %q", name)
	}
	r.regions[name] = id
	return id, nil
}

// District resolves a (region, district name) pair to its surrogate id.
// populationRaw is the feed's decimal value in thousands; it is scaled
// to persons and stored only when the district is first seen. Later
// grid rows never update it.
func (r *Resolver) District(regionID int64, name string, populationRaw float64, hasPopulation bool) (int64, error) {
	key := districtKey{regionID: regionID, name: name}
	if id, ok := r.districts[key]; ok {
		return id, nil
	}

	var population interface{}
	if hasPopulation && populationRaw != 0 {
		population = int64(math.Round(populationRaw * 1000))
	}

	id, err := r.insertReturningID("sp_district",
		`INSERT INTO district (region_id, name, population) VALUES (?, ?, ?) RETURNING id`,
		regionID, name, population)
	if err != nil {
		return 0, addContext(err, "failed to insert district %q", name)
	}
	r.districts[key] = id
	return id, nil
}

// MediaOutlet resolves a media outlet ("smi") name to its surrogate id.
func (r *Resolver) MediaOutlet(name string) (int64, error) {
	if id, ok := r.outlets[name]; ok {
		return id, nil
	}

	id, err := r.insertReturningID("sp_smi",
		`INSERT INTO smi (name) VALUES (?) RETURNING id`, name)
	if err != nil {
		return 0, addContext(err, "failed to insert smi %q", name)
	}
	r.outlets[name] = id
	return id, nil
}

// Organisation resolves a record's organisation to its surrogate id,
// keyed on the external business id. The feed repeats organisations
// under the same tax id but different business ids, so a uniqueness
// conflict on insert falls back to a lookup by tax id. Returns
// ErrNoOrganisation when the record carries no business id; any other
// failure is recoverable at the record level.
func (r *Resolver) Organisation(rec *xmlfeed.Record) (int64, error) {
	bizID, ok := xmlfeed.OptionalInt(rec.OrgID)
	if !ok {
		return 0, ErrNoOrganisation
	}
	if id, ok := r.orgs[bizID]; ok {
		return id, nil
	}

	id, insertErr := r.insertReturningID("sp_org",
		`INSERT INTO organisation (org_id, name, name_short, inn, ogrn, address, phone, email)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		bizID,
		xmlfeed.Text(rec.OrgName),
		nullIfEmpty(rec.OrgNameShort),
		nullIfEmpty(rec.INN),
		nullIfEmpty(rec.OGRN),
		nullIfEmpty(rec.Address),
		nullIfEmpty(rec.Phone),
		nullIfEmpty(rec.Email),
	)
	if insertErr == nil {
		r.orgs[bizID] = id
		return id, nil
	}
	if !IsRecoverable(insertErr) {
		return 0, insertErr
	}

	// Expected on a duplicate tax id: look the existing row up instead.
	inn := xmlfeed.Text(rec.INN)
	if inn == "" {
		return 0, addContext(insertErr, "failed to insert organisation %d", bizID)
	}
	err := r.tx.QueryRow(r.tx.Rebind(`SELECT id FROM organisation WHERE inn = ?`), inn).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, recoverable("organisation %d: insert failed and no row with inn %q exists", bizID, inn)
		}
		return 0, recoverable("failed to look up organisation by inn %q: %w", inn, err)
	}
	r.orgs[bizID] = id
	return id, nil
}

// nullIfEmpty maps a blank field to SQL NULL. Keeping absent tax ids as
// NULL matters: the inn column is unique, and NULLs do not collide.
func nullIfEmpty(s string) interface{} {
	if trimmed := xmlfeed.Text(s); trimmed != "" {
		return trimmed
	}
	return nil
}
