// Package importer loads the broadcast license feed into the normalized
// target schema: filter to active radio licenses, resolve organisations
// and geography with per-run dedup caches, write one broadcast fact per
// grid row, commit once at the end.
package importer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/audit"
	"github.com/adcalc/internal/debug"
	"github.com/adcalc/internal/xmlfeed"
)

// Config controls one import run.
type Config struct {
	Filter Filter
	Debug  bool
}

// Result reports what a run did. Accepted + Filtered + Skipped equals
// the number of records in the feed.
type Result struct {
	Accepted int // records imported
	Filtered int // records rejected by the status/activity filter
	Skipped  int // records dropped because resolution failed
	Facts    int // broadcast rows written
}

// Importer drives the per-record pipeline. One Importer performs one run
// over one feed; the dedup caches live and die with that run.
type Importer struct {
	db  *sqlx.DB
	cfg Config
}

// New creates an importer over an already initialized schema.
func New(db *sqlx.DB, cfg Config) *Importer {
	if cfg.Filter == (Filter{}) {
		cfg.Filter = DefaultFilter()
	}
	return &Importer{db: db, cfg: cfg}
}

// Run imports the feed inside one explicit transaction. Per-record and
// per-grid-row failures are logged and skipped; only structural storage
// errors abort the run, in which case nothing is committed.
func (im *Importer) Run(feed *xmlfeed.Feed, source string) (Result, error) {
	defer debug.Timing(im.cfg.Debug, "import run")()

	started := time.Now().UTC()

	tx, err := im.db.Beginx()
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolver := NewResolver(tx)
	facts := NewFactWriter(tx)

	var res Result
	for i := range feed.Records {
		rec := &feed.Records[i]

		if !im.cfg.Filter.Admit(rec) {
			res.Filtered++
			continue
		}

		orgID, err := resolver.Organisation(rec)
		if err != nil {
			if errors.Is(err, ErrNoOrganisation) {
				debug.Output(im.cfg.Debug, "record %d: no organisation id, skipping", i)
			} else if IsRecoverable(err) {
				log.Printf("record %d (org_id %s): %v, skipping record", i, xmlfeed.Text(rec.OrgID), err)
			} else {
				return Result{}, err
			}
			res.Skipped++
			continue
		}

		written, err := im.importGrid(resolver, facts, orgID, rec)
		if err != nil {
			if !IsRecoverable(err) {
				return Result{}, err
			}
			log.Printf("record %d (org %d): %v, skipping record", i, orgID, err)
			res.Skipped++
			continue
		}

		res.Facts += written
		res.Accepted++
		if res.Accepted%10 == 0 {
			fmt.Printf("Processed %d matching records...\n", res.Accepted)
		}
	}

	if err := audit.Record(tx, audit.Run{
		Source:     source,
		Accepted:   res.Accepted,
		Filtered:   res.Filtered,
		Skipped:    res.Skipped,
		Facts:      res.Facts,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}); err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return res, nil
}

// importGrid resolves the record's media outlet and writes one broadcast
// row per grid row. An outlet that cannot be created fails the record;
// a single row failing to resolve or insert loses that row only.
func (im *Importer) importGrid(resolver *Resolver, facts *FactWriter, orgID int64, rec *xmlfeed.Record) (int, error) {
	if len(rec.Grid.Rows) == 0 {
		return 0, nil
	}

	smiID, err := resolver.MediaOutlet(xmlfeed.Text(rec.SmiName))
	if err != nil {
		return 0, err
	}

	written := 0
	for i := range rec.Grid.Rows {
		row := &rec.Grid.Rows[i]

		if err := im.importRow(resolver, facts, orgID, smiID, row); err != nil {
			if !IsRecoverable(err) {
				return written, err
			}
			log.Printf("org %d, grid row %d: %v, skipping row", orgID, i, err)
			continue
		}
		written++
	}
	return written, nil
}

func (im *Importer) importRow(resolver *Resolver, facts *FactWriter, orgID, smiID int64, row *xmlfeed.GridRow) error {
	regionID, err := resolver.Region(xmlfeed.Text(row.RegionName))
	if err != nil {
		return err
	}

	population, hasPopulation := xmlfeed.OptionalFloat(row.Population)
	districtID, err := resolver.District(regionID, xmlfeed.Text(row.DistrictName), population, hasPopulation)
	if err != nil {
		return err
	}

	return facts.Insert(orgID, smiID, districtID, row)
}
