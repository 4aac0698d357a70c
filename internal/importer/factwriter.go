package importer

import (
	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/xmlfeed"
)

// FactWriter inserts broadcast fact rows. Every call inserts a new row;
// there is no upsert, duplicate protection comes from the run's single
// commit-at-end transaction.
type FactWriter struct {
	tx *sqlx.Tx
}

// NewFactWriter creates a fact writer over the given transaction.
func NewFactWriter(tx *sqlx.Tx) *FactWriter {
	return &FactWriter{tx: tx}
}

// Insert writes one broadcast row referencing the resolved organisation,
// media outlet and district. The grid row's technical fields are stored
// as found in the feed; blanks become NULL.
func (w *FactWriter) Insert(orgID, smiID, districtID int64, row *xmlfeed.GridRow) error {
	err := withSavepoint(w.tx, "sp_broadcast", func() error {
		_, err := w.tx.Exec(
			w.tx.Rebind(`INSERT INTO broadcast (org_id, smi_id, district_id, mount_point, channel_num, freq, power, brcst_time)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			orgID, smiID, districtID,
			nullIfEmpty(row.MountPoint),
			nullIfEmpty(row.ChannelNum),
			nullIfEmpty(row.Freq),
			nullIfEmpty(row.Power),
			nullIfEmpty(row.BrcstTime),
		)
		return err
	})
	if err != nil {
		return addContext(err, "failed to insert broadcast row")
	}
	return nil
}
