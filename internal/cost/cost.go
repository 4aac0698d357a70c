// Package cost implements the advertising cost model over the imported
// broadcast data: a broadcast's cost is a function of the media outlet's
// audience rating, the district's population, and the region's price
// coefficient.
package cost

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Cost is the price of one broadcast placement. A district with no known
// population costs nothing, matching the reporting layer's behavior for
// incomplete feed data.
func Cost(smiRating float64, population int64, regionRating float64) float64 {
	if population <= 0 {
		return 0
	}
	return smiRating / 100 * float64(population) * regionRating
}

// broadcastRow carries the three resolved attributes the formula needs.
type broadcastRow struct {
	OrgName    string  `db:"org_name"`
	SmiRating  float64 `db:"smi_rating"`
	Population int64   `db:"population"`
	Rating     float64 `db:"region_rating"`
}

const broadcastJoin = `
	FROM broadcast b
	JOIN organisation o ON o.id = b.org_id
	JOIN smi s ON s.id = b.smi_id
	JOIN district d ON d.id = b.district_id
	JOIN region r ON r.id = d.region_id`

// OrganisationTotals returns each organisation's summed broadcast cost,
// keyed by organisation name.
func OrganisationTotals(db *sqlx.DB) (map[string]float64, error) {
	var rows []broadcastRow
	err := db.Select(&rows, `SELECT o.name AS org_name,
			COALESCE(s.rating, 1.0) AS smi_rating,
			COALESCE(d.population, 0) AS population,
			COALESCE(r.rating, 1.0) AS region_rating`+broadcastJoin)
	if err != nil {
		return nil, fmt.Errorf("failed to query organisation broadcasts: %w", err)
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		totals[row.OrgName] += Cost(row.SmiRating, row.Population, row.Rating)
	}
	return totals, nil
}

// RegionCost returns the summed cost of all broadcasts placed in the
// given region. Region id 0 means the whole country.
func RegionCost(db *sqlx.DB, regionID int64) (float64, error) {
	query := `SELECT o.name AS org_name,
			COALESCE(s.rating, 1.0) AS smi_rating,
			COALESCE(d.population, 0) AS population,
			COALESCE(r.rating, 1.0) AS region_rating` + broadcastJoin
	args := []interface{}{}
	if regionID != 0 {
		query += ` WHERE r.id = ?`
		args = append(args, regionID)
	}

	var rows []broadcastRow
	if err := db.Select(&rows, db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to query region broadcasts: %w", err)
	}

	total := 0.0
	for _, row := range rows {
		total += Cost(row.SmiRating, row.Population, row.Rating)
	}
	return total, nil
}

// OrganisationSummary aggregates one organisation's footprint for the
// list view: distinct outlets and districts, covered population, and
// total cost.
type OrganisationSummary struct {
	Outlets    int     `json:"outlets"`
	Districts  int     `json:"districts"`
	Population int64   `json:"population"`
	TotalCost  float64 `json:"total_cost"`
}

// SummarizeOrganisation computes the summary for one organisation.
func SummarizeOrganisation(db *sqlx.DB, orgID int64) (OrganisationSummary, error) {
	var summary OrganisationSummary

	err := db.QueryRow(db.Rebind(`SELECT
			COUNT(DISTINCT b.smi_id),
			COUNT(DISTINCT b.district_id)
		FROM broadcast b WHERE b.org_id = ?`), orgID,
	).Scan(&summary.Outlets, &summary.Districts)
	if err != nil {
		return summary, fmt.Errorf("failed to count organisation coverage: %w", err)
	}

	// Population counts each covered district once, however many
	// broadcasts land in it.
	err = db.QueryRow(db.Rebind(`SELECT COALESCE(SUM(population), 0) FROM district
		WHERE id IN (SELECT DISTINCT district_id FROM broadcast WHERE org_id = ?)
		AND population IS NOT NULL`), orgID,
	).Scan(&summary.Population)
	if err != nil {
		return summary, fmt.Errorf("failed to sum covered population: %w", err)
	}

	var rows []broadcastRow
	err = db.Select(&rows, db.Rebind(`SELECT o.name AS org_name,
			COALESCE(s.rating, 1.0) AS smi_rating,
			COALESCE(d.population, 0) AS population,
			COALESCE(r.rating, 1.0) AS region_rating`+broadcastJoin+`
		WHERE b.org_id = ?`), orgID)
	if err != nil {
		return summary, fmt.Errorf("failed to query organisation broadcasts: %w", err)
	}
	for _, row := range rows {
		summary.TotalCost += Cost(row.SmiRating, row.Population, row.Rating)
	}
	return summary, nil
}
