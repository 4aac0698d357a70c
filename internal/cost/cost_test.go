package cost

import (
	"math"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/adcalc/internal/db"
)

func TestCost(t *testing.T) {
	tests := []struct {
		name         string
		smiRating    float64
		population   int64
		regionRating float64
		expected     float64
	}{
		{"baseline ratings", 1.0, 100000, 1.0, 1000},
		{"high outlet rating", 2.5, 100000, 1.0, 2500},
		{"region coefficient", 1.0, 100000, 1.3, 1300},
		{"combined", 2.0, 50000, 0.8, 800},
		{"zero population", 1.0, 0, 1.5, 0},
		{"unknown population", 2.0, -1, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cost(tt.smiRating, tt.population, tt.regionRating)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cost(%v, %d, %v) = %v, expected %v",
					tt.smiRating, tt.population, tt.regionRating, got, tt.expected)
			}
		})
	}
}

func seedBroadcasts(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.ExecScript(conn.DB, "../../data/target_schema.sql"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	stmts := []string{
		`INSERT INTO region (id, name, rating) VALUES (1, 'Регион Один', 1.0)`,
		`INSERT INTO region (id, name, rating) VALUES (2, 'Регион Два', 2.0)`,
		`INSERT INTO district (id, name, population, region_id) VALUES (1, 'Город А', 100000, 1)`,
		`INSERT INTO district (id, name, population, region_id) VALUES (2, 'Город Б', 50000, 2)`,
		`INSERT INTO district (id, name, population, region_id) VALUES (3, 'Город В', NULL, 2)`,
		`INSERT INTO smi (id, name, rating) VALUES (1, 'Радио Альфа', 1.0)`,
		`INSERT INTO smi (id, name, rating) VALUES (2, 'Радио Бета', 3.0)`,
		`INSERT INTO organisation (id, org_id, name, inn) VALUES (1, 101, 'ООО Альфа', '7700000001')`,
		`INSERT INTO organisation (id, org_id, name, inn) VALUES (2, 102, 'ООО Бета', '7700000002')`,
		`INSERT INTO broadcast (org_id, smi_id, district_id) VALUES (1, 1, 1)`,
		`INSERT INTO broadcast (org_id, smi_id, district_id) VALUES (1, 1, 2)`,
		`INSERT INTO broadcast (org_id, smi_id, district_id) VALUES (2, 2, 2)`,
		`INSERT INTO broadcast (org_id, smi_id, district_id) VALUES (2, 2, 3)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.DB.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed data: %v", err)
		}
	}
	return conn.DB
}

func TestOrganisationTotals(t *testing.T) {
	dbx := seedBroadcasts(t)

	totals, err := OrganisationTotals(dbx)
	if err != nil {
		t.Fatalf("OrganisationTotals failed: %v", err)
	}

	// Альфа: 1.0/100*100000*1.0 + 1.0/100*50000*2.0 = 1000 + 1000
	if got := totals["ООО Альфа"]; math.Abs(got-2000) > 1e-9 {
		t.Errorf("Expected total 2000 for 'ООО Альфа', got %v", got)
	}
	// Бета: 3.0/100*50000*2.0 = 3000; the NULL-population district adds 0
	if got := totals["ООО Бета"]; math.Abs(got-3000) > 1e-9 {
		t.Errorf("Expected total 3000 for 'ООО Бета', got %v", got)
	}
}

func TestRegionCost(t *testing.T) {
	dbx := seedBroadcasts(t)

	tests := []struct {
		name     string
		regionID int64
		expected float64
	}{
		{"single region", 1, 1000},
		{"second region", 2, 4000},
		{"whole country", 0, 5000},
		{"unknown region", 99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegionCost(dbx, tt.regionID)
			if err != nil {
				t.Fatalf("RegionCost failed: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("RegionCost(%d) = %v, expected %v", tt.regionID, got, tt.expected)
			}
		})
	}
}

func TestSummarizeOrganisation(t *testing.T) {
	dbx := seedBroadcasts(t)

	summary, err := SummarizeOrganisation(dbx, 2)
	if err != nil {
		t.Fatalf("SummarizeOrganisation failed: %v", err)
	}

	if summary.Outlets != 1 {
		t.Errorf("Expected 1 outlet, got %d", summary.Outlets)
	}
	if summary.Districts != 2 {
		t.Errorf("Expected 2 districts, got %d", summary.Districts)
	}
	if summary.Population != 50000 {
		t.Errorf("Expected covered population 50000, got %d", summary.Population)
	}
	if math.Abs(summary.TotalCost-3000) > 1e-9 {
		t.Errorf("Expected total cost 3000, got %v", summary.TotalCost)
	}
}
