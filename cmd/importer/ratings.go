package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adcalc/internal/config"
	"github.com/adcalc/internal/db"
)

const defaultRatingsPath = "data/region_ratings.json"

type regionRating struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// createLoadRatingsCmd creates a command that applies region audience
// ratings from a JSON seed file to an already imported database.
func createLoadRatingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-ratings [ratings-file]",
		Short: "Load region ratings from a JSON seed file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ratingsPath := config.GetEnv("ADCALC_RATINGS", defaultRatingsPath)
			if len(args) > 0 {
				ratingsPath = args[0]
			}

			ratings, err := readRatings(ratingsPath)
			if err != nil {
				return err
			}

			conn, err := db.Open(driver(), config.GetEnv("ADCALC_DB", config.DefaultDBPath))
			if err != nil {
				return err
			}
			defer conn.Close()

			updated := 0
			unknown := 0
			for _, r := range ratings {
				res, err := conn.DB.Exec(conn.DB.Rebind(`UPDATE region SET rating = ? WHERE name = ?`), r.Rating, r.Name)
				if err != nil {
					return fmt.Errorf("failed to update rating for region %q: %w", r.Name, err)
				}
				affected, err := res.RowsAffected()
				if err != nil {
					return fmt.Errorf("failed to read update result for region %q: %w", r.Name, err)
				}
				if affected > 0 {
					updated++
				} else {
					unknown++
				}
			}

			fmt.Printf("Ratings applied: %d regions updated, %d not present in database.\n", updated, unknown)
			return nil
		},
	}
}

func readRatings(path string) ([]regionRating, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings file: %w", err)
	}
	var ratings []regionRating
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, fmt.Errorf("failed to parse ratings file %s: %w", path, err)
	}
	return ratings, nil
}
