package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adcalc/internal/audit"
	"github.com/adcalc/internal/config"
	"github.com/adcalc/internal/db"
	"github.com/adcalc/internal/importer"
	"github.com/adcalc/internal/xmlfeed"
)

var (
	flagDriver   string
	flagDebug    bool
	flagStatus   string
	flagActivity string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "importer [xml-file] [database] [schema-file]",
		Short: "Broadcast license XML importer",
		Long: `Imports the broadcast license open-data XML feed into a normalized
target database, keeping only currently-valid radio broadcasting licenses.`,
		Args: cobra.MaximumNArgs(3),
		RunE: runImport,
	}

	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "database driver: sqlite or postgres (default from DB_DRIVER)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug output")
	rootCmd.Flags().StringVar(&flagStatus, "status", importer.DefaultStatusFilter, "license status to import")
	rootCmd.Flags().StringVar(&flagActivity, "activity", importer.DefaultActivityFilter, "licensed activity to import")

	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createStatsCmd())
	rootCmd.AddCommand(createLoadRatingsCmd())

	config.LoadEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// driver returns the selected database driver, flag over environment.
func driver() string {
	if flagDriver != "" {
		return flagDriver
	}
	return config.GetEnv("DB_DRIVER", db.DriverSQLite)
}

func runImport(cmd *cobra.Command, args []string) error {
	xmlPath := config.GetEnv("ADCALC_XML", config.DefaultXMLPath)
	dbPath := config.GetEnv("ADCALC_DB", config.DefaultDBPath)
	schemaPath := config.GetEnv("ADCALC_SCHEMA", config.DefaultSchemaPath)
	if len(args) > 0 {
		xmlPath = args[0]
	}
	if len(args) > 1 {
		dbPath = args[1]
	}
	if len(args) > 2 {
		schemaPath = args[2]
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("XML to Target Schema Database Importer")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("XML file: %s\n", xmlPath)
	fmt.Printf("Database: %s (%s)\n", dbPath, driver())
	fmt.Printf("Schema: %s\n", schemaPath)
	fmt.Println("\nFilters applied:")
	fmt.Printf("  - status = '%s'\n", flagStatus)
	fmt.Printf("  - licensed_activity = '%s'\n", flagActivity)
	fmt.Println(strings.Repeat("=", 70))

	// A run always starts from an empty store.
	if err := db.Recreate(driver(), dbPath); err != nil {
		return err
	}

	conn, err := db.Open(driver(), dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Creating database schema from %s...\n", schemaPath)
	if err := db.ExecScript(conn.DB, schemaPath); err != nil {
		return err
	}
	fmt.Println("Database schema created successfully.")

	fmt.Printf("Parsing XML file: %s\n", xmlPath)
	feed, err := xmlfeed.Parse(xmlPath)
	if err != nil {
		return err
	}

	imp := importer.New(conn.DB, importer.Config{
		Filter: importer.Filter{Status: flagStatus, Activity: flagActivity},
		Debug:  flagDebug,
	})
	res, err := imp.Run(feed, xmlPath)
	if err != nil {
		return err
	}

	fmt.Println("\nImport complete!")
	fmt.Printf("  Inserted: %d records\n", res.Accepted)
	fmt.Printf("  Filtered out: %d records\n", res.Filtered)
	if res.Skipped > 0 {
		fmt.Printf("  Skipped (unresolvable): %d records\n", res.Skipped)
	}
	fmt.Printf("  Broadcast rows written: %d\n", res.Facts)
	return nil
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.Open(driver(), config.GetEnv("ADCALC_DB", config.DefaultDBPath))
			if err != nil {
				return err
			}
			defer conn.Close()

			var count int
			if err := conn.DB.QueryRow(`SELECT COUNT(*) FROM broadcast`).Scan(&count); err != nil {
				return fmt.Errorf("failed to count broadcast rows: %w", err)
			}
			fmt.Println("Database connection successful!")
			fmt.Printf("Broadcast rows loaded: %d\n", count)
			return nil
		},
	}
}

// createStatsCmd creates a command showing per-table counts and the
// last import run.
func createStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show table counts and the last import run",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.Open(driver(), config.GetEnv("ADCALC_DB", config.DefaultDBPath))
			if err != nil {
				return err
			}
			defer conn.Close()

			for _, table := range []string{"region", "district", "smi", "organisation", "broadcast"} {
				var count int
				if err := conn.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
					return fmt.Errorf("failed to count %s rows: %w", table, err)
				}
				fmt.Printf("%-14s %d\n", table, count)
			}

			run, err := audit.LastRun(conn.DB)
			if err != nil {
				return err
			}
			if run == nil {
				fmt.Println("\nNo import has run against this database.")
				return nil
			}
			fmt.Printf("\nLast import: %s\n", run.Source)
			fmt.Printf("  accepted=%d filtered=%d skipped=%d facts=%d (%v)\n",
				run.Accepted, run.Filtered, run.Skipped, run.Facts, run.Duration().Round(time.Millisecond))
			return nil
		},
	}
}
