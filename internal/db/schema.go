package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ExecScript reads a schema definition file and executes it statement by
// statement. A missing file or a failing statement is fatal to the run, so
// both surface as errors rather than being skipped.
func ExecScript(db *sqlx.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	for _, stmt := range SplitStatements(string(data)) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %q: %w", abbreviate(stmt), err)
		}
	}
	return nil
}

// SplitStatements splits an SQL script on semicolons, dropping line
// comments and blank fragments. Good enough for DDL scripts; string
// literals containing semicolons are not supported.
func SplitStatements(script string) []string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, chunk := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(chunk); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func abbreviate(stmt string) string {
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > 60 {
		return stmt[:60] + "..."
	}
	return stmt
}
