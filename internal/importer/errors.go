package importer

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RecoverableError marks a failure confined to one record or one grid
// row. The orchestrator logs it and moves on; anything else is
// structural and aborts the run.
type RecoverableError struct {
	err error
}

func (e *RecoverableError) Error() string { return e.err.Error() }

func (e *RecoverableError) Unwrap() error { return e.err }

func recoverable(format string, args ...interface{}) error {
	return &RecoverableError{err: fmt.Errorf(format, args...)}
}

// IsRecoverable reports whether err is confined to one record or row.
func IsRecoverable(err error) bool {
	var rerr *RecoverableError
	return errors.As(err, &rerr)
}

// withSavepoint runs fn under a savepoint, rolling back to it when fn
// fails so the surrounding transaction stays usable (postgres aborts a
// transaction on the first failed statement; sqlite does not care).
// fn's failure comes back wrapped as recoverable; a savepoint that
// cannot be managed is a structural error and stays plain.
func withSavepoint(tx *sqlx.Tx, name string, fn func() error) error {
	if _, err := tx.Exec("SAVEPOINT " + name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}
	if err := fn(); err != nil {
		if _, rbErr := tx.Exec("ROLLBACK TO SAVEPOINT " + name); rbErr != nil {
			return fmt.Errorf("failed to roll back savepoint %s: %w", name, rbErr)
		}
		return &RecoverableError{err: err}
	}
	if _, err := tx.Exec("RELEASE SAVEPOINT " + name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

// addContext rewraps a recoverable error with caller context, passing
// structural errors through untouched.
func addContext(err error, format string, args ...interface{}) error {
	var rerr *RecoverableError
	if errors.As(err, &rerr) {
		return recoverable(format+": %w", append(args, rerr.err)...)
	}
	return err
}
