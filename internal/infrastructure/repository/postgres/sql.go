package postgres

import "database/sql"

// isNotFound distinguishes an empty result from a store failure.
func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}
