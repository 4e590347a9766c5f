// Package demodata provides sample customers for demo deployments.
package demodata

import (
	"database/sql"
	_ "embed"
)

//go:embed sample.sql
var sampleSQL string

// Load inserts demo data into the database.
// This should only be called on a freshly created database after migrations.
func Load(db *sql.DB) error {
	_, err := db.Exec(sampleSQL)
	return err
}
