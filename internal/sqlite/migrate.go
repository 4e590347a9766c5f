package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/GuiaBolso/darwin"
	_ "github.com/mattn/go-sqlite3"
)

// ApplicationID is the SQLite application_id for custbook databases.
// "CUST" in ASCII: C=0x43, U=0x55, S=0x53, T=0x54
const ApplicationID = 0x43555354

// ErrInvalidDatabase is returned when the database is not a valid custbook database.
var ErrInvalidDatabase = errors.New("not a valid 'custbook' database")

// defineMigrations returns the ordered schema steps.
// Comments may only trail sql on a line (they are stripped before the checksum is taken).
// *NEVER* change/remove a step once released! darwin stores a checksum of every script.
func defineMigrations() []darwin.Migration {
	return []darwin.Migration{

		// Major version per schema release (1.xx, 2.xx), minor number per step.

		{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x43555354;`},

		{Version: 1.01, Description: "Create Table 'customers'", Script: `
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`},

		{Version: 1.02, Description: "Create Table 'addresses'", Script: `
		CREATE TABLE IF NOT EXISTS addresses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			address_details TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			pin_code TEXT NOT NULL,
			is_primary BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE
		);`},

		{Version: 1.03, Description: "Create Index 'idx_addresses_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_addresses_customer_id ON addresses (customer_id ASC);`},
	}
}

// changes returns a user-friendly display of database version changes
func changes(v1, v2 float64) string {
	if v1 != v2 {
		return fmt.Sprintf("DB Version: %.2f (migrated from %.2f to %.2f)", v2, v1, v2)
	}
	return fmt.Sprintf("DB Version: %.2f", v1)
}

// currentVersion reads the darwin table for the number of applied steps and the latest version.
func currentVersion(db *sql.DB) (count int, ver float64, err error) {
	// a new database has no darwin table yet
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE tbl_name = 'darwin_migrations';`).Scan(&count)
	if err != nil || count == 0 {
		return 0, 0, err
	}

	err = db.QueryRow(`SELECT COUNT(*), MAX(version) FROM darwin_migrations;`).Scan(&count, &ver)
	return count, ver, err
}

// minifiedMigrations returns the migrations with minified scripts so that
// formatting or comment edits do not change the stored checksum.
func minifiedMigrations() []darwin.Migration {
	migrations := defineMigrations()
	for i := range migrations {
		migrations[i].Script = minify(migrations[i].Script)
	}
	return migrations
}

// minify lowercases the script, drops comments and collapses whitespace.
func minify(script string) string {
	var b strings.Builder
	s := strings.ToLower(strings.ReplaceAll(script, "/*", "--"))
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "--"); i != -1 {
			line = line[:i]
		}
		b.WriteString(strings.TrimSpace(line))
		b.WriteString("\n")
	}
	result := strings.TrimSpace(strings.ReplaceAll(b.String(), "\t", " "))
	for {
		next := strings.ReplaceAll(result, "  ", " ")
		if next == result {
			break
		}
		result = next
	}
	return result
}

// progress drains the darwin info channel into a readable report.
func progress(ch <-chan darwin.MigrationInfo) string {
	var b strings.Builder
	for info := range ch {
		_, _ = fmt.Fprintf(&b, "v%.2f: %q (%s) Error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	return b.String()
}

// Schema returns the schema definition for display.
func Schema() string {
	var b strings.Builder
	for _, m := range defineMigrations() {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// VerifyApplicationID checks that the database has the custbook application_id.
// An empty database (application_id 0 and no tables) is accepted.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	if appID == ApplicationID {
		return nil
	}
	if appID != 0 {
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tableCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tableCount > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations brings the schema of an open database up to date.
func RunMigrations(db *sql.DB) error {
	if err := VerifyApplicationID(db); err != nil {
		return err
	}

	count, v1, err := currentVersion(db)
	if err != nil {
		return err
	}

	migrations := minifiedMigrations()
	if count == len(migrations) && v1 == migrations[count-1].Version {
		log.Printf("Database version %.2f is current, no migrations needed", v1)
		return nil
	}

	driver := darwin.NewGenericDriver(db, darwin.SqliteDialect{})
	infoChan := make(chan darwin.MigrationInfo, len(migrations))
	d := darwin.New(driver, migrations, infoChan)

	if err := d.Migrate(); err != nil {
		close(infoChan)
		_, v2, _ := currentVersion(db)
		prog := progress(infoChan)
		log.Printf("migration (was v%.2f now v%.2f): %v (%s)", v1, v2, err, prog)
		return fmt.Errorf("migration error: %w\n%s", err, prog)
	}
	close(infoChan)

	_, v2, err := currentVersion(db)
	if err != nil {
		return err
	}

	log.Print(changes(v1, v2))
	return nil
}
