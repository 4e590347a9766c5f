package sqlite

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Options controls how a database file is opened.
type Options struct {
	Path        string
	ForeignKeys bool   // enforce FOREIGN KEY clauses (off reproduces the declared-but-unenforced schema)
	JournalMode string // defaults to WAL
}

// DSN builds a go-sqlite3 data source name. Pragmas are passed as DSN
// parameters so every pooled connection gets them, not just the first.
func (o Options) DSN() string {
	mode := o.JournalMode
	if mode == "" {
		mode = "WAL"
	}
	fk := "off"
	if o.ForeignKeys {
		fk = "on"
	}

	q := url.Values{}
	q.Set("_foreign_keys", fk)
	q.Set("_journal_mode", mode)
	q.Set("_busy_timeout", "5000")
	return FileURI(o.Path, q)
}

// FileURI builds a "file:" URI for path. The path is percent-escaped so a
// '?' or '#' in a file name is not taken for the query or fragment.
func FileURI(path string, q url.Values) string {
	uri := "file:" + strings.ReplaceAll(url.PathEscape(path), "%2F", "/")
	if len(q) > 0 {
		uri += "?" + q.Encode()
	}
	return uri
}

// Open connects to the database, checks the foreign key setting took effect
// and runs the migrations.
func Open(opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", opts.DSN())
	if err != nil {
		return nil, err
	}

	var fkEnabled int
	if err := db.QueryRow(`PRAGMA foreign_keys;`).Scan(&fkEnabled); err != nil {
		db.Close()
		return nil, errors.New("SQLite foreign key support check failed: " + err.Error())
	}
	if opts.ForeignKeys && fkEnabled != 1 {
		db.Close()
		return nil, errors.New("SQLite foreign keys not supported (requires SQLite 3.6.19+ compiled without SQLITE_OMIT_FOREIGN_KEY)")
	}

	if err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", opts.Path, err)
	}
	return db, nil
}
