// Package backup writes gzip-compressed SQL dumps of the customer database.
package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/custbook/internal/sqlite"
)

const fileSuffix = "_custbook.sql.gz"

type Service struct {
	db     *sqlx.DB
	dbPath string
	now    func() time.Time
}

func NewService(db *sqlx.DB, dbPath string) *Service {
	return &Service{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}
}

// Result describes a written backup.
type Result struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	Rows     map[string]int `json:"rows"`
}

// Create snapshots the database with VACUUM INTO and dumps the snapshot to
// backups/<timestamp>_custbook.sql.gz next to the database file. Dumping the
// snapshot keeps the live database free for writers.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	dir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	snapshot := filepath.Join(dir, "snapshot.tmp")
	os.Remove(snapshot) // VACUUM INTO refuses an existing file
	defer os.Remove(snapshot)

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return nil, fmt.Errorf("vacuum into snapshot: %w", err)
	}

	snap, err := sqlx.Open("sqlite3", sqlite.FileURI(snapshot, url.Values{"mode": {"ro"}}))
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snap.Close()

	filename := s.now().Format("2006-01-02_15.04.05") + fileSuffix
	path := filepath.Join(dir, filename)

	rows, err := writeFile(ctx, snap, path, s.now())
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	return &Result{
		Filename: filename,
		Path:     path,
		Size:     info.Size(),
		Rows:     rows,
	}, nil
}

func writeFile(ctx context.Context, db *sqlx.DB, path string, at time.Time) (map[string]int, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	rows, err := Dump(ctx, db, gz, at)
	if err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close backup file: %w", err)
	}
	return rows, nil
}

// Dump writes the schema and every row of db to w as a SQL script that
// recreates the database inside one transaction. The script stamps the
// custbook application_id so sqlite.Open accepts the restored file. It
// returns the number of rows written per table.
func Dump(ctx context.Context, db *sqlx.DB, w io.Writer, at time.Time) (map[string]int, error) {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- Custbook database backup\n-- Generated: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(bw, "PRAGMA application_id = %d;\n", sqlite.ApplicationID)
	bw.WriteString("PRAGMA foreign_keys=OFF;\nBEGIN TRANSACTION;\n\n")

	objects, err := schemaObjects(ctx, db)
	if err != nil {
		return nil, err
	}
	for _, o := range objects {
		bw.WriteString(o.SQL + ";\n")
	}
	bw.WriteString("\n")

	counts := map[string]int{}
	for _, o := range objects {
		if o.Type != "table" {
			continue
		}
		n, err := dumpTable(ctx, db, bw, o.Name)
		if err != nil {
			return nil, fmt.Errorf("dump %s: %w", o.Name, err)
		}
		counts[o.Name] = n
	}

	bw.WriteString("COMMIT;\n")
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write dump: %w", err)
	}
	return counts, nil
}

type schemaObject struct {
	Type string `db:"type"`
	Name string `db:"name"`
	SQL  string `db:"sql"`
}

// schemaObjects lists tables before indexes so the script replays in order.
func schemaObjects(ctx context.Context, db *sqlx.DB) ([]schemaObject, error) {
	var out []schemaObject
	err := db.SelectContext(ctx, &out, `
		SELECT type, name, sql
		FROM sqlite_master
		WHERE sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	return out, nil
}

func dumpTable(ctx context.Context, db *sqlx.DB, w *bufio.Writer, table string) (int, error) {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return 0, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("get columns: %w", err)
	}
	for i, c := range columns {
		columns[i] = fmt.Sprintf("%q", c)
	}
	prefix := fmt.Sprintf("INSERT INTO %q (%s) VALUES (", table, strings.Join(columns, ", "))

	n := 0
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return n, fmt.Errorf("scan row: %w", err)
		}
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = literal(v)
		}
		w.WriteString(prefix + strings.Join(values, ", ") + ");\n")
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterate rows: %w", err)
	}
	if n > 0 {
		w.WriteString("\n")
	}
	return n, nil
}

// literal renders v as a SQLite literal.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case int64, float64:
		return fmt.Sprint(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return quote(val.UTC().Format("2006-01-02 15:04:05"))
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
