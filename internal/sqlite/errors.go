package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsForeignKeyError reports a FOREIGN KEY constraint violation. It can only
// occur on connections opened with foreign key enforcement.
func IsForeignKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
