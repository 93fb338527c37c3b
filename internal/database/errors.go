package database

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsUniqueViolation reports a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	code, msg, ok := sqliteError(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"))
}

// IsForeignKeyViolation reports a FOREIGN KEY constraint failure, raised by
// inserts with a dangling reference and by deletes blocked by RESTRICT.
func IsForeignKeyViolation(err error) bool {
	code, msg, ok := sqliteError(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "FOREIGN KEY"))
}

func sqliteError(err error) (int, string, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, "", false
	}
	return sqliteErr.Code(), sqliteErr.Error(), true
}
