// Package repository holds the MySQL implementations of the stores the
// services depend on. Sentinel errors below let services tell "absent"
// and "duplicate" apart from infrastructure failures.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when no row matches the requested id or key.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would duplicate a
// user's email.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
