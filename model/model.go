// Package model holds the persisted serveradmin records and their SQL
// access functions.
package model

import (
	aperrors "serveradmin/errors"
	apsql "serveradmin/sql"
)

// isUniqueError reports whether err is the unique constraint failure on
// the given columns, for both drivers.
func isUniqueError(err error, table string, columns ...string) bool {
	return apsql.IsUniqueConstraint(err, table, columns...)
}

func addTaken(errors aperrors.Errors, err error, table, field string, columns ...string) {
	if isUniqueError(err, table, columns...) {
		errors.Add(field, "is already taken")
	}
}
