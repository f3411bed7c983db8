// Package testing provides database fixtures for tests of packages built on
// the models.
package testing

import (
	"serveradmin/config"
	apsql "serveradmin/sql"

	gc "gopkg.in/check.v1"
)

// NewDB gets a new migrated database handle given a config.
func NewDB(c *gc.C, conf config.Database) *apsql.DB {
	c.Logf("connecting to database %v", conf)
	db, err := apsql.Connect(conf)
	c.Assert(err, gc.IsNil)
	c.Assert(db.Migrate(), gc.IsNil)

	return db
}

// NewMemoryDB gets a new migrated in-memory sqlite database.
func NewMemoryDB(c *gc.C) *apsql.DB {
	return NewDB(c, config.Database{
		Driver:           "sqlite3",
		ConnectionString: ":memory:",
	})
}

func inTx(c *gc.C, db *apsql.DB, logic func(tx *apsql.Tx) error) {
	c.Assert(db.DoInTransaction(logic), gc.IsNil)
}
