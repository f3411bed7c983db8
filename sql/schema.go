package sql

func setupSchemaTable(db *DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(`CREATE TABLE IF NOT EXISTS schema (version integer);`); err != nil {
		tx.Rollback()
		return err
	}
	if _, err = tx.Exec(`INSERT INTO schema VALUES (0);`); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func migrate(db *DB, version int, scripts ...string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, script := range scripts {
		if _, err = tx.Tx.Exec(db.SQL(script)); err != nil {
			tx.Rollback()
			return err
		}
	}
	if _, err = tx.Exec(`UPDATE schema SET version = ?;`, version); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
