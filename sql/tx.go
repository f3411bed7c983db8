package sql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Tx wraps a *sql.Tx with the driver we're using
type Tx struct {
	*sqlx.Tx
	DB            *DB
	notifications []*Notification
}

// Get wraps sqlx's Get with driver-specific query modifications.
func (tx *Tx) Get(dest interface{}, query string, args ...interface{}) error {
	return tx.Tx.Get(dest, tx.q(query), args...)
}

// Select wraps sqlx's Select with driver-specific query modifications.
func (tx *Tx) Select(dest interface{}, query string, args ...interface{}) error {
	return tx.Tx.Select(dest, tx.q(query), args...)
}

// Exec wraps sqlx's Exec with driver-specific query modifications
func (tx *Tx) Exec(query string, args ...interface{}) (sql.Result, error) {
	return tx.Tx.Exec(tx.q(query), args...)
}

// InsertOne inserts a row into the DB and returns the ID of the new row.
func (tx *Tx) InsertOne(baseQuery string, args ...interface{}) (id int64, err error) {
	baseQuery = strings.TrimSpace(baseQuery)
	if strings.HasSuffix(baseQuery, ";") {
		return 0, fmt.Errorf("InsertOne query must not end in ;: %s", baseQuery)
	}
	if tx.DB.Driver == Postgres {
		err = tx.Get(&id, baseQuery+` RETURNING "id";`, args...)
		return
	}

	result, err := tx.Exec(baseQuery+";", args...)
	if err != nil {
		return
	}
	return result.LastInsertId()
}

// UpdateOne updates a row, returning success iff 1 row was affected
func (tx *Tx) UpdateOne(query string, args ...interface{}) error {
	result, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	numRows, err := result.RowsAffected()
	if err == nil && numRows == 0 {
		return ErrZeroRowsAffected
	}
	if err != nil || numRows != 1 {
		return fmt.Errorf("Expected 1 row to be affected; got %d, error: %v", numRows, err)
	}
	return nil
}

// DeleteOne is an alias for UpdateOne, for better semantic flavor when used
// with DELETE sql queries
func (tx *Tx) DeleteOne(query string, args ...interface{}) error {
	return tx.UpdateOne(query, args...)
}

// Notify creates a notification and posts it against this transaction.
//
// Sqlite tracks notifications manually and notifies them on transaction
// commit (in memory on a single box), whereas Postgres uses its NOTIFY
// command, which is delivered on commit to every listening server.
func (tx *Tx) Notify(table string, id int64, event NotificationEventType, messages ...interface{}) error {
	n := Notification{
		Table:    table,
		ID:       id,
		Event:    event,
		Messages: messages,
	}

	if tx.DB.Driver == Postgres {
		payload, err := json.Marshal(&n)
		if err != nil {
			return err
		}
		_, err = tx.Tx.Exec(`SELECT pg_notify($1, $2)`, postgresNotifyChannel, string(payload))
		return err
	}

	tx.notifications = append(tx.notifications, &n)
	return nil
}

// Commit commits the transaction and sends out pending notifications
func (tx *Tx) Commit() error {
	err := tx.Tx.Commit()
	if err == nil {
		for _, n := range tx.notifications {
			tx.DB.notifyListeners(n)
		}
	}
	return err
}

// SQL returns a sql query from a static file, scoped to driver
func (tx *Tx) SQL(name string) string {
	return tx.DB.SQL(name)
}

// does driver modifications to query
func (tx *Tx) q(sql string) string {
	return tx.DB.q(sql)
}
