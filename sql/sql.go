// Package sql wraps the database connection used by serveradmin and
// dispatches change notifications to registered listeners.
package sql

import (
	"database/sql"
	drvr "database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"serveradmin/config"
	"serveradmin/logreport"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// NotificationEventType determined what happened in a notified update.
type NotificationEventType int

const (
	// Insert means a row was inserted
	Insert NotificationEventType = iota

	// Update means a row was updated
	Update

	// Delete means a row was deleted
	Delete
)

const postgresNotifyChannel = "serveradmin"

// Notification is used to serialize information to pass with events
type Notification struct {
	Table    string
	ID       int64
	Event    NotificationEventType
	Messages []interface{}
}

// A Listener gets notified of notifications
type Listener interface {
	// Notify tells the listener a particular notification was fired
	Notify(*Notification)

	// Reconnect tells the listener that we may have been disconnected, but
	// have reconnected. They should update all state that could have changed.
	Reconnect()
}

// Queryer runs read queries. Both DB and Tx implement it.
type Queryer interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	SQL(name string) string
}

// ErrZeroRowsAffected is an error returned from updates when 0 rows were changed.
var ErrZeroRowsAffected = errors.New("Zero rows affected")

var qrx = regexp.MustCompile(`\?`)

// Connect opens and returns a database connection.
func Connect(conf config.Database) (*DB, error) {
	var driver driverType
	switch conf.Driver {
	case Sqlite3, Postgres:
		driver = driverType(conf.Driver)
	default:
		return nil,
			fmt.Errorf("Database driver must be sqlite3 or postgres (got '%v')",
				conf.Driver)
	}

	logreport.Printf("%s Connecting to database", config.System)
	sqlxDB, err := sqlx.Open(conf.Driver, conf.ConnectionString)
	if err != nil {
		return nil, err
	}

	sqlxDB.SetMaxOpenConns(int(conf.MaxConnections))
	if driver == Sqlite3 && strings.Contains(conf.ConnectionString, ":memory:") {
		// Every connection to :memory: opens its own empty database.
		sqlxDB.SetMaxOpenConns(1)
	}

	db := &DB{DB: sqlxDB, Driver: driver}

	switch driver {
	case Sqlite3:
		// Foreign key support is disabled by default for each new sqlite
		// connection, so turn it on for every connection added to the pool.
		if sqliteDriver, ok := db.DB.Driver().(*sqlite3.SQLiteDriver); ok {
			sqliteDriver.ConnectHook = func(conn *sqlite3.SQLiteConn) error {
				_, err := conn.Exec("PRAGMA foreign_keys=ON;", []drvr.Value{})
				return err
			}
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
	case Postgres:
		if err := db.Ping(); err != nil {
			return nil, err
		}
		// We use Postgres' NOTIFY to update state across servers
		if err := db.startListening(conf); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// IsUniqueConstraint returns whether or not the error looks like a unique constraint error
func IsUniqueConstraint(err error, table string, keys ...string) bool {
	if err == nil {
		return false
	}
	errString := err.Error()
	pgString := fmt.Sprintf("pq: duplicate key value violates unique constraint \"%s_%s_key\"",
		table, strings.Join(keys, "_"))

	if strings.Contains(errString, pgString) {
		return true
	}

	fullKeys := []string{}
	for _, k := range keys {
		fullKeys = append(fullKeys, strings.Join([]string{table, k}, "."))
	}

	sqliteString := fmt.Sprintf("UNIQUE constraint failed: %s", strings.Join(fullKeys, ", "))
	return strings.Contains(errString, sqliteString)
}

// IsNoResult returns whether the error reports a missing row.
func IsNoResult(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// NQs returns n comma separated '?'s
func NQs(n int) string {
	return strings.Join(strings.Split(strings.Repeat("?", n), ""), ",")
}

// q converts "?" characters to $1, $2, $n on Postgres
func q(sql string, driver driverType) string {
	if driver == Sqlite3 {
		return sql
	}
	n := 0
	return qrx.ReplaceAllStringFunc(sql, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

type listeners struct {
	sync.RWMutex
	all []Listener
}
