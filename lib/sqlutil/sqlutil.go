package sqlutil

import (
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func driverFor(dsn string) string {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "libsql"
		}
	}
	return "sqlite"
}

// Open opens a local sqlite file (or a remote libsql url) and applies
// the given schema. Schemas are expected to be written with
// CREATE TABLE IF NOT EXISTS so reopening an existing database is a
// no-op.
func Open(schema, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverFor(dsn), dsn)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
