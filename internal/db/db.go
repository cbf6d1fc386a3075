package db

import "database/sql"

// DB is the shared handle to the relational store. It embeds *sql.DB so
// callers keep the full database/sql surface.
type DB struct {
	*sql.DB
}
