package db

import (
	"context"
	"database/sql"

	"authgate/internal/db/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate brings the schema up to date from the embedded migration files.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
