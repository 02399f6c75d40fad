package models

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang/glog"
)

var schema = []string{
	`--CreateSchema
CREATE TABLE IF NOT EXISTS items (
    item_id BIGSERIAL PRIMARY KEY
   ,name TEXT NOT NULL CHECK (btrim(name) <> '')
   ,created TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`,
	`--CreateSchema
CREATE INDEX IF NOT EXISTS items_created_idx
    ON items (created DESC)`,
	`--CreateSchema
CREATE TABLE IF NOT EXISTS item_audit (
    item_id BIGINT NOT NULL
   ,action CHAR(1) NOT NULL
   ,seen TIMESTAMP WITH TIME ZONE NOT NULL
   ,ip INET NOT NULL
)`,
}

// CreateSchema creates the tables and indexes the service needs. It is safe
// to run repeatedly.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start a transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	glog.Info("Database schema initialised")

	return nil
}
