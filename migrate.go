package main

import (
	"context"

	"github.com/spf13/cobra"

	conf "github.com/microcosm-collective/itemcache/config"
	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		Long: `Create the items table, its created-descending index and the
item_audit table. Existing tables are left untouched, so this is safe to run
on every deploy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			c, err := conf.Load(configPath)
			if err != nil {
				return err
			}

			db, err := h.OpenDB(ctx, dbConfig(c))
			if err != nil {
				return err
			}
			defer db.Close()

			return models.CreateSchema(ctx, db)
		},
	}
}
