package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	e "github.com/microcosm-collective/itemcache/errors"
)

// Item is a single named entry in the items collection
type Item struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"createdAt"`
}

// ItemStore is the durable source of truth for items
type ItemStore interface {
	// InsertItem persists an item with the given name and returns it with
	// the ID and creation time assigned by the store
	InsertItem(ctx context.Context, name string) (Item, error)

	// GetItems returns every item, newest first
	GetItems(ctx context.Context) ([]Item, error)

	// DeleteItem removes the item and reports whether it existed
	DeleteItem(ctx context.Context, itemID int64) (bool, error)

	// CountItems returns the number of items
	CountItems(ctx context.Context) (int64, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}

// PostgresItemStore is an ItemStore on PostgreSQL
type PostgresItemStore struct {
	db *sql.DB
}

// NewPostgresItemStore returns a store using the given connection pool
func NewPostgresItemStore(db *sql.DB) *PostgresItemStore {
	return &PostgresItemStore{db: db}
}

// pgCheckViolation is the SQLSTATE for a CHECK constraint failure
const pgCheckViolation pq.ErrorCode = "23514"

// InsertItem saves an item
func (s *PostgresItemStore) InsertItem(ctx context.Context, name string) (Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, e.Wrap("models.InsertItem", e.StoreUnavailable,
			fmt.Errorf("could not start a transaction: %w", err))
	}
	defer tx.Rollback()

	m := Item{Name: name}
	err = tx.QueryRowContext(ctx, `--InsertItem
INSERT INTO items (
    name
) VALUES (
    $1
) RETURNING item_id, created`,
		name,
	).Scan(
		&m.ID,
		&m.Created,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgCheckViolation {
			return Item{}, e.New("models.InsertItem", e.ItemNameRequired,
				"Item name is required")
		}
		return Item{}, e.Wrap("models.InsertItem", e.StoreUnavailable,
			fmt.Errorf("error inserting data: %w", err))
	}

	err = tx.Commit()
	if err != nil {
		return Item{}, e.Wrap("models.InsertItem", e.StoreUnavailable,
			fmt.Errorf("transaction failed: %w", err))
	}

	m.Created = m.Created.UTC()

	return m, nil
}

// GetItems returns all items ordered by creation time, newest first
func (s *PostgresItemStore) GetItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `--GetItems
SELECT item_id
      ,name
      ,created
  FROM items
 ORDER BY created DESC, item_id DESC`)
	if err != nil {
		return nil, e.Wrap("models.GetItems", e.StoreUnavailable,
			fmt.Errorf("database query failed: %w", err))
	}
	defer rows.Close()

	ems := []Item{}
	for rows.Next() {
		m := Item{}
		err = rows.Scan(
			&m.ID,
			&m.Name,
			&m.Created,
		)
		if err != nil {
			return nil, e.Wrap("models.GetItems", e.StoreUnavailable,
				fmt.Errorf("row parsing error: %w", err))
		}
		m.Created = m.Created.UTC()
		ems = append(ems, m)
	}
	err = rows.Err()
	if err != nil {
		return nil, e.Wrap("models.GetItems", e.StoreUnavailable,
			fmt.Errorf("error fetching rows: %w", err))
	}
	rows.Close()

	return ems, nil
}

// DeleteItem removes an item
func (s *PostgresItemStore) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `--DeleteItem
DELETE FROM items
 WHERE item_id = $1`,
		itemID,
	)
	if err != nil {
		return false, e.Wrap("models.DeleteItem", e.StoreUnavailable,
			fmt.Errorf("error deleting data: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, e.Wrap("models.DeleteItem", e.StoreUnavailable, err)
	}

	return n > 0, nil
}

// CountItems counts every item. This is never cached.
func (s *PostgresItemStore) CountItems(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `--CountItems
SELECT COUNT(*)
  FROM items`,
	).Scan(&total)
	if err != nil {
		return 0, e.Wrap("models.CountItems", e.StoreUnavailable,
			fmt.Errorf("database query failed: %w", err))
	}

	return total, nil
}

// Ping checks the database connection
func (s *PostgresItemStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
