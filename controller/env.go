package controller

import (
	"context"
	"net"
	"time"

	"github.com/microcosm-collective/itemcache/models"
)

// ItemService is what the item controllers need from models.ItemCache
type ItemService interface {
	GetItems(ctx context.Context) ([]models.Item, error)
	CreateItem(ctx context.Context, name string) (models.Item, error)
	DeleteItem(ctx context.Context, itemID int64) error
	GetStats(ctx context.Context) (models.ItemStatsType, error)
	CheckHealth(ctx context.Context, started time.Time) models.HealthType
}

// Auditor records successful writes
type Auditor interface {
	Create(itemID int64, seen time.Time, ipAddress net.IP)
	Delete(itemID int64, seen time.Time, ipAddress net.IP)
}

// Env holds the dependencies shared by every handler. It is built once by
// main and handed to the router.
type Env struct {
	Items   ItemService
	Audit   Auditor
	Started time.Time
}

func (env *Env) auditCreate(c *models.Context, itemID int64) {
	if env.Audit != nil {
		env.Audit.Create(itemID, c.StartTime, c.IP)
	}
}

func (env *Env) auditDelete(c *models.Context, itemID int64) {
	if env.Audit != nil {
		env.Audit.Delete(itemID, c.StartTime, c.IP)
	}
}
