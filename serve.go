package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/microcosm-collective/itemcache/audit"
	"github.com/microcosm-collective/itemcache/cache"
	conf "github.com/microcosm-collective/itemcache/config"
	"github.com/microcosm-collective/itemcache/controller"
	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
	"github.com/microcosm-collective/itemcache/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// Catch closing signal, drain the server and flush logs
	ctx, stop := signal.NotifyContext(
		parent,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	started := time.Now()

	c, err := conf.Load(configPath)
	if err != nil {
		return err
	}

	// It's our responsibility to set up the database connection and cache
	// before we start the server, and to close them after it stops
	if glog.V(2) {
		glog.Infof(
			"Initialising DB connection on %s:%d for database %s",
			c.Strings[conf.DatabaseHost],
			c.Int64s[conf.DatabasePort],
			c.Strings[conf.DatabaseName],
		)
	}
	db, err := h.OpenDB(ctx, dbConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	store := newCacheStore(c)

	items := models.NewItemCache(
		models.NewPostgresItemStore(db),
		store,
		int32(c.Int64s[conf.CacheTTL]),
	)

	env := &controller.Env{
		Items:   items,
		Audit:   audit.NewRecorder(db),
		Started: started,
	}

	glog.Infof("Environment: %s", c.Strings[conf.Environment])

	err = server.StartServer(ctx, c.Int64s[conf.ListenPort], env, items)
	if err != nil {
		return err
	}

	glog.Info("Server stopped")
	return nil
}

func dbConfig(c *conf.Config) h.DBConfig {
	return h.DBConfig{
		Host:     c.Strings[conf.DatabaseHost],
		Port:     c.Int64s[conf.DatabasePort],
		Database: c.Strings[conf.DatabaseName],
		Username: c.Strings[conf.DatabaseUsername],
		Password: c.Strings[conf.DatabasePassword],
		SSLMode:  c.Strings[conf.DatabaseSSLMode],
	}
}

// newCacheStore uses memcached when a host is configured and an in-process
// cache otherwise
func newCacheStore(c *conf.Config) cache.Store {
	host := c.Strings[conf.MemcachedHost]
	if host == "" {
		glog.Warning("No memcached_host configured, using an in-process cache")
		return cache.NewMemory()
	}

	if glog.V(2) {
		glog.Infof(
			"Initialising cache connection to %s:%d",
			host,
			c.Int64s[conf.MemcachedPort],
		)
	}
	return cache.NewMemcache(host, c.Int64s[conf.MemcachedPort])
}
