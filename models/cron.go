package models

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// LogItemStats returns a job that logs the live item count and whether the
// snapshot is cached. It is scheduled by the server.
func LogItemStats(m *ItemCache) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := m.GetStats(ctx)
		if err != nil {
			glog.Errorf("LogItemStats: %+v", err)
			return
		}

		glog.Infof(
			"Items: %d total, snapshot %s",
			stats.TotalItems,
			stats.CacheStatus,
		)
	}
}
