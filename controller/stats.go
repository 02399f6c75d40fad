package controller

import (
	"net/http"
	"time"

	"github.com/golang/glog"

	"github.com/microcosm-collective/itemcache/models"
)

// StatsHandler is a web handler reporting the item count and whether the
// item snapshot is cached
func (env *Env) StatsHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		stats, err := env.Items.GetStats(c.Request.Context())
		if err != nil {
			glog.Errorf("Error getting stats: %+v", err)
			c.RespondWithErrorDetail(err)
			return
		}
		stats.Uptime = time.Since(env.Started).Seconds()

		c.RespondWithData(stats)
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
