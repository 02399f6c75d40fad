package controller

import (
	"net/http"
	"time"

	"github.com/microcosm-collective/itemcache/models"
)

// ServiceName is reported by the health endpoint
const ServiceName = "itemcache"

// HealthHandler reports connectivity to the database and cache. It answers
// 503 when either is unreachable.
func (env *Env) HealthHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		health := env.Items.CheckHealth(c.Request.Context(), env.Started)
		if !health.Healthy() {
			c.Respond(health, http.StatusServiceUnavailable, []string{health.Message})
			return
		}
		c.RespondWithData(health)
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// ReadyHandler says whether the service can take traffic
func (env *Env) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "GET":
		health := env.Items.CheckHealth(c.Request.Context(), env.Started)
		if !health.Healthy() {
			c.Respond(map[string]bool{"ready": false}, http.StatusServiceUnavailable, nil)
			return
		}
		c.RespondWithData(map[string]bool{"ready": true})
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// LiveHandler says the process is running. It touches no backing store.
func (env *Env) LiveHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "GET":
		c.RespondWithData(map[string]interface{}{
			"alive":     true,
			"service":   ServiceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
