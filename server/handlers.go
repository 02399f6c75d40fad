package server

import (
	"net/http"

	"github.com/microcosm-collective/itemcache/controller"
)

func handlers(env *controller.Env) map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		"/":    controller.RootHandler,
		"/api": controller.APIHandler,

		"/api/items":                  env.ItemsHandler,
		"/api/items/{item_id:[0-9]+}": env.ItemHandler,

		"/api/stats": env.StatsHandler,

		"/api/version": controller.VersionHandler,

		"/health": env.HealthHandler,
		"/ready":  env.ReadyHandler,
		"/live":   env.LiveHandler,
	}
}
