package controller

import (
	"net/http"

	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
)

// RootHandler is a web handler
func RootHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		c.RespondWithData(
			h.LinkArrayType{Links: []h.LinkType{
				{Rel: "api", Href: h.APIRoot},
			}},
		)
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// APIHandler is a web handler
func APIHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case "GET":
		c.RespondWithData(
			h.LinkArrayType{Links: []h.LinkType{
				h.GetLink("item", "", h.APITypeItem, 0),
				h.GetLink("stats", "", h.APITypeStats, 0),
				{Rel: "version", Href: "/api/version"},
			}},
		)
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// NotFoundHandler answers unknown routes in the standard envelope
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)
	c.RespondWithNotFound()
}
