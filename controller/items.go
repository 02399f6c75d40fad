package controller

import (
	"net/http"

	"github.com/golang/glog"

	h "github.com/microcosm-collective/itemcache/helpers"
	"github.com/microcosm-collective/itemcache/models"
)

// ItemsController is a web controller
type ItemsController struct {
	env *Env
}

// ItemRequestType is the body of a create request
type ItemRequestType struct {
	Name string `json:"name"`
}

// ItemsHandler is a web handler
func (env *Env) ItemsHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	ctl := ItemsController{env: env}

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "GET", "HEAD", "POST"})
		return
	case "GET", "HEAD":
		ctl.ReadMany(c)
	case "POST":
		ctl.Create(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// ReadMany handles GET, serving the snapshot when cached
func (ctl *ItemsController) ReadMany(c *models.Context) {
	ems, err := ctl.env.Items.GetItems(c.Request.Context())
	if err != nil {
		glog.Errorf("Error fetching items: %+v", err)
		c.RespondWithErrorDetail(err)
		return
	}

	c.RespondWithData(ems)
}

// Create handles POST
func (ctl *ItemsController) Create(c *models.Context) {
	m := ItemRequestType{}
	err := c.Fill(&m)
	if err != nil {
		c.RespondWithErrorDetail(err)
		return
	}

	item, err := ctl.env.Items.CreateItem(c.Request.Context(), m.Name)
	if err != nil {
		if item.ID > 0 {
			// Saved, but the snapshot could not be invalidated
			ctl.env.auditCreate(c, item.ID)
		}
		glog.Errorf("Error creating item: %+v", err)
		c.RespondWithErrorDetail(err)
		return
	}

	ctl.env.auditCreate(c, item.ID)

	c.RespondWithCreated(item, h.GetLink("self", "", h.APITypeItem, item.ID).Href)
}
