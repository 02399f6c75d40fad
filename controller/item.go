package controller

import (
	"net/http"

	"github.com/golang/glog"

	e "github.com/microcosm-collective/itemcache/errors"
	"github.com/microcosm-collective/itemcache/models"
)

// ItemController is a web controller
type ItemController struct {
	env *Env
}

// ItemHandler is a web handler
func (env *Env) ItemHandler(w http.ResponseWriter, r *http.Request) {
	c := models.MakeContext(r, w)

	ctl := ItemController{env: env}

	switch c.GetHTTPMethod() {
	case "OPTIONS":
		c.RespondWithOptions([]string{"OPTIONS", "DELETE"})
		return
	case "DELETE":
		ctl.Delete(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// Delete handles DELETE
func (ctl *ItemController) Delete(c *models.Context) {
	itemID, err := c.GetItemID()
	if err != nil {
		c.RespondWithErrorDetail(err)
		return
	}

	err = ctl.env.Items.DeleteItem(c.Request.Context(), itemID)
	if err != nil {
		if !e.Is(err, e.ItemNotFound) {
			glog.Errorf("Error deleting item %d: %+v", itemID, err)
		}
		if e.Is(err, e.CacheUnavailable) {
			// Deleted, but the snapshot could not be invalidated
			ctl.env.auditDelete(c, itemID)
		}
		c.RespondWithErrorDetail(err)
		return
	}

	ctl.env.auditDelete(c, itemID)

	c.RespondWithData(map[string]string{"message": "Item deleted successfully"})
}
