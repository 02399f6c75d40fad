package helpers

import (
	"fmt"
)

// API paths
const (
	APIRoot      string = "/api"
	APITypeItem  string = "/api/items"
	APITypeStats string = "/api/stats"
)

// LinkArrayType is a collection of links
type LinkArrayType struct {
	Links []LinkType `json:"links"`
}

// LinkType is a link
type LinkType struct {
	Rel   string `json:"rel,omitempty"` // REST
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// GetLink returns a link for the given API path, with the item ID appended
// if it is greater than zero
func GetLink(rel string, title string, apiPath string, id int64) LinkType {
	href := apiPath
	if id > 0 {
		href = fmt.Sprintf("%s/%d", apiPath, id)
	}

	return LinkType{Rel: rel, Href: href, Title: title}
}
