package models

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitiseText strips all HTML from text that is echoed back to clients,
// such as the context parameter. The result is HTML-escaped and must not be
// stored.
func SanitiseText(s string) string {
	return textPolicy.Sanitize(s)
}

// CleanItemName returns the name as it will be stored. Only surrounding
// whitespace is removed; the rest is kept byte for byte.
func CleanItemName(name string) string {
	return strings.TrimSpace(name)
}
