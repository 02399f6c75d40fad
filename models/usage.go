package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/golang/glog"
)

// Usage encapsulates a request and the key metrics and info around the request
// such as the time spent serving it, who asked for it, the endpoint, etc
type Usage struct {
	Method        string
	URL           string
	EndPointURL   string
	UserAgent     string
	HTTPStatus    int
	IPAddr        string
	ContentLength int
	Created       string
	TimeSpent     time.Duration
	Error         string
}

// For replacing resource IDs in URLS so they can be easily grouped
var regURLIDs = regexp.MustCompile(`/[0-9]+`)

const repURLIDs string = `/{id}`

// EndPointURL strips the querystring and replaces IDs to allow grouping
func EndPointURL(u string) string {
	return regURLIDs.ReplaceAllString(strings.Split(u, "?")[0], repURLIDs)
}

// SendUsage is called at the end of processing a request and writes a single
// access log line describing it
func SendUsage(
	c *Context,
	statusCode int,
	contentLength int,
	dur time.Duration,
	errors []string,
) {

	m := Usage{}

	m.Method = c.GetHTTPMethod()
	m.URL = c.Request.URL.String()
	m.EndPointURL = EndPointURL(m.URL)
	if c.IP != nil {
		m.IPAddr = c.IP.String()
	}
	m.UserAgent = c.Request.UserAgent()
	m.HTTPStatus = statusCode
	m.ContentLength = contentLength
	m.Created = c.StartTime.Format(time.RFC3339)
	m.TimeSpent = dur

	if len(errors) > 0 {
		m.Error = strings.Join(errors, ", ")
	}

	if statusCode >= 500 {
		glog.Warningf(
			`%s "%s %s" %d %d %s %q err=%q`,
			m.IPAddr, m.Method, m.EndPointURL, m.HTTPStatus,
			m.ContentLength, m.TimeSpent, m.UserAgent, m.Error,
		)
		return
	}

	if glog.V(1) {
		glog.Infof(
			`%s "%s %s" %d %d %s %q`,
			m.IPAddr, m.Method, m.EndPointURL, m.HTTPStatus,
			m.ContentLength, m.TimeSpent, m.UserAgent,
		)
	}
}
