package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	e "github.com/microcosm-collective/itemcache/errors"
)

// Context carries a single request through a handler
type Context struct {
	Request        *http.Request
	ResponseWriter http.ResponseWriter
	RouteVars      map[string]string
	StartTime      time.Time
	IP             net.IP
}

// StandardResponse is the envelope every response is wrapped in
type StandardResponse struct {
	Context string      `json:"context"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"error"`
}

// MakeContext builds the context for a request
func MakeContext(
	request *http.Request,
	responseWriter http.ResponseWriter,
) *Context {

	c := new(Context)
	c.Request = request
	c.ResponseWriter = responseWriter
	c.RouteVars = mux.Vars(request)
	c.StartTime = time.Now()
	c.IP = GetRequestIP(request)

	return c
}

// GetRequestIP returns the address of the connected client. Forwarding
// headers are ignored.
func GetRequestIP(request *http.Request) net.IP {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return net.ParseIP(request.RemoteAddr)
	}
	return net.ParseIP(host)
}

// GetItemID returns the item_id route variable
func (c *Context) GetItemID() (int64, error) {
	id, exists := c.RouteVars["item_id"]
	if !exists {
		return 0, e.New("context.GetItemID", e.UnexpectedType,
			fmt.Sprintf("Item ID not determinable from URL: %s", c.RouteVars))
	}

	itemID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || itemID < 1 {
		return 0, e.New("context.GetItemID", e.UnexpectedType,
			fmt.Sprintf("The supplied item_id ('%s') is not a valid ID.", id))
	}

	return itemID, nil
}

// GetHTTPMethod returns the request method, honouring method overrides on
// POST for clients that cannot send DELETE
func (c *Context) GetHTTPMethod() string {
	m := c.Request.Method

	if m == "POST" {
		if c.Request.Header.Get("X-HTTP-Method-Override") != "" {
			m = strings.ToUpper(c.Request.Header.Get("X-HTTP-Method-Override"))
		}
		if c.Request.URL.Query().Get("method") != "" {
			m = strings.ToUpper(c.Request.URL.Query().Get("method"))
		}

		switch m {
		case "DELETE":
		case "GET":
		case "HEAD":
		case "OPTIONS":
		case "POST":
		default:
			// If it wasn't one of the above then let's just use what we know
			// is safe
			return c.Request.Method
		}
	}

	return m
}

// Respond writes data wrapped in a StandardResponse
func (c *Context) Respond(
	data interface{},
	statusCode int,
	errors []string,
) error {

	// make the standard response object
	obj := StandardResponse{
		Context: SanitiseText(c.Request.URL.Query().Get("context")),
		Status:  statusCode,
		Data:    data,
		Errors:  errors,
	}

	// Prevent content type detection, a.k.a. sniffing
	c.ResponseWriter.Header().Set("Content-Type", "application/json")
	c.ResponseWriter.Header().Set("X-Content-Type-Options", "nosniff")
	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")

	// Writes must be visible on the very next read
	c.ResponseWriter.Header().Set(`Cache-Control`, `no-cache, max-age=0`)

	output, err := FormatAsJSON(c, obj)
	if err != nil {
		http.Error(c.ResponseWriter, err.Error(), http.StatusInternalServerError)
		return err
	}

	// Prevent chunking
	contentLength := len(output)
	c.ResponseWriter.Header().Set("Content-Length", strconv.Itoa(contentLength))

	SendUsage(c, statusCode, contentLength, time.Since(c.StartTime), errors)

	return c.WriteResponse(output, statusCode)
}

// WriteResponse ultimately does the job of writing the response
func (c *Context) WriteResponse(output []byte, statusCode int) error {
	c.ResponseWriter.WriteHeader(statusCode)

	// HEAD requests return no body
	if c.GetHTTPMethod() == "HEAD" {
		return nil
	}

	_, err := c.ResponseWriter.Write(output)

	// We only log at error severity when an error is not the result of the
	// client disconnecting. "broken pipe" is a syscall.EPIPE error that
	// indicates client disconnection.
	if err != nil {
		if !errors.Is(err, syscall.EPIPE) {
			glog.Errorf(
				"Error writing %s response to %s : %+v",
				c.GetHTTPMethod(),
				c.Request.URL.String(),
				err,
			)
			return err
		}

		glog.Warningf(
			"Error writing %s response to %s : %+v",
			c.GetHTTPMethod(),
			c.Request.URL.String(),
			err,
		)
		return err
	}

	return nil
}

// RespondWithOptions answers an OPTIONS request
func (c *Context) RespondWithOptions(options []string) error {
	c.ResponseWriter.Header().Set("Allow", strings.Join(options, ","))
	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")
	c.ResponseWriter.Header().Set("Access-Control-Allow-Methods", strings.Join(options, ","))
	c.ResponseWriter.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	c.ResponseWriter.Header().Set("Content-Length", "0")
	c.ResponseWriter.WriteHeader(http.StatusOK)
	return nil
}

// RespondWithStatus responds with custom status code and an empty
// StandardResponse struct
func (c *Context) RespondWithStatus(statusCode int) error {
	return c.Respond(nil, statusCode, nil)
}

// RespondWithError responds with the specified HTTP status code and adds the
// status description to the errors list
func (c *Context) RespondWithError(statusCode int) error {
	return c.RespondWithErrorMessage(http.StatusText(statusCode), statusCode)
}

// RespondWithErrorMessage responds with custom code and an error message
func (c *Context) RespondWithErrorMessage(
	message string,
	statusCode int,
) error {

	return c.Respond(nil, statusCode, []string{message})
}

// RespondWithErrorDetail responds with detailed error code and message in the
// "data" object. The HTTP status is derived from the error.
func (c *Context) RespondWithErrorDetail(err error) error {
	status := e.Status(err)
	message := publicMessage(err)

	var ie *e.ItemError
	if errors.As(err, &ie) {
		detail := &e.ItemError{ErrorCode: ie.ErrorCode, ErrorMessage: message}
		return c.Respond(detail, status, []string{message})
	}

	return c.Respond(nil, status, []string{message})
}

// publicMessage hides the detail of server-side failures from clients
func publicMessage(err error) string {
	status := e.Status(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

// RespondWithData responds with the specified data
func (c *Context) RespondWithData(data interface{}) error {
	return c.Respond(data, http.StatusOK, nil)
}

// RespondWithCreated responds with 201 and the created resource
func (c *Context) RespondWithCreated(data interface{}, location string) error {
	if location != "" {
		c.ResponseWriter.Header().Set("Location", location)
	}
	return c.Respond(data, http.StatusCreated, nil)
}

// RespondWithNotFound responds with 404 Not Found
func (c *Context) RespondWithNotFound() error {
	return c.RespondWithError(http.StatusNotFound)
}

// FormatAsJSON marshals the response. If disableBoiler is requested only the
// value of the data field is rendered.
func FormatAsJSON(c *Context, input StandardResponse) ([]byte, error) {
	var v interface{} = input

	if c.Request.URL.Query().Has("disableBoiler") ||
		c.Request.Header.Get("X-Disable-Boiler") != "" {
		v = input.Data
	}

	output, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return output, nil
}

// RequestDecoder types can unmarshal the request body into an appropriate
// type/struct
type RequestDecoder interface {
	Unmarshal(cx *Context, v interface{}) error
}

// JSONRequestDecoder is a JSON decoder for request body
type JSONRequestDecoder struct{}

// Unmarshal decodes a JSON body
func (d *JSONRequestDecoder) Unmarshal(cx *Context, v interface{}) error {
	defer cx.Request.Body.Close()
	return json.NewDecoder(cx.Request.Body).Decode(v)
}

// FormRequestDecoder is a form-enc decoder for request body
type FormRequestDecoder struct{}

// Unmarshal decodes a form-encoded body
func (d *FormRequestDecoder) Unmarshal(cx *Context, v interface{}) error {
	if cx.Request.Form == nil {
		err := cx.Request.ParseForm()
		if err != nil {
			return err
		}
	}
	return UnmarshalForm(cx.Request.Form, v)
}

// map of Content-Type -> RequestDecoders
var decoders = map[string]RequestDecoder{
	"application/json":                  new(JSONRequestDecoder),
	"application/x-www-form-urlencoded": new(FormRequestDecoder),
}

// Fill a variable with the contents of the request body. The body will be
// decoded based on the content-type and an appropriate RequestDecoder
// automatically selected.
func (c *Context) Fill(v interface{}) error {
	ct := c.Request.Header.Get("Content-Type")
	// default to urlencoded
	if strings.TrimSpace(ct) == "" {
		ct = "application/x-www-form-urlencoded"
		c.Request.Header.Set("Content-Type", ct)
	}

	// ignore charset (after ';')
	ct = strings.TrimSpace(strings.Split(ct, ";")[0])

	decoder, ok := decoders[ct]
	if !ok {
		return e.New("context.Fill", e.InvalidContent,
			fmt.Sprintf("Cannot decode request for %s data", SanitiseText(ct)))
	}

	err := decoder.Unmarshal(c, v)
	if err != nil {
		return e.New("context.Fill", e.InvalidContent,
			fmt.Sprintf("The post data is invalid: %v", err))
	}

	return nil
}

// UnmarshalForm fills the struct pointed to by v from the values in form.
// Form keys are matched to the json tag of each field, case-insensitively,
// falling back to the field name when there is no tag.
func UnmarshalForm(form url.Values, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("v must point to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		err := unmarshalField(form, rt.Field(i), rv.Field(i))
		if err != nil {
			return err
		}
	}

	return nil
}

func unmarshalField(
	form url.Values,
	t reflect.StructField,
	v reflect.Value,
) error {

	if !v.CanSet() {
		return nil
	}

	name := strings.Split(t.Tag.Get("json"), ",")[0]
	if name == "-" {
		return nil
	}
	if name == "" {
		name = t.Name
	}

	var fvs []string
	for key, values := range form {
		if strings.EqualFold(key, name) {
			fvs = values
			break
		}
	}
	if len(fvs) == 0 {
		return nil
	}
	fv := fvs[0]

	// string -> type conversion
	switch v.Kind() {
	case reflect.Int64, reflect.Int:
		i, err := strconv.ParseInt(fv, 10, 64)
		if err != nil {
			return fmt.Errorf("%s (%s) is not a number", name, fv)
		}
		v.SetInt(i)
	case reflect.String:
		v.SetString(fv)
	case reflect.Bool:
		// the following strings convert to true
		// 1,true,on,yes
		v.SetBool(fv == "1" || fv == "true" || fv == "on" || fv == "yes")
	default:
		return fmt.Errorf("cannot unmarshal form value into %s", v.Kind())
	}

	return nil
}
