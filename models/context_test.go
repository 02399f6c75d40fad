package models

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e "github.com/microcosm-collective/itemcache/errors"
)

type formTarget struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Enabled bool   `json:"enabled"`
	Skipped string `json:"-"`
	Plain   string
}

func TestUnmarshalForm(t *testing.T) {
	form := url.Values{
		"NAME":    {"Widget"},
		"count":   {"3"},
		"enabled": {"yes"},
		"Skipped": {"no"},
		"plain":   {"p"},
	}

	m := formTarget{}
	require.NoError(t, UnmarshalForm(form, &m))
	assert.Equal(t, "Widget", m.Name)
	assert.Equal(t, int64(3), m.Count)
	assert.True(t, m.Enabled)
	assert.Equal(t, "", m.Skipped)
	assert.Equal(t, "p", m.Plain)

	err := UnmarshalForm(url.Values{"count": {"three"}}, &m)
	assert.Error(t, err)

	err = UnmarshalForm(form, m)
	assert.Error(t, err, "non-pointer must be rejected")
}

func TestFill(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	cases := []struct {
		contentType string
		body        string
		want        string
		code        e.ErrCode
	}{
		{"application/json", `{"name":"Widget"}`, "Widget", 0},
		{"application/json; charset=utf-8", `{"name":"Gadget"}`, "Gadget", 0},
		{"", `name=Form`, "Form", 0},
		{"application/x-www-form-urlencoded", `name=Form`, "Form", 0},
		{"application/json", `{"name":`, "", e.InvalidContent},
		{"text/xml", `<name/>`, "", e.InvalidContent},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("POST", "/api/items", strings.NewReader(tc.body))
		if tc.contentType != "" {
			r.Header.Set("Content-Type", tc.contentType)
		}
		c := MakeContext(r, httptest.NewRecorder())

		m := body{}
		err := c.Fill(&m)
		if tc.code != 0 {
			assert.Equal(t, tc.code, e.Code(err), tc.contentType)
			continue
		}
		require.NoError(t, err, tc.contentType)
		assert.Equal(t, tc.want, m.Name)
	}
}

func TestGetItemID(t *testing.T) {
	r := httptest.NewRequest("DELETE", "/api/items/42", nil)
	r = mux.SetURLVars(r, map[string]string{"item_id": "42"})
	c := MakeContext(r, httptest.NewRecorder())

	id, err := c.GetItemID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	r = mux.SetURLVars(r, map[string]string{"item_id": "0"})
	c = MakeContext(r, httptest.NewRecorder())
	_, err = c.GetItemID()
	assert.Equal(t, e.UnexpectedType, e.Code(err))

	r = mux.SetURLVars(r, map[string]string{})
	c = MakeContext(r, httptest.NewRecorder())
	_, err = c.GetItemID()
	assert.Equal(t, e.UnexpectedType, e.Code(err))
}

func TestGetHTTPMethodOverride(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/items/1?method=delete", nil)
	assert.Equal(t, "DELETE", MakeContext(r, httptest.NewRecorder()).GetHTTPMethod())

	r = httptest.NewRequest("POST", "/api/items/1", nil)
	r.Header.Set("X-HTTP-Method-Override", "TRACE")
	assert.Equal(t, "POST", MakeContext(r, httptest.NewRecorder()).GetHTTPMethod())

	r = httptest.NewRequest("GET", "/api/items?method=delete", nil)
	assert.Equal(t, "GET", MakeContext(r, httptest.NewRecorder()).GetHTTPMethod())
}

func TestRespondEnvelope(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/items?context=abc", nil)
	w := httptest.NewRecorder()
	c := MakeContext(r, w)

	require.NoError(t, c.RespondWithData([]string{"a"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := StandardResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Context)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []interface{}{"a"}, resp.Data)
}

func TestRespondSanitisesEchoedContext(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/items?context="+url.QueryEscape("<script>x</script>ok"), nil)
	w := httptest.NewRecorder()
	require.NoError(t, MakeContext(r, w).RespondWithData(nil))

	resp := StandardResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Context)
}

func TestRespondDisableBoiler(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/items?disableBoiler", nil)
	w := httptest.NewRecorder()
	require.NoError(t, MakeContext(r, w).RespondWithData([]string{"a"}))
	assert.Equal(t, `["a"]`, w.Body.String())

	r = httptest.NewRequest("GET", "/api/items", nil)
	r.Header.Set("X-Disable-Boiler", "1")
	w = httptest.NewRecorder()
	require.NoError(t, MakeContext(r, w).RespondWithData([]string{"b"}))
	assert.Equal(t, `["b"]`, w.Body.String())
}

func TestRespondWithErrorDetailHidesServerErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/items", nil)
	w := httptest.NewRecorder()
	err := e.Wrap("models.GetItems", e.StoreUnavailable, errBoom)
	require.NoError(t, MakeContext(r, w).RespondWithErrorDetail(err))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	resp := StandardResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Internal Server Error"}, resp.Errors)
}

func TestGetRequestIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", GetRequestIP(r).String())

	// A client supplied header must not change the recorded address
	r.Header.Set("X-Real-IP", "192.168.1.9")
	r.Header.Set("X-Forwarded-For", "192.168.1.9")
	assert.Equal(t, "10.0.0.1", GetRequestIP(r).String())
}
