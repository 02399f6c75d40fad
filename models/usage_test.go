package models

import (
	"testing"
)

func TestEndPointURL(t *testing.T) {

	message := "EndPointURL(%s) = %s should be %s"

	cases := map[string]string{
		"/api/items":                  "/api/items",
		"/api/items/42":               "/api/items/{id}",
		"/api/items/42?disableBoiler": "/api/items/{id}",
		"/api/stats?context=x":        "/api/stats",
	}

	for in, correctValue := range cases {
		result := EndPointURL(in)
		if result != correctValue {
			t.Errorf(message, in, result, correctValue)
		}
	}
}
