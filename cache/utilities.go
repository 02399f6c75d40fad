package cache

import (
	"encoding/json"

	"github.com/golang/glog"
)

// SetJSON is a utility function to put a JSON encoding of data into cache
func SetJSON(s Store, key string, data interface{}, timeToLive int32) error {
	b, err := json.Marshal(data)
	if err != nil {
		glog.Errorf("json.Marshal(data) %+v", err)
		return err
	}

	return s.Set(key, b, timeToLive)
}

// GetJSON is a utility function to decode a JSON value from cache into dst.
// A value that does not decode is reported as a miss so that the caller
// repopulates it.
func GetJSON(s Store, key string, dst interface{}) (bool, error) {
	b, found, err := s.Get(key)
	if err != nil || !found {
		return false, err
	}

	err = json.Unmarshal(b, dst)
	if err != nil {
		glog.Warningf("json.Unmarshal(%s) %+v", key, err)
		return false, nil
	}

	return true, nil
}
