package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/robfig/config"
)

// DefaultConfigFilePath is the path to the config file
const DefaultConfigFilePath string = "/etc/itemcache/api.conf"

// APISection is the [api] section of the config file
const APISection string = "api"

// Config file keys
const (
	Environment = "environment"

	ListenPort = "listen_port"

	DatabaseHost         = "database_host"
	DatabasePort         = "database_port"
	DatabaseName         = "database_database"
	DatabaseUsername     = "database_username"
	DatabasePassword     = "database_password"
	DatabasePasswordFile = "database_password_file"
	DatabaseSSLMode      = "database_sslmode"

	MemcachedHost = "memcached_host"
	MemcachedPort = "memcached_port"

	CacheTTL = "cache_ttl"
)

var configRequiredStrings = []string{
	DatabaseHost,
	DatabaseName,
	DatabaseUsername,
	Environment,
}

var configRequiredInt64s = []string{
	DatabasePort,
	ListenPort,
}

var configOptionalStrings = map[string]string{
	DatabasePassword:     "",
	DatabasePasswordFile: "",
	DatabaseSSLMode:      "disable",
	MemcachedHost:        "",
}

var configOptionalInt64s = map[string]int64{
	MemcachedPort: 11211,
	CacheTTL:      60,
}

// Config holds the values read from the config file
type Config struct {
	// Strings contains the string values for the given config keys
	Strings map[string]string

	// Int64s contains the int64 values for the given config keys
	Int64s map[string]int64
}

// Load reads the [api] section of the config file at path. Missing required
// keys are an error; optional keys take their defaults.
func Load(path string) (*Config, error) {
	c, err := config.ReadDefault(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	conf := &Config{
		Strings: map[string]string{},
		Int64s:  map[string]int64{},
	}

	for _, key := range configRequiredStrings {
		s, err := c.String(APISection, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		conf.Strings[key] = s
	}

	for _, key := range configRequiredInt64s {
		ii, err := c.Int(APISection, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		conf.Int64s[key] = int64(ii)
	}

	for key, def := range configOptionalStrings {
		conf.Strings[key] = def
		if !c.HasOption(APISection, key) {
			continue
		}
		s, err := c.String(APISection, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		conf.Strings[key] = s
	}

	for key, def := range configOptionalInt64s {
		conf.Int64s[key] = def
		if !c.HasOption(APISection, key) {
			continue
		}
		ii, err := c.Int(APISection, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		conf.Int64s[key] = int64(ii)
	}

	if conf.Int64s[CacheTTL] < 1 {
		return nil, fmt.Errorf("%s (%d) must be positive", CacheTTL, conf.Int64s[CacheTTL])
	}

	conf.Strings[DatabasePassword] = readSecret(
		conf.Strings[DatabasePasswordFile],
		conf.Strings[DatabasePassword],
	)

	return conf, nil
}

// readSecret returns the trimmed contents of a Docker secret file, falling
// back to the plain config value when the file is unset or unreadable
func readSecret(path string, fallback string) string {
	if path == "" {
		return fallback
	}

	b, err := os.ReadFile(path)
	if err != nil {
		glog.Warningf("Could not read secret %s, using config value: %v", path, err)
		return fallback
	}

	if glog.V(2) {
		glog.Infof("Read database password from %s", path)
	}

	return strings.TrimSpace(string(b))
}
