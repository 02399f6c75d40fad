package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang/glog"

	// Registers the "postgres" driver with database/sql
	_ "github.com/lib/pq"
)

// DBConfig stores the connection information used by OpenDB to establish a
// connection to the database
type DBConfig struct {
	Host     string
	Port     int64
	Database string
	Username string
	Password string
	SSLMode  string
}

// DSN returns the lib/pq connection string for the config
func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"user='%s' dbname='%s' host='%s' port=%d password='%s' sslmode='%s'",
		escapeDSNValue(c.Username),
		escapeDSNValue(c.Database),
		escapeDSNValue(c.Host),
		c.Port,
		escapeDSNValue(c.Password),
		escapeDSNValue(sslMode),
	)
}

// escapeDSNValue escapes a value for use inside single quotes in a
// key/value connection string
func escapeDSNValue(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// OpenDB establishes the connection pool and checks the database is reachable.
// The caller owns the returned pool and must Close it.
func OpenDB(ctx context.Context, c DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = db.PingContext(pingCtx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// PostgreSQL max is 100, we need to be below that limit as there may be
	// connections from monitoring apps, migrations in process or active
	// debugging by staff
	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if glog.V(2) {
		glog.Infof("Connected to %s on %s:%d", c.Database, c.Host, c.Port)
	}

	return db, nil
}
