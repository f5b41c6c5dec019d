package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// registered drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Drivers accepted by Open
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ErrNoDSN is returned by Open when no data source name is configured
var ErrNoDSN = errors.New("database DSN is required")

// Config holds connection settings
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// DefaultConfig returns default connection settings
func DefaultConfig() Config {
	return Config{
		Driver:          DriverMySQL,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Connection is the MySQLConnection collaborator: a pooled handle on a SQL
// database
type Connection struct {
	db     *sql.DB
	driver string
	log    *logrus.Logger
}

// Open connects using cfg and verifies the connection with a ping
func Open(ctx context.Context, cfg Config, log *logrus.Logger) (*Connection, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	switch cfg.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	conn := NewConnection(db, cfg.Driver, log)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	conn.log.WithField("driver", cfg.Driver).Info("Database connected")
	return conn, nil
}

// NewConnection wraps an already opened database
func NewConnection(db *sql.DB, driver string, log *logrus.Logger) *Connection {
	if log == nil {
		log = logrus.New()
	}

	return &Connection{
		db:     db,
		driver: driver,
		log:    log,
	}
}

// DB returns the underlying pool
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Driver returns the driver name the connection was opened with
func (c *Connection) Driver() string {
	return c.driver
}

// Ping verifies the database is reachable
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Query starts a query on this connection
func (c *Connection) Query(statement string, args ...any) *Query {
	return NewQuery(c, statement, args...)
}

// Close closes the pool
func (c *Connection) Close() error {
	return c.db.Close()
}
