// Package postgres holds the shared database handle for the registry.
//
// The handle is established lazily on first use and reused for the process
// lifetime. A failed establishment attempt is not cached: the next caller
// retries from scratch.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Conn is a lazily-initialized, process-wide reusable bun.DB handle.
type Conn struct {
	dsn      string
	maxConns int

	mu sync.Mutex
	db *bun.DB

	// overridable in tests
	open func(dsn string, maxConns int) (*bun.DB, error)
	ping func(ctx context.Context, db *bun.DB) error
}

// NewConn creates a handle for the given DSN. No connection is made until DB
// is called.
func NewConn(dsn string, maxConns int) *Conn {
	if maxConns <= 0 {
		maxConns = 10
	}
	return &Conn{
		dsn:      dsn,
		maxConns: maxConns,
		open:     openBun,
		ping: func(ctx context.Context, db *bun.DB) error {
			return db.PingContext(ctx)
		},
	}
}

func openBun(dsn string, maxConns int) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(maxConns)
	sqldb.SetMaxIdleConns(maxConns / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// DB returns the shared handle, establishing it on first call. When the
// establishment ping fails the handle is discarded so a later call retries.
func (c *Conn) DB(ctx context.Context) (*bun.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	db, err := c.open(c.dsn, c.maxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := c.ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.db = db
	return c.db, nil
}

// Ping verifies connectivity, establishing the handle if needed.
func (c *Conn) Ping(ctx context.Context) error {
	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases the handle. A later DB call re-establishes it.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
