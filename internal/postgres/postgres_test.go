package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// unconnectedDB builds a bun.DB that never dials; the ping hook is stubbed so
// no test touches the network.
func unconnectedDB() *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://localhost:5432/test?sslmode=disable")))
	return bun.NewDB(sqldb, pgdialect.New())
}

func TestConn_EstablishesOnceAndReuses(t *testing.T) {
	ctx := context.Background()

	opens := 0
	c := NewConn("postgres://localhost:5432/test", 4)
	c.open = func(dsn string, maxConns int) (*bun.DB, error) {
		opens++
		return unconnectedDB(), nil
	}
	c.ping = func(ctx context.Context, db *bun.DB) error { return nil }

	first, err := c.DB(ctx)
	require.NoError(t, err)

	second, err := c.DB(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, opens)
}

func TestConn_FailedAttemptIsNotCached(t *testing.T) {
	ctx := context.Background()

	opens := 0
	c := NewConn("postgres://localhost:5432/test", 4)
	c.open = func(dsn string, maxConns int) (*bun.DB, error) {
		opens++
		if opens == 1 {
			return nil, errors.New("resolver down")
		}
		return unconnectedDB(), nil
	}
	c.ping = func(ctx context.Context, db *bun.DB) error { return nil }

	_, err := c.DB(ctx)
	require.Error(t, err)

	// the failure was not cached: the next call retries and succeeds
	db, err := c.DB(ctx)
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 2, opens)
}

func TestConn_PingFailureInvalidates(t *testing.T) {
	ctx := context.Background()

	pings := 0
	c := NewConn("postgres://localhost:5432/test", 4)
	c.open = func(dsn string, maxConns int) (*bun.DB, error) {
		return unconnectedDB(), nil
	}
	c.ping = func(ctx context.Context, db *bun.DB) error {
		pings++
		if pings == 1 {
			return errors.New("connection refused")
		}
		return nil
	}

	_, err := c.DB(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")

	_, err = c.DB(ctx)
	require.NoError(t, err)
}

func TestConn_CloseAllowsReestablish(t *testing.T) {
	ctx := context.Background()

	opens := 0
	c := NewConn("postgres://localhost:5432/test", 4)
	c.open = func(dsn string, maxConns int) (*bun.DB, error) {
		opens++
		return unconnectedDB(), nil
	}
	c.ping = func(ctx context.Context, db *bun.DB) error { return nil }

	_, err := c.DB(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.DB(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, opens)
}
