package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "store.db"), DBMaxConns: 8}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, 1, store.MaxConns)
	users, err := store.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unknown database driver")
}
