package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/accept/school-service/internal/config"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_seed.sql", "0001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_seed.sql"}, files)

	_, err = MigrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, files, "0001_init.sql")
}

func TestDisabledComponents(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, logger)
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
	assert.Nil(t, pg.PoolHandle())
	assert.NoError(t, RunMigrations(ctx, pg.PoolHandle(), "migrations", logger))
	pg.Close()

	rdb := NewRedis(ctx, config.RedisConfig{Enabled: false}, logger)
	assert.False(t, rdb.Enabled())
	assert.ErrorIs(t, rdb.Ping(ctx), ErrNotConfigured)
	rdb.Close()

	var nilRedis *Redis
	assert.False(t, nilRedis.Enabled())
}
