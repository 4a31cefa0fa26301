package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	// Версии строго возрастают, у каждой миграции есть up-скрипт.
	var prev int64
	for _, m := range migrations {
		require.Greater(t, m.Version, prev)
		require.NotEmpty(t, m.Name)
		require.NotEmpty(t, m.UpSQL)
		prev = m.Version
	}

	first := migrations[0]
	require.Equal(t, int64(1), first.Version)
	require.Equal(t, "init", first.Name)
	require.Contains(t, first.UpSQL, "CREATE TABLE")
	require.Contains(t, first.DownSQL, "DROP TABLE")
}

func TestMigrationFilePattern(t *testing.T) {
	valid := []string{
		"0001_init.up.sql",
		"0001_init.down.sql",
		"0042_add_outbox.up.sql",
	}
	for _, name := range valid {
		require.True(t, migrationFilePattern.MatchString(name), name)
	}

	invalid := []string{
		"init.up.sql",
		"0001_init.sql",
		"0001_init.up.txt",
		"0001-init.up.sql",
	}
	for _, name := range invalid {
		require.False(t, migrationFilePattern.MatchString(name), name)
	}
}

func TestMigrateRequiresConnection(t *testing.T) {
	var s *Store
	require.Error(t, s.MigrateUp(context.Background(), 0))

	empty := &Store{}
	err := empty.MigrateDown(context.Background(), 1)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "not initialized"))
}
