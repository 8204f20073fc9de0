package database

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/cmlabs-hris/billing-backend-go/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll walks the source the way migrate.Up does and returns every up script by version
func readAll(t *testing.T) ([]uint, map[uint]string) {
	t.Helper()
	src, err := MigrationSource()
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	var versions []uint
	scripts := map[uint]string{}

	version, err := src.First()
	require.NoError(t, err)
	for {
		r, identifier, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up script", version)
		body, err := io.ReadAll(r)
		r.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, identifier)

		versions = append(versions, version)
		scripts[version] = string(body)

		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}
	return versions, scripts
}

func TestMigrationSource_Ordered(t *testing.T) {
	versions, scripts := readAll(t)
	require.Len(t, versions, 6)

	for i, v := range versions {
		assert.Equal(t, uint(i+1), v, "migration versions must be contiguous")
		assert.NotEmpty(t, strings.TrimSpace(scripts[v]))
	}
}

func TestMigrationSource_EveryUpHasDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrationSource_CoreTables(t *testing.T) {
	_, scripts := readAll(t)
	var all strings.Builder
	for _, s := range scripts {
		all.WriteString(s)
	}
	schema := all.String()

	for _, table := range []string{"users", "teams", "plans", "refresh_tokens", "subscriptions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, schema, "users_email_idx ON users(email)")
	assert.Contains(t, schema, "CHECK (price >= 0)")
}
