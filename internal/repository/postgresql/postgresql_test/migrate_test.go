package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	// schema is already current after setup
	require.NoError(t, setup.DB.Migrate(ctx))

	var version int64
	var dirty bool
	err := setup.DB.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	require.NoError(t, err)
	assert.Equal(t, int64(6), version)
	assert.False(t, dirty)

	var exists bool
	err = setup.DB.QueryRow(ctx, "SELECT to_regclass('public.plans') IS NOT NULL").Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}
