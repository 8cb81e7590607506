package integration

import (
	"testing"

	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/migration"
	"github.com/appzetogit/indiankart-sub000/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrations_RoundTrip rolls the newest migration back and reapplies it
func TestMigrations_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	migrator, err := migration.NewFromFS(testDB.SqlDB, migrations.FS, nil)
	require.NoError(t, err)

	available, err := migration.ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, available)
	latest := available[len(available)-1].Version

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, latest, version)
	assert.False(t, dirty)
	for _, table := range []string{"orders", "order_items", "return_requests", "seller_settings"} {
		assert.True(t, testDB.DB.Migrator().HasTable(table), "table %s", table)
	}

	require.NoError(t, migrator.Steps(-1))
	assert.False(t, testDB.DB.Migrator().HasTable("seller_settings"))

	require.NoError(t, migrator.Up())
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, latest, version)
	assert.True(t, testDB.DB.Migrator().HasTable("seller_settings"))
}
