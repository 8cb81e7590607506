package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/appzetogit/indiankart-sub000/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add return requests", "add_return_requests"},
		{"Add-Serial-Index", "add_serial_index"},
		{"ADD_SERIAL_INDEX", "add_serial_index"},
		{"add__serial__index", "add_serial_index"},
		{"Orders 2024", "orders_2024"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add serial index", "Index serial numbers")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_serial_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_serial_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add serial index")
	assert.Contains(t, string(up), "-- Description: Index serial numbers")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Seller Logo", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_add_index.up.sql":            {Data: []byte("--")},
		"000002_create_returns.up.sql":       {Data: []byte("--")},
		"000002_create_returns.down.sql":     {Data: []byte("--")},
		"000001_create_orders.up.sql":        {Data: []byte("--")},
		"000001_create_orders.down.sql":      {Data: []byte("--")},
		"README.md":                          {Data: []byte("docs")},
		"noversion.up.sql":                   {Data: []byte("--")},
		"abc_bad_version.up.sql":             {Data: []byte("--")},
		"subdir.up.sql/000003_nested.up.sql": {Data: []byte("--")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []MigrationInfo{
		{Version: 1, Name: "000001_create_orders", HasDown: true},
		{Version: 2, Name: "000002_create_returns", HasDown: true},
		{Version: 10, Name: "000010_add_index", HasDown: false},
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, m := range got {
		assert.Equal(t, uint(i+1), m.Version)
		assert.True(t, m.HasDown, m.Name)
	}
	assert.Equal(t, "000001_create_orders", got[0].Name)
}
