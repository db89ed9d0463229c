package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		data, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "-- +goose Up", e.Name())
		assert.Contains(t, content, "-- +goose Down", e.Name())
	}
}

func TestSchemaCarriesOwnershipAndUniqueness(t *testing.T) {
	read := func(name string) string {
		data, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
		require.NoError(t, err)
		return string(data)
	}

	users := read("20250101000001_create_users.sql")
	assert.Contains(t, users, "UNIQUE KEY uq_users_email (email)")

	groceries := read("20250101000002_create_groceries.sql")
	assert.True(t, strings.Contains(groceries, "FOREIGN KEY (user_id) REFERENCES users (id)"))
	assert.Contains(t, groceries, "expiry_date DATE")

	recipes := read("20250101000003_create_recipes.sql")
	assert.Contains(t, recipes, "PRIMARY KEY (recipe_id, position)")
	assert.Contains(t, recipes, "ON DELETE CASCADE")
}
