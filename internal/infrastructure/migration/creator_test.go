package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/quotevoice/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoice sequences", "add_invoice_sequences"},
		{"Add-Invoice-Sequences", "add_invoice_sequences"},
		{"ADD__AUDIT__LOG", "add_audit_log"},
		{"quotes 2", "quotes_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add branding column", "Store branding as JSONB")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), mf.Version)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_branding_column")
	assert.Contains(t, string(up), "-- Description: Store branding as JSONB")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_branding_column.up.sql"), mf.UpPath)

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("lists up files sorted", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{"002_b.up.sql", "002_b.down.sql", "001_a.up.sql", "001_a.down.sql", "README.md"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
		}
		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_a", "002_b"}, names)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	files := map[string]bool{}
	for _, e := range entries {
		files[e.Name()] = true
	}
	require.NotEmpty(t, files)
	for name := range files {
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, files[base+".down.sql"], "missing down migration for %s", base)
		}
	}

	up, err := migrations.FS.ReadFile("20241001120000_initial_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE UNIQUE INDEX IF NOT EXISTS idx_invoice_standard_quote")
}
