//go:build integration || chaos

package reflector_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// applyMigrations runs every up migration in order against db, standing in
// for the golang-migrate pass mpostgres runs in production.
func applyMigrations(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	ups, err := filepath.Glob(filepath.Join("..", "..", "..", "migrations", "master", "*.up.sql"))
	require.NoError(t, err, "failed to list schema migrations")
	require.NotEmpty(t, ups, "no schema migrations found")

	sort.Strings(ups)

	for _, up := range ups {
		schema, err := os.ReadFile(up)
		require.NoError(t, err, "failed to read schema migration %s", up)

		_, err = db.ExecContext(ctx, string(schema))
		require.NoError(t, err, "failed to apply schema migration %s", up)
	}
}
