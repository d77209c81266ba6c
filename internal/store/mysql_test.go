package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB needs a disposable database, e.g.
// MYSQL_TEST_DSN="user:pass@(localhost:3306)/salon_test?charset=utf8&parseTime=true".
func newTestDB(t *testing.T) *MySQL {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	db, err := New(context.Background(), Config{DSN: dsn, Automigrate: true})
	require.NoError(t, err)

	for _, table := range []string{"product_sale", "appointment", "staff_member", "client", "product", "promotion", "service"} {
		_, err = db.db.ExecContext(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMySQLImportAndDataset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	raw, err := NewFile(filepath.Join("testdata", "dataset.json")).ReadDataset(ctx)
	require.NoError(t, err)

	v0, err := db.Version(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Import(ctx, raw))

	ds, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v0, ds.Version)
	require.Len(t, ds.Appointments, 3)
	assert.Equal(t, []string{"gloss"}, ds.Appointments[1].Addons)
	assert.Empty(t, ds.Appointments[0].Addons)
	require.Len(t, ds.Products, 1)
	assert.Len(t, ds.Products[0].Sales, 1)
	assert.Len(t, ds.Staff, 2)

	// Importing again must not duplicate sales.
	require.NoError(t, db.Import(ctx, raw))
	ds, err = db.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Products[0].Sales, 1)
}

func TestSplitAddons(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAddons(joinAddons([]string{"a", "b"})))
	assert.Empty(t, splitAddons(joinAddons(nil)))
}
