package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuntImportAndDataset(t *testing.T) {
	ctx := context.Background()
	raw, err := NewFile(filepath.Join("testdata", "dataset.json")).ReadDataset(ctx)
	require.NoError(t, err)

	b, err := OpenBunt(BuntConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer b.Close()

	v0, err := b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0", v0)

	require.NoError(t, b.Import(ctx, raw))

	ds, err := b.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Version)
	require.Len(t, ds.Appointments, 3)
	assert.Equal(t, "a1", ds.Appointments[0].ID)
	assert.Len(t, ds.Staff, 2)
	assert.Len(t, ds.Clients, 2)
	require.Len(t, ds.Products, 1)
	assert.Len(t, ds.Products[0].Sales, 1)
	assert.Len(t, ds.Promotions, 1)
	assert.Len(t, ds.Services, 2)

	// Re-importing replaces documents instead of duplicating them.
	require.NoError(t, b.Import(ctx, raw))
	ds, err = b.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", ds.Version)
	assert.Len(t, ds.Appointments, 3)

	require.NoError(t, b.DeleteAppointment(ctx, "a2"))
	ds, err = b.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Appointments, 2)
	v, err := b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}
