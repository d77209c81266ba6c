package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDataset(t *testing.T) {
	ctx := context.Background()
	f := NewFile(filepath.Join("testdata", "dataset.json"))

	ds, err := f.Dataset(ctx)
	require.NoError(t, err)

	require.Len(t, ds.Appointments, 3)
	assert.True(t, ds.Appointments[1].Price.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 90, ds.Appointments[1].Duration)
	assert.Equal(t, entity.DefaultDurationMinutes, ds.Appointments[0].Duration)
	assert.Equal(t, []string{"gloss"}, ds.Appointments[1].Addons)
	require.Len(t, ds.Products, 1)
	assert.Equal(t, "loc1", ds.Products[0].Sales[0].BusinessID)
	assert.Equal(t, entity.UnknownClient, ds.Clients[1].Name)

	v, err := f.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, ds.Version)
	assert.Len(t, v, 16)
}

func TestFileVersionChangesWithContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"appointments": []}`), 0o600))
	f := NewFile(path)

	v1, err := f.Version(ctx)
	require.NoError(t, err)
	v1again, err := f.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1, v1again)

	require.NoError(t, os.WriteFile(path, []byte(`{"appointments": [{"id": "a"}]}`), 0o600))
	v2, err := f.Version(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}

func TestFileErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.json")).Dataset(ctx)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = NewFile(path).Dataset(ctx)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewFile(filepath.Join("testdata", "dataset.json")).Dataset(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
