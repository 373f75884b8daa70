package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T, path string) *Store {
	t.Helper()
	backend, err := NewFileBackend(path)
	require.NoError(t, err)
	store, err := NewStore(backend)
	require.NoError(t, err)
	return store
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, "gold", cfg.Currency)
	assert.Equal(t, "qtyLowHigh", cfg.SortOrder)
	assert.False(t, cfg.ShowLowStockOnly)
	assert.True(t, cfg.ShowLowStockAlerts)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	store := newFileStore(t, path)
	require.NoError(t, store.SetLowStockThreshold(12))
	require.NoError(t, store.SetCurrency("silver"))
	require.NoError(t, store.SetSortOrder("nameAZ"))
	require.NoError(t, store.SetShowLowStockOnly(true))
	require.NoError(t, store.SetShowLowStockAlerts(false))

	reopened := newFileStore(t, path)
	cfg := reopened.Current()
	assert.Equal(t, 12, cfg.LowStockThreshold)
	assert.Equal(t, "silver", cfg.Currency)
	assert.Equal(t, "nameAZ", cfg.SortOrder)
	assert.True(t, cfg.ShowLowStockOnly)
	assert.False(t, cfg.ShowLowStockAlerts)
}

func TestStore_ThresholdMustBePositive(t *testing.T) {
	store := newFileStore(t, filepath.Join(t.TempDir(), "settings.json"))

	require.Error(t, store.SetLowStockThreshold(0))
	assert.Equal(t, DefaultLowStockThreshold, store.Current().LowStockThreshold)
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	store := newFileStore(t, path)
	require.NoError(t, store.SetLowStockThreshold(9))
	require.NoError(t, store.SetCurrency("credits"))

	require.NoError(t, store.Reset())
	assert.Equal(t, Defaults(), store.Current())

	// the persisted keys are gone, not just overwritten
	reopened := newFileStore(t, path)
	assert.Equal(t, Defaults(), reopened.Current())
}

func TestNewStore_RejectsCorruptThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)
	require.NoError(t, backend.Save("lowStockThreshold", "not-a-number"))

	_, err = NewStore(backend)
	require.Error(t, err)
}

func TestFileBackend_DeleteAbsentKeyIsNoop(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	require.NoError(t, backend.Delete("currency"))

	_, ok, err := backend.Load("currency")
	require.NoError(t, err)
	assert.False(t, ok)
}
