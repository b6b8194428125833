package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotRecord struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

func TestStore_SaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	want := []snapshotRecord{
		{Name: "flicker", Cards: []string{"Ghostly Flicker", "Mnemonic Wall"}},
		{Name: "guard", Cards: []string{"Midnight Guard", "Presence of Gond"}},
	}

	require.NoError(t, store.Save(KnownCombosFile, want))
	assert.True(t, store.Exists(KnownCombosFile))

	got, err := Load[[]snapshotRecord](store, KnownCombosFile)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveIndentsAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save(DiscoveriesFile, []snapshotRecord{{Name: "x"}}))
	require.NoError(t, store.Save(DiscoveriesFile, []snapshotRecord{{Name: "y"}}))

	data, err := os.ReadFile(store.Path(DiscoveriesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"name\": \"y\"")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DiscoveriesFile, entries[0].Name())
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := Load[[]snapshotRecord](store, CardsFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSnapshot))

	var missing *MissingSnapshotError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, store.Path(CardsFile), missing.Path)
	assert.Contains(t, err.Error(), "pauper-combos collect")
}

func TestStore_LoadMalformed(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(CardsFile), []byte("[{"), 0o644))

	_, err := Load[[]snapshotRecord](store, CardsFile)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingSnapshot))
}

func TestStore_LoadMissingKeysAreZero(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(CandidatesFile), []byte(`[{"name":"only name"}]`), 0o644))

	got, err := Load[[]snapshotRecord](store, CandidatesFile)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Cards)
}

func TestStore_MissingAndRequire(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(CardsFile, []int{}))

	assert.Equal(t, []string{KnownCombosFile, FormattedFile}, store.Missing(CardsFile, KnownCombosFile, FormattedFile))
	assert.NoError(t, store.Require(CardsFile))

	err := store.Require(CardsFile, FormattedFile)
	assert.ErrorIs(t, err, ErrMissingSnapshot)
	assert.True(t, strings.Contains(err.Error(), "pauper-combos train"))
}
