package sealedstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ObjectUUID, []byte("payload")))

	got, err := store.Get(ObjectUUID)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ObjectUUID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHas(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Has(ObjectUUID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ObjectUUID, []byte("x")))

	ok, err = store.Has(ObjectUUID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ObjectUUID, []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ObjectUUID)
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), got)
}
