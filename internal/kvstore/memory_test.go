package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Put(ctx, "patterns", []byte(`{"a":1}`), 0))

	got, err := store.Get(ctx, "patterns")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestMemory_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemory_EmptyKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = store.Put(ctx, "", nil, 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "cached", []byte("v"), time.Hour))

	// Still live just before the deadline
	store.now = func() time.Time { return now.Add(59 * time.Minute) }
	_, err := store.Get(ctx, "cached")
	require.NoError(t, err)

	// Expired after the deadline
	store.now = func() time.Time { return now.Add(61 * time.Minute) }
	_, err = store.Get(ctx, "cached")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Expired entries are omitted from listings
	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "forever", []byte("v"), 0))

	store.now = func() time.Time { return now.Add(1000 * time.Hour) }
	_, err := store.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemory_ListPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Put(ctx, "sim:ahu", []byte("1"), 0))
	require.NoError(t, store.Put(ctx, "sim:fcu", []byte("2"), 0))
	require.NoError(t, store.Put(ctx, "patterns", []byte("3"), 0))

	keys, err := store.List(ctx, "sim:")
	require.NoError(t, err)
	assert.Equal(t, []string{"sim:ahu", "sim:fcu"}, keys)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestMemory_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Close())

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)

	err = store.Put(ctx, "k", nil, 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Put(ctx, "k", []byte("abc"), 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
