package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structwire/bridge/internal/testschema"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(RedisOptions{URL: "redis://" + mr.Addr(), Namespace: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStorePutGet(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	blob := testschema.DescriptorSetBytes()
	require.NoError(t, s.Put(ctx, "example", blob))

	got, err := s.Get(ctx, "example")
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestRedisStoreGetMissing(t *testing.T) {
	s := newTestRedisStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorePutEmptyName(t *testing.T) {
	s := newTestRedisStore(t)
	assert.Error(t, s.Put(context.Background(), "", []byte("x")))
}

func TestRedisStoreList(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b", []byte("2")))
	require.NoError(t, s.Put(ctx, "a", []byte("1")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestRedisStoreOverwrite(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", []byte("old")))
	require.NoError(t, s.Put(ctx, "a", []byte("new")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestRedisStoreDelete(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", []byte("1")))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Deleting again is fine.
	assert.NoError(t, s.Delete(ctx, "a"))
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore(RedisOptions{URL: "not-a-url"})
	assert.Error(t, err)
}
