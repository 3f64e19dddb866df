package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, 30*time.Minute, zaptest.NewLogger(t)), mr
}

func TestStore_CreateAndTouch(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+sess.ID))

	mr.FastForward(10 * time.Minute)
	accessed := created.Add(10 * time.Minute)
	store.now = func() time.Time { return accessed }

	got, err := store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, accessed, got.LastAccessedAt)
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+sess.ID), "access should refresh the idle timeout")
}

func TestStore_Expires(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = store.Touch(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(keyPrefix+sess.ID), "touching an expired session must not recreate it")
}

func TestStore_SetAttributeOnExpired(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	mr.FastForward(31 * time.Minute)

	err = store.SetAttribute(ctx, sess.ID, "lastViewedProduct", "7")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(keyPrefix+sess.ID))
}

func TestStore_Attributes(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.SetAttribute(ctx, sess.ID, "cart", "42"))

	got, err := store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cart": "42"}, got.Attributes)
}

func TestStore_Delete(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sess.ID))

	assert.False(t, mr.Exists(keyPrefix+sess.ID))
	_, err = store.Touch(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.Create(context.Background())
	assert.Error(t, err)
}
