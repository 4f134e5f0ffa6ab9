package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fpA = "fingerprint-a"
	fpB = "fingerprint-b"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStore_FirstClaimWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saleID, claimed, err := store.Claim(ctx, "key-1", fpA)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Empty(t, saleID)

	saleID, claimed, err = store.Claim(ctx, "key-1", fpA)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Empty(t, saleID, "in-flight claim has no sale yet")
}

func TestStore_CompleteThenReplay(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, claimed, err := store.Claim(ctx, "key-2", fpA)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.Complete(ctx, "key-2", fpA, "sale-42"))

	saleID, claimed, err := store.Claim(ctx, "key-2", fpA)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "sale-42", saleID)
	assert.True(t, mr.TTL(keyPrefix+"key-2") > 0)
}

func TestStore_DifferentFingerprintIsRejected(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "key-6", fpA)
	require.NoError(t, err)

	_, claimed, err := store.Claim(ctx, "key-6", fpB)
	assert.ErrorIs(t, err, ErrKeyReused)
	assert.False(t, claimed)

	require.NoError(t, store.Complete(ctx, "key-6", fpA, "sale-7"))
	saleID, _, err := store.Claim(ctx, "key-6", fpB)
	assert.ErrorIs(t, err, ErrKeyReused)
	assert.Empty(t, saleID, "a mismatched request must not learn the sale id")
}

func TestStore_ReleaseAllowsRetry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "key-3", fpA)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key-3"))

	_, claimed, err := store.Claim(ctx, "key-3", fpB)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestStore_ExpiredKeyCanBeClaimedAgain(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Claim(ctx, "key-4", fpA)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, claimed, err := store.Claim(ctx, "key-4", fpA)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, claimed, err := store.Claim(context.Background(), "key-5", fpA)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyReused)
	assert.False(t, claimed)
}

func TestNilStore_AlwaysClaims(t *testing.T) {
	var store *Store
	assert.Nil(t, NewStore(nil, time.Hour))

	_, claimed, err := store.Claim(context.Background(), "any", fpA)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, store.Complete(context.Background(), "any", fpA, "s"))
	assert.NoError(t, store.Release(context.Background(), "any"))
}

func TestFingerprint(t *testing.T) {
	type line struct {
		ProductID string
		Quantity  int
	}

	a, err := Fingerprint([]line{{"p1", 3}})
	require.NoError(t, err)
	same, err := Fingerprint([]line{{"p1", 3}})
	require.NoError(t, err)
	other, err := Fingerprint([]line{{"p1", 4}})
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, same)
	assert.NotEqual(t, a, other)
}
