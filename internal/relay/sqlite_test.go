package relay

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := session.Key{Style: session.StyleStreamed, ID: "K1"}

	require.NoError(t, store.StoreCredential(ctx, key, "tok-123"))

	token, found, err := store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-123", token)

	// Reading does not consume the credential.
	token, found, err = store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-123", token)
}

func TestStoreIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := session.Key{Style: session.StyleDirect, ID: "S1"}

	require.NoError(t, store.StoreCredential(ctx, key, "tok-abc"))
	require.NoError(t, store.StoreCredential(ctx, key, "tok-abc"))

	token, found, err := store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-abc", token)
}

func TestStoreOverwritesLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := session.Key{Style: session.StyleDirect, ID: "S1"}

	require.NoError(t, store.StoreCredential(ctx, key, "tok-abc"))
	require.NoError(t, store.StoreCredential(ctx, key, "tok-xyz"))

	token, found, err := store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-xyz", token)
}

func TestRetrieveAbsentIsExplicit(t *testing.T) {
	store := newTestStore(t)

	token, found, err := store.RetrieveCredential(context.Background(),
		session.Key{Style: session.StyleStreamed, ID: "never-stored"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, token)
}

func TestStoreRejectsEmptyCredential(t *testing.T) {
	store := newTestStore(t)

	err := store.StoreCredential(context.Background(),
		session.Key{Style: session.StyleStreamed, ID: "K1"}, "")
	assert.ErrorIs(t, err, ErrEmptyCredential)
}

func TestNamespaceIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	streamed := session.Key{Style: session.StyleStreamed, ID: "same-raw-id"}
	direct := session.Key{Style: session.StyleDirect, ID: "same-raw-id"}

	require.NoError(t, store.StoreCredential(ctx, streamed, "tok-streamed"))

	_, found, err := store.RetrieveCredential(ctx, direct)
	require.NoError(t, err)
	assert.False(t, found, "credential stored under the streamed namespace must not be visible to the direct namespace")

	require.NoError(t, store.StoreCredential(ctx, direct, "tok-direct"))

	token, found, err := store.RetrieveCredential(ctx, streamed)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok-streamed", token)
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := session.Key{Style: session.StyleDirect, ID: "S1"}

	require.NoError(t, store.StoreCredential(ctx, key, "tok-abc"))
	require.NoError(t, store.DeleteSession(ctx, key))

	_, found, err := store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an empty session is a no-op.
	require.NoError(t, store.DeleteSession(ctx, key))
}

func TestSessionCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.StoreCredential(ctx, session.Key{Style: session.StyleStreamed, ID: "a"}, "t1"))
	require.NoError(t, store.StoreCredential(ctx, session.Key{Style: session.StyleDirect, ID: "a"}, "t2"))
	// Re-storing the same session must not create a second row.
	require.NoError(t, store.StoreCredential(ctx, session.Key{Style: session.StyleStreamed, ID: "a"}, "t3"))

	count, err = store.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPurgeIdleSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreCredential(ctx, session.Key{Style: session.StyleStreamed, ID: "old"}, "t1"))

	// Nothing is older than an hour yet.
	purged, err := store.PurgeIdleSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, purged)

	// Everything is older than zero.
	purged, err = store.PurgeIdleSessions(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, found, err := store.RetrieveCredential(ctx, session.Key{Style: session.StyleStreamed, ID: "old"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConcurrentStoresAreSafe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := session.Key{Style: session.StyleDirect, ID: "S1"}

	// Enough writers to force the pool past a single connection; every
	// writer must wait for the lock rather than fail busy.
	var wg sync.WaitGroup
	tokens := []string{"tok-a", "tok-b", "tok-c", "tok-d", "tok-e", "tok-f", "tok-g", "tok-h"}
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, store.StoreCredential(ctx, key, tok))
			}
		}(tok)
	}
	wg.Wait()

	// Whichever write won, the slot holds exactly one of the pushed tokens.
	token, found, err := store.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, tokens, token)
}

func TestCredentialSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.db")
	ctx := context.Background()
	key := session.Key{Style: session.StyleStreamed, ID: "K1"}

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.StoreCredential(ctx, key, "tok-123"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	token, found, err := reopened.RetrieveCredential(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok-123", token)
}
