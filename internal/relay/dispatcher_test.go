package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
)

// fakeStore records store calls and can be made to fail or block.
type fakeStore struct {
	stored   map[string]string
	storeErr error
	blockFor time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{stored: make(map[string]string)}
}

func (f *fakeStore) StoreCredential(ctx context.Context, key session.Key, token string) error {
	if f.blockFor > 0 {
		select {
		case <-time.After(f.blockFor):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored[key.ActorAddress()] = token
	return nil
}

func (f *fakeStore) RetrieveCredential(ctx context.Context, key session.Key) (string, bool, error) {
	token, ok := f.stored[key.ActorAddress()]
	return token, ok, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, key session.Key) error {
	delete(f.stored, key.ActorAddress())
	return nil
}

func (f *fakeStore) SessionCount(ctx context.Context) (int, error) {
	return len(f.stored), nil
}

func TestRelayStoresUnderActorAddress(t *testing.T) {
	store := newFakeStore()
	d := NewDispatcher(store, 0)

	key := session.Key{Style: session.StyleStreamed, ID: "K1"}
	require.NoError(t, d.Relay(context.Background(), key, "tok-123"))

	assert.Equal(t, "tok-123", store.stored["streamed:K1"])
}

func TestRelaySurfacesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.storeErr = errors.New("disk full")
	d := NewDispatcher(store, 0)

	err := d.Relay(context.Background(), session.Key{Style: session.StyleDirect, ID: "S1"}, "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direct:S1")
	assert.Contains(t, err.Error(), "disk full")
}

func TestRelayTimesOut(t *testing.T) {
	store := newFakeStore()
	store.blockFor = time.Second
	d := NewDispatcher(store, 10*time.Millisecond)

	start := time.Now()
	err := d.Relay(context.Background(), session.Key{Style: session.StyleDirect, ID: "S1"}, "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "relay must fail within the bounded timeout")
}

func TestNewDispatcherDefaultsTimeout(t *testing.T) {
	d := NewDispatcher(newFakeStore(), 0)
	assert.Equal(t, DefaultRelayTimeout, d.timeout)

	d = NewDispatcher(newFakeStore(), -time.Second)
	assert.Equal(t, DefaultRelayTimeout, d.timeout)

	d = NewDispatcher(newFakeStore(), 2*time.Second)
	assert.Equal(t, 2*time.Second, d.timeout)
}
