package csrf

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	deleted []string
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]Entry)}
}

func (f *fakeStore) Get(_ context.Context, sessionID string) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.entries[sessionID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeStore) Put(_ context.Context, sessionID string, entry Entry, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[sessionID] = entry
	return nil
}

func (f *fakeStore) Delete(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, sessionID)
	f.deleted = append(f.deleted, sessionID)
	return nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(store Store) (*Service, *clock) {
	c := &clock{now: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)}
	svc := NewService(store, 2*time.Hour, logger.NewNop())
	svc.now = c.Now
	return svc, c
}

func TestService_IssueMintsToken(t *testing.T) {
	svc, c := newTestService(newFakeStore())

	entry, err := svc.Issue(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Len(t, entry.Token, 64)
	assert.Equal(t, c.now.Add(2*time.Hour), entry.ExpiresAt)
}

func TestService_IssueReusesLiveToken(t *testing.T) {
	svc, c := newTestService(newFakeStore())
	ctx := context.Background()

	first, err := svc.Issue(ctx, "sess-1")
	require.NoError(t, err)

	c.now = c.now.Add(time.Hour)
	second, err := svc.Issue(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)

	c.now = c.now.Add(time.Hour)
	third, err := svc.Issue(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, third.Token)
}

func TestService_RefreshRotates(t *testing.T) {
	svc, _ := newTestService(newFakeStore())
	ctx := context.Background()

	first, err := svc.Issue(ctx, "sess-1")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	ok, err := svc.Verify(ctx, "sess-1", first.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, "sess-1", second.Token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_VerifyRejectsExpiredStoredToken(t *testing.T) {
	store := newFakeStore()
	svc, c := newTestService(store)
	ctx := context.Background()

	// The store still holds the key, but its recorded expiry has passed.
	store.entries["sess-1"] = Entry{Token: "stale", ExpiresAt: c.now.Add(-time.Second)}

	ok, err := svc.Verify(ctx, "sess-1", "stale")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"sess-1"}, store.deleted)
}

func TestService_VerifyCases(t *testing.T) {
	store := newFakeStore()
	svc, c := newTestService(store)
	ctx := context.Background()
	store.entries["sess-1"] = Entry{Token: "good-token", ExpiresAt: c.now.Add(time.Minute)}

	tests := []struct {
		name      string
		sessionID string
		presented string
		want      bool
	}{
		{"matching", "sess-1", "good-token", true},
		{"mismatch", "sess-1", "bad-token", false},
		{"prefix only", "sess-1", "good", false},
		{"empty token", "sess-1", "", false},
		{"unknown session", "sess-2", "good-token", false},
		{"empty session", "", "good-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.Verify(ctx, tt.sessionID, tt.presented)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestService_VerifyStoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	svc, _ := newTestService(store)

	ok, err := svc.Verify(context.Background(), "sess-1", "token")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestService_EmptySession(t *testing.T) {
	svc, _ := newTestService(newFakeStore())

	_, err := svc.Issue(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySession)

	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("abc", "abc"))
	assert.False(t, Equal("abc", "abd"))
	assert.False(t, Equal("abc", "abcd"))
	assert.False(t, Equal("", ""))
}

func TestNewService_DefaultTTL(t *testing.T) {
	svc := NewService(newFakeStore(), 0, logger.NewNop())
	assert.Equal(t, DefaultTokenTTL, svc.TTL())
}
