package csrf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	mu        sync.Mutex
	current   string
	ttl       time.Duration
	serial    int
	fetches   atomic.Int32
	refresh   atomic.Int32
	release   chan struct{}
	rejectAll bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{current: "tok-0", ttl: time.Hour}
}

func (s *fakeServer) writeToken(w http.ResponseWriter) {
	s.mu.Lock()
	body := map[string]any{
		"success": true,
		"data": map[string]any{
			"csrf_token": s.current,
			"expires_at": time.Now().Add(s.ttl),
		},
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /csrf-token", func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		if s.release != nil {
			<-s.release
		}
		http.SetCookie(w, &http.Cookie{Name: "shop_session", Value: "sess-1", Path: "/"})
		s.writeToken(w)
	})
	mux.HandleFunc("POST /csrf-token/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refresh.Add(1)
		s.mu.Lock()
		s.serial++
		s.current = fmt.Sprintf("tok-%d", s.serial)
		s.mu.Unlock()
		s.writeToken(w)
	})
	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		current, reject := s.current, s.rejectAll
		s.mu.Unlock()

		if r.Method != http.MethodGet {
			if reject || r.Header.Get(HeaderName) != current {
				w.WriteHeader(StatusCSRFMismatch)
				_, _ = w.Write([]byte(`{"success":false,"error":{"type":"csrf_mismatch"}}`))
				return
			}
		}
		w.Header().Set("X-Seen-Token", r.Header.Get(HeaderName))
		if c, err := r.Cookie("shop_session"); err == nil {
			w.Header().Set("X-Seen-Session", c.Value)
		}
		w.WriteHeader(http.StatusOK)
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
	return mux
}

func startServer(t *testing.T, s *fakeServer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestManager_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	s := newFakeServer()
	s.release = make(chan struct{})
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := m.Token(ctxA)
		errA <- err
	}()
	require.Eventually(t, func() bool { return s.fetches.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		token string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		tok, err := m.Token(context.Background())
		resB <- result{tok, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	time.Sleep(50 * time.Millisecond)
	close(s.release)

	got := <-resB
	require.NoError(t, got.err)
	assert.Equal(t, "tok-0", got.token)
	assert.Equal(t, int32(1), s.fetches.Load())
	assert.Equal(t, StateValid, m.State())
}

func TestManager_TokenCachesInMemory(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, m.State())

	first, err := m.Token(context.Background())
	require.NoError(t, err)
	second, err := m.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-0", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), s.fetches.Load())
	assert.Equal(t, StateValid, m.State())
}

func TestManager_ConcurrentCallersShareOneFetch(t *testing.T) {
	s := newFakeServer()
	s.release = make(chan struct{})
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Token(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(s.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-0", results[i])
	}
	assert.Equal(t, int32(1), s.fetches.Load())
}

func TestManager_RefetchesNearExpiry(t *testing.T) {
	s := newFakeServer()
	s.ttl = 4 * time.Minute
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExpiringSoon, m.State())

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), s.fetches.Load())
}

func TestManager_PromotesStoredToken(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), Token{Value: "stored", ExpiresAt: time.Now().Add(time.Hour)}))

	m, err := NewManager(srv.URL, WithStore(store))
	require.NoError(t, err)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", token)
	assert.Equal(t, int32(0), s.fetches.Load())
	assert.Equal(t, StateValid, m.State())
}

func TestManager_IgnoresExpiringStoredToken(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), Token{Value: "stale", ExpiresAt: time.Now().Add(time.Minute)}))

	m, err := NewManager(srv.URL, WithStore(store))
	require.NoError(t, err)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-0", token)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-0", saved.Value)
}

func TestManager_RefreshRotatesBothCaches(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	store := NewFileStore(filepath.Join(t.TempDir(), "csrf.yaml"))
	m, err := NewManager(srv.URL, WithStore(store))
	require.NoError(t, err)

	_, err = m.Token(context.Background())
	require.NoError(t, err)

	rotated, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", rotated)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved.Value)
}

func TestManager_NetworkFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m, err := NewManager(url)
	require.NoError(t, err)

	_, err = m.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateUninitialized, m.State())
}

func TestManager_ServerErrorIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	_, err = m.Token(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestManager_Reset(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)
	_, err = m.Token(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Reset(context.Background()))
	assert.Equal(t, StateUninitialized, m.State())

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), s.fetches.Load())
}

func TestStateAt(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, StateUninitialized, stateAt(nil, now))
	assert.Equal(t, StateValid, stateAt(&Token{Value: "a", ExpiresAt: now.Add(time.Hour)}, now))
	assert.Equal(t, StateExpiringSoon, stateAt(&Token{Value: "a", ExpiresAt: now.Add(5 * time.Minute)}, now))
	assert.Equal(t, StateExpired, stateAt(&Token{Value: "a", ExpiresAt: now}, now))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "csrf.yaml"))

	missing, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	expires := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, Token{Value: "abc", ExpiresAt: expires}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abc", loaded.Value)
	assert.True(t, expires.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	cleared, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cleared)
}
