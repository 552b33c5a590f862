package csrf

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_AttachesTokenOnMutatingRequests(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)
	client := m.Client()

	resp, err := client.Post(srv.URL+"/api/items", "application/json", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tok-0", resp.Header.Get("X-Seen-Token"))
	assert.Equal(t, "sess-1", resp.Header.Get("X-Seen-Session"))
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestTransport_SafeMethodsSkipToken(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	resp, err := m.Client().Get(srv.URL + "/api/items")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Seen-Token"))
	assert.Equal(t, int32(0), s.fetches.Load())
}

func TestTransport_RefreshesOnceAndRetries(t *testing.T) {
	s := newFakeServer()
	srv := startServer(t, s)

	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), Token{Value: "stale", ExpiresAt: time.Now().Add(time.Hour)}))

	m, err := NewManager(srv.URL, WithStore(store))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/items", strings.NewReader("payload"))
	require.NoError(t, err)
	resp, err := m.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tok-1", resp.Header.Get("X-Seen-Token"))
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int32(1), s.refresh.Load())
	assert.Equal(t, int32(0), s.fetches.Load())
}

func TestTransport_SecondRejectionIsTerminal(t *testing.T) {
	s := newFakeServer()
	s.rejectAll = true
	srv := startServer(t, s)

	m, err := NewManager(srv.URL)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/items", nil)
	require.NoError(t, err)
	_, err = m.Client().Do(req)

	require.ErrorIs(t, err, ErrCSRFMismatch)
	assert.Equal(t, int32(1), s.refresh.Load())
}
