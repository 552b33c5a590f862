package csrf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Manager hands out the session's CSRF token. A token is served from memory while it is
// more than ExpiryBuffer away from expiry, then from the Store, and only then fetched.
// Concurrent fetches collapse into one request.
type Manager struct {
	baseURL    string
	httpClient *http.Client
	jar        http.CookieJar
	store      Store
	now        func() time.Time

	mu      sync.Mutex
	current *Token

	group singleflight.Group
}

// Option is a function that configures the Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for the CSRF endpoints. A client without a cookie
// jar gets the manager's jar.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = c
	}
}

// WithStore sets the persistent token cache. The default keeps it in memory.
func WithStore(s Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithCookieJar shares an existing jar, so the session cookie matches the caller's.
func WithCookieJar(jar http.CookieJar) Option {
	return func(m *Manager) {
		m.jar = jar
	}
}

// NewManager creates a manager for the API at baseURL (e.g. "https://admin.example.com").
func NewManager(baseURL string, opts ...Option) (*Manager, error) {
	m := &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   NewMemoryStore(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		m.jar = jar
	}

	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: 30 * time.Second}
	} else {
		c := *m.httpClient
		m.httpClient = &c
	}
	if m.httpClient.Jar == nil {
		m.httpClient.Jar = m.jar
	}

	return m, nil
}

// Jar returns the cookie jar holding the session cookie.
func (m *Manager) Jar() http.CookieJar {
	return m.jar
}

// Client returns an HTTP client that sends CSRF tokens through a Transport and shares
// the manager's cookie jar.
func (m *Manager) Client() *http.Client {
	return &http.Client{
		Transport: &Transport{Manager: m},
		Jar:       m.jar,
		Timeout:   m.httpClient.Timeout,
	}
}

// State reports the lifecycle state of the in-memory token.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return stateAt(m.current, m.now())
}

// Token returns a usable token, fetching one if neither memory nor the store has one.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if t := m.cached(); t != nil {
		return t.Value, nil
	}

	ch := m.group.DoChan("token", func() (any, error) {
		fctx, cancel := flightContext(ctx)
		defer cancel()

		// A fetch that finished while we were queued may already have filled memory.
		if t := m.cached(); t != nil {
			return t, nil
		}
		if t := m.promote(fctx); t != nil {
			return t, nil
		}
		return m.fetchAndStore(fctx, http.MethodGet, "/csrf-token")
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).Value, nil
	}
}

// Refresh rotates the session token on the server and replaces both caches.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	ch := m.group.DoChan("refresh", func() (any, error) {
		fctx, cancel := flightContext(ctx)
		defer cancel()
		return m.fetchAndStore(fctx, http.MethodPost, "/csrf-token/refresh")
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).Value, nil
	}
}

// Reset forgets the token in memory and in the store.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return m.store.Clear(ctx)
}

// flightContext detaches a shared fetch from the caller that started it, so waiting callers
// are not failed by that caller giving up. The fetch is bounded by FetchTimeout instead.
func flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
}

func (m *Manager) cached() *Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.usableAt(m.now()) {
		return m.current
	}
	return nil
}

// promote copies a usable stored token into memory. A store that cannot be read counts
// as empty.
func (m *Manager) promote(ctx context.Context) *Token {
	stored, err := m.store.Load(ctx)
	if err != nil || !stored.usableAt(m.now()) {
		return nil
	}

	m.mu.Lock()
	m.current = stored
	m.mu.Unlock()
	return stored
}

func (m *Manager) fetchAndStore(ctx context.Context, method, path string) (*Token, error) {
	token, err := m.fetch(ctx, method, path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = token
	m.mu.Unlock()

	if err := m.store.Save(ctx, *token); err != nil {
		return nil, fmt.Errorf("save csrf token: %w", err)
	}
	return token, nil
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Token `json:"data,omitempty"`
}

func (m *Manager) fetch(ctx context.Context, method, path string) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if !apiResp.Success {
		return nil, fmt.Errorf("api error: %s", apiResp.Message)
	}
	if apiResp.Data == nil || apiResp.Data.Value == "" {
		return nil, fmt.Errorf("api error: response carries no csrf token")
	}
	return apiResp.Data, nil
}
