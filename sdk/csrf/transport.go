package csrf

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport attaches the CSRF token to mutating requests. A 419 answer triggers one
// Refresh and one retry; a second 419 is returned as ErrCSRFMismatch.
type Transport struct {
	Manager *Manager
	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !isMutating(req.Method) {
		return t.base().RoundTrip(req)
	}

	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	token, err := t.Manager.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get csrf token: %w", err)
	}

	resp, err := t.send(req, token, body)
	if err != nil || resp.StatusCode != StatusCSRFMismatch {
		return resp, err
	}
	discard(resp)

	token, err = t.Manager.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh csrf token: %w", err)
	}

	resp, err = t.send(req, token, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == StatusCSRFMismatch {
		discard(resp)
		return nil, ErrCSRFMismatch
	}
	return resp, nil
}

// send clones req with the token and a fresh copy of the body. Cookies are re-read from
// the jar because a refresh may have replaced the session cookie.
func (t *Transport) send(req *http.Request, token string, body []byte) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set(HeaderName, token)

	if jar := t.Manager.Jar(); jar != nil {
		clone.Header.Del("Cookie")
		for _, c := range jar.Cookies(req.URL) {
			clone.AddCookie(c)
		}
	}

	if body != nil {
		clone.Body = io.NopCloser(bytes.NewReader(body))
		clone.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		clone.ContentLength = int64(len(body))
	}

	return t.base().RoundTrip(clone)
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	return data, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
