// Package connectivity reports whether network access is currently
// available and watches for it coming back.
package connectivity

import (
	"context"
	"net/http"
	"time"
)

// Oracle answers the single question the reconciler asks before starting a
// pass.
type Oracle interface {
	Online(ctx context.Context) bool
}

// Static is a fixed oracle for tests.
type Static bool

func (s Static) Online(ctx context.Context) bool { return bool(s) }

// Prober decides reachability by probing the remote store's base URL. Any
// HTTP response counts as online; even a 401 means the transport works.
type Prober struct {
	url  string
	http *http.Client
}

func NewProber(baseURL string, httpClient *http.Client) *Prober {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	return &Prober{url: baseURL, http: httpClient}
}

func (p *Prober) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
