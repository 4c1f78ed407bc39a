// Package credential manages the API key used by the structured source.
//
// The key is scraped from the upstream landing page, where it is embedded
// as "api_config":{"key":"<KEY>". A [Manager] caches it for a fixed
// lifetime and coalesces concurrent refreshes so that a cold start with
// many callers issues exactly one landing-page request.
package credential

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/stayscout/pkg/errors"
)

// DefaultTTL is the credential lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

const marker = `"api_config":{"key":"`

// Manager fetches and caches the API key. It is safe for concurrent use.
type Manager struct {
	http    *resty.Client
	baseURL string
	ttl     time.Duration
	logger  *log.Logger
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	fetchedAt time.Time

	group singleflight.Group
}

// NewManager creates a manager that reads the key from baseURL.
// A ttl <= 0 uses [DefaultTTL]; a nil logger uses log.Default().
func NewManager(client *resty.Client, baseURL string, ttl time.Duration, logger *log.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		http:    client,
		baseURL: baseURL,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Token returns a valid API key, fetching one if none is cached or the
// cached key has expired.
//
// Concurrent callers share a single refresh. A caller whose ctx is
// cancelled stops waiting with ctx.Err(); the refresh keeps running for
// the remaining waiters. A failed refresh returns AUTH_ERROR and caches
// nothing, so the next call tries again. The error names no operation;
// callers attribute it with [errors.At].
func (m *Manager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	ch := m.group.DoChan("token", func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached key. The next Token call refreshes.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.fetchedAt = time.Time{}
}

func (m *Manager) cached() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token != "" && m.now().Sub(m.fetchedAt) < m.ttl {
		return m.token, true
	}
	return "", false
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	// A refresh that finished between the cache check and this call
	// already stored a fresh key.
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	m.logger.Debug("fetching api key", "url", m.baseURL)
	res, err := m.http.R().SetContext(ctx).Get(m.baseURL)
	if err != nil {
		return "", errors.Auth("", err)
	}
	if res.IsError() {
		return "", errors.Auth("", fmt.Errorf("landing page returned status %d", res.StatusCode()))
	}

	tok, ok := Extract(res.String())
	if !ok {
		return "", errors.Auth("", fmt.Errorf("api key marker not found in %d-byte page", len(res.Body())))
	}

	m.mu.Lock()
	m.token = tok
	m.fetchedAt = m.now()
	m.mu.Unlock()
	return tok, nil
}

// Extract returns the API key embedded in page. An empty key counts as absent.
func Extract(page string) (string, bool) {
	i := strings.Index(page, marker)
	if i < 0 {
		return "", false
	}
	rest := page[i+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}
