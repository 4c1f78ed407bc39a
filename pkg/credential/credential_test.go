package credential

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/httputil"
)

const landingPage = `<script>window.__config = {"api_config":{"key":"testkey123"}}</script>`

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{"embedded", landingPage, "testkey123", true},
		{"long key", `{"api_config":{"key":"d306zoyjsyarp7ifhu67rjxn52tv0t20"}}`, "d306zoyjsyarp7ifhu67rjxn52tv0t20", true},
		{"missing", "<html><body>No config here</body></html>", "", false},
		{"empty value", `{"api_config":{"key":""}}`, "", false},
		{"unterminated", `{"api_config":{"key":"abc`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.page)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Extract() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func newServer(t *testing.T, body string, hits *atomic.Int32, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newManager(srv *httptest.Server, ttl time.Duration) *Manager {
	return NewManager(httputil.NewClient(httputil.Options{}), srv.URL, ttl, nil)
}

func TestToken_CachedAfterFirstFetch(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, landingPage, &hits, 0), time.Hour)

	for range 3 {
		tok, err := m.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "testkey123", tok)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestToken_ExpiresAfterTTL(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, landingPage, &hits, 0), time.Minute)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestToken_FailureIsNotCached(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, "<html>No config here</html>", &hits, 0), time.Hour)

	for range 2 {
		_, err := m.Token(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeAuth), "got %v", err)
	}
	assert.Equal(t, int32(2), hits.Load(), "each call after a failure must refetch")
}

func TestToken_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, landingPage, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newManager(srv, time.Hour).Token(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeAuth), "got %v", err)
}

func TestToken_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := NewManager(httputil.NewClient(httputil.Options{Timeout: time.Second}), url, time.Hour, nil)
	_, err := m.Token(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeAuth), "got %v", err)
}

func TestToken_ConcurrentRefreshCoalesced(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, landingPage, &hits, 50*time.Millisecond), time.Hour)

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := m.Token(context.Background())
			if err == nil && tok != "testkey123" {
				t.Errorf("token = %q", tok)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestToken_CancelledWaiterDoesNotAbortRefresh(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, landingPage, &hits, 100*time.Millisecond), time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	var patientTok string
	var patientErr error
	go func() {
		defer wg.Done()
		patientTok, patientErr = m.Token(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Token(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	wg.Wait()
	require.NoError(t, patientErr)
	assert.Equal(t, "testkey123", patientTok)
	assert.Equal(t, int32(1), hits.Load())
}

func TestInvalidate(t *testing.T) {
	var hits atomic.Int32
	m := newManager(newServer(t, landingPage, &hits, 0), time.Hour)

	_, err := m.Token(context.Background())
	require.NoError(t, err)
	m.Invalidate()
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}
