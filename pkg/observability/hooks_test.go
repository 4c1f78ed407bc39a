package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	f := NoopFetchHooks{}
	f.OnFetchStart(ctx, "detail", "structured")
	f.OnFetchComplete(ctx, "detail", "structured", time.Second, nil)
	f.OnFallback(ctx, "detail", "structured", "document", errors.New("boom"))
	f.OnExtract(ctx, "detail", "embedded")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "detail")
	c.OnCacheMiss(ctx, "search")
	c.OnCacheSet(ctx, "reviews", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "www.airbnb.com", "/rooms/123")
	h.OnResponse(ctx, "GET", "www.airbnb.com", "/rooms/123", 200, time.Second)
	h.OnError(ctx, "GET", "www.airbnb.com", "/rooms/123", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Fetch() should return NoopFetchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customFetch := &testFetchHooks{}
	SetFetchHooks(customFetch)
	if Fetch() != customFetch {
		t.Error("SetFetchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Reset() should restore NoopFetchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testFetchHooks{}
	SetFetchHooks(custom)
	SetFetchHooks(nil)

	if Fetch() != custom {
		t.Error("SetFetchHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(logger).Install()

	ctx := context.Background()
	Fetch().OnFallback(ctx, "detail", "structured", "document", errors.New("status 500"))
	Cache().OnCacheHit(ctx, "reviews")
	HTTP().OnResponse(ctx, "GET", "example.com", "/rooms/1", 404, 3*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"fallback", "status 500", "cache hit", "reviews", "http response", "404"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testFetchHooks struct{ NoopFetchHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
