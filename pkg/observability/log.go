package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// charmbracelet logger. The CLI installs it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for all event categories.
func (h *LogHooks) Install() {
	SetFetchHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, op, source string) {
	h.Logger.Debug("fetch start", "op", op, "source", source)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, op, source string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("fetch failed", "op", op, "source", source, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("fetch done", "op", op, "source", source, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnFallback(_ context.Context, op, from, to string, cause error) {
	h.Logger.Debug("fallback", "op", op, "from", from, "to", to, "cause", cause)
}

func (h *LogHooks) OnExtract(_ context.Context, op, tier string) {
	h.Logger.Debug("extracted", "op", op, "tier", tier)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
