package config

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stayscout/pkg/cache"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/integrations/composite"
	"github.com/matzehuels/stayscout/pkg/integrations/document"
	"github.com/matzehuels/stayscout/pkg/integrations/structured"
)

// OpenCache creates the configured response cache. The caller closes it.
func (c Config) OpenCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		return cache.NewRedisCache(c.Cache.RedisURL, c.Cache.RedisPrefix)
	case BackendNone:
		return cache.NewNullCache(), nil
	default:
		return cache.NewMemoryCache(c.Cache.Capacity), nil
	}
}

// NewSource wires the document source, the structured source when enabled,
// and the composite client over both. Both sources share rc; each keeps
// its own rate limiter.
func (c Config) NewSource(rc cache.Cache, logger *log.Logger) *composite.Client {
	doc := document.NewClient(document.Options{
		BaseURL:           c.Scraper.BaseURL,
		UserAgent:         c.Scraper.UserAgent,
		Timeout:           c.Scraper.RequestTimeout,
		RequestsPerSecond: c.Scraper.RequestsPerSecond,
		MaxRetries:        c.Scraper.MaxRetries,
		BaseRetryDelay:    c.Scraper.BaseRetryDelay,
		RetryOnThrottle:   c.Scraper.RetryOnThrottle,
		Cache:             rc,
		TTL:               c.Cache.TTL,
		Logger:            logger,
	})

	var primary integrations.Source
	if c.Structured.Enabled {
		primary = structured.NewClient(structured.Options{
			BaseURL:           c.Scraper.BaseURL,
			UserAgent:         c.Scraper.UserAgent,
			Timeout:           c.Scraper.RequestTimeout,
			RequestsPerSecond: c.Structured.RequestsPerSecond,
			CredentialTTL:     c.Structured.CredentialTTL,
			Hashes:            c.Structured.Hashes,
			Cache:             rc,
			TTL:               c.Cache.TTL,
			Logger:            logger,
		})
	}
	return composite.New(primary, doc, logger)
}
