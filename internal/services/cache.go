package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/shared"
)

// RecordCacher stores looked-up movie records by title.
//
// Implemented by repositories.RecordRepository.
type RecordCacher interface {
	GetRecord(title string, maxAge time.Duration) (*models.MovieRecord, error)
	PutRecord(title string, record *models.MovieRecord) error
}

// CachedGateway decorates a [Gateway] so successful lookups are remembered for ttl.
//
// Cache failures are logged and otherwise ignored; the wrapped gateway is always the fallback.
type CachedGateway struct {
	inner  Gateway
	cache  RecordCacher
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedGateway wraps inner with cache. A non-positive ttl means entries never expire.
func NewCachedGateway(inner Gateway, cache RecordCacher, ttl time.Duration, logger *log.Logger) *CachedGateway {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CachedGateway{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: shared.WithLogger(logger, "gateway", "cache"),
	}
}

// Name returns the wrapped provider's name.
func (c *CachedGateway) Name() string {
	return c.inner.Name()
}

// Lookup serves title from the cache when fresh, otherwise forwards and stores a successful answer.
func (c *CachedGateway) Lookup(ctx context.Context, title string) Result[*models.MovieRecord] {
	if record, err := c.cache.GetRecord(title, c.ttl); err == nil && record != nil {
		c.logger.Debug("cache hit", "title", title)
		return ok(record)
	}

	res := c.inner.Lookup(ctx, title)
	if res.OK() && res.Value != nil {
		if err := c.cache.PutRecord(title, res.Value); err != nil {
			c.logger.Warn("failed to cache record", "title", title, "err", err)
		}
	}
	return res
}

// Search always forwards to the wrapped gateway.
func (c *CachedGateway) Search(ctx context.Context, query string) Result[[]models.MovieSummary] {
	return c.inner.Search(ctx, query)
}
