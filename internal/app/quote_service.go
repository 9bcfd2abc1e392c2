// Package app contains application services that orchestrate use cases.
// Services depend on ports only; adapters are injected from main.
package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

const instrumentationName = "github.com/bodhitab/quote-service/internal/app"

// categoryFallbackSize is how many catalog entries stand in for a category
// the catalog does not know.
const categoryFallbackSize = 5

// Source tells the caller where a quote came from.
type Source string

// Quote sources.
const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// ResolvedQuote is a quote plus the path that produced it.
type ResolvedQuote struct {
	Quote  domain.Quote
	Source Source
}

// QuoteServiceConfig contains the quote service dependencies.
type QuoteServiceConfig struct {
	Client       ports.QuoteClient
	Connectivity ports.Connectivity
	Seen         *SeenTracker

	// FetchTimeout bounds each remote request. Zero uses the config default.
	FetchTimeout time.Duration

	// CategoryCacheTTL is how long a remote category listing is reused.
	CategoryCacheTTL time.Duration

	// Now is the clock used for cache expiry. Nil uses time.Now.
	Now func() time.Time
}

type categoryEntry struct {
	quotes  []domain.Quote
	expires time.Time
}

// QuoteService resolves quotes: remote first, bundled catalog as fallback.
type QuoteService struct {
	client       ports.QuoteClient
	connectivity ports.Connectivity
	seen         *SeenTracker
	fetchTimeout time.Duration
	cacheTTL     time.Duration
	now          func() time.Time
	resolutions  metric.Int64Counter

	cacheMu sync.Mutex
	cache   map[string]categoryEntry
}

// NewQuoteService creates a quote service. It panics when a required
// dependency is missing.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Client == nil {
		panic("app: QuoteService requires a QuoteClient")
	}

	if cfg.Connectivity == nil {
		panic("app: QuoteService requires a Connectivity")
	}

	if cfg.Seen == nil {
		panic("app: QuoteService requires a SeenTracker")
	}

	s := &QuoteService{
		client:       cfg.Client,
		connectivity: cfg.Connectivity,
		seen:         cfg.Seen,
		fetchTimeout: cfg.FetchTimeout,
		cacheTTL:     cfg.CategoryCacheTTL,
		now:          cfg.Now,
		cache:        make(map[string]categoryEntry),
	}

	if s.fetchTimeout <= 0 {
		s.fetchTimeout = config.DefaultQuoteFetchTimeout
	}

	if s.cacheTTL <= 0 {
		s.cacheTTL = config.DefaultCategoryCacheTTL
	}

	if s.now == nil {
		s.now = time.Now
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"quote.resolutions",
		metric.WithDescription("Quotes served, by resolution source"),
	)
	if err != nil {
		otel.Handle(err)
	}

	s.resolutions = counter

	return s
}

// FetchRandom makes one bounded remote request. It reports false without
// any network I/O when offline, and on any failure or timeout.
func (s *QuoteService) FetchRandom(ctx context.Context) (*domain.Quote, bool) {
	if !s.connectivity.Online(ctx) {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	q, err := s.client.GetRandomQuote(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("remote quote fetch failed", slog.String("error", err.Error()))
		return nil, false
	}

	return q, true
}

// GetQuote resolves a quote for display. It never fails: after at most two
// remote attempts, with no delay between them, it falls back to the catalog.
func (s *QuoteService) GetQuote(ctx context.Context) ResolvedQuote {
	logger := logging.FromContext(ctx)

	if !s.connectivity.Online(ctx) {
		logger.Debug("offline, using catalog quote")
		return s.local(ctx)
	}

	if q, ok := s.FetchRandom(ctx); ok {
		return s.remote(ctx, q)
	}

	if !s.connectivity.Online(ctx) {
		logger.Debug("offline after failed fetch, using catalog quote")
		return s.local(ctx)
	}

	logger.Debug("remote fetch failed while online, retrying once")

	if q, ok := s.FetchRandom(ctx); ok {
		return s.remote(ctx, q)
	}

	logger.Info("quote API unavailable, using catalog quote")

	return s.local(ctx)
}

func (s *QuoteService) remote(ctx context.Context, q *domain.Quote) ResolvedQuote {
	s.record(ctx, SourceRemote)
	return ResolvedQuote{Quote: *q, Source: SourceRemote}
}

func (s *QuoteService) local(ctx context.Context) ResolvedQuote {
	s.record(ctx, SourceLocal)
	return ResolvedQuote{Quote: s.seen.PickLocal(ctx), Source: SourceLocal}
}

func (s *QuoteService) record(ctx context.Context, source Source) {
	telemetry.QuoteResolutions.WithLabelValues(string(source)).Inc()

	if s.resolutions != nil {
		s.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(source))))
	}
}

// Categories lists remote categories, or the catalog's when the API cannot
// be reached.
func (s *QuoteService) Categories(ctx context.Context) ([]string, Source) {
	if s.connectivity.Online(ctx) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		categories, err := s.client.GetCategories(fetchCtx)
		if err == nil {
			return categories, SourceRemote
		}

		logging.FromContext(ctx).Warn("remote categories failed", slog.String("error", err.Error()))
	}

	return domain.CatalogCategories(), SourceLocal
}

// QuotesByCategory returns the quotes filed under category. Remote listings
// are cached per category for CategoryCacheTTL. The fallback is the catalog's
// entries for that category, or its first few entries when it has none.
func (s *QuoteService) QuotesByCategory(ctx context.Context, category string) ([]domain.Quote, Source) {
	cacheKey := strings.ToLower(strings.TrimSpace(category))

	if quotes, ok := s.cached(cacheKey); ok {
		return quotes, SourceRemote
	}

	if s.connectivity.Online(ctx) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()

		quotes, err := s.client.GetQuotesByCategory(fetchCtx, category)
		if err == nil {
			s.remember(cacheKey, quotes)
			return quotes, SourceRemote
		}

		logging.FromContext(ctx).Warn("remote category fetch failed",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
	}

	if local := domain.CatalogByCategory(category); len(local) > 0 {
		return local, SourceLocal
	}

	return domain.Catalog()[:categoryFallbackSize], SourceLocal
}

func (s *QuoteService) cached(key string) ([]domain.Quote, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}

	if !s.now().Before(entry.expires) {
		delete(s.cache, key)
		return nil, false
	}

	return slices.Clone(entry.quotes), true
}

func (s *QuoteService) remember(key string, quotes []domain.Quote) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[key] = categoryEntry{quotes: slices.Clone(quotes), expires: s.now().Add(s.cacheTTL)}
}

// Stats returns the remote API statistics. Unlike the quote paths it has no
// local fallback and reports domain.ErrUnavailable.
func (s *QuoteService) Stats(ctx context.Context) (*ports.QuoteStats, error) {
	if !s.connectivity.Online(ctx) {
		return nil, domain.NewUnavailableError("quote-api", "offline")
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	return s.client.GetStats(ctx)
}
