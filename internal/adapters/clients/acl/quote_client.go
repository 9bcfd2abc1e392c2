package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/ports"
)

// defaultHealthTimeout bounds the /health probe.
const defaultHealthTimeout = 3 * time.Second

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL points at the quote API root, e.g. ".../api".
	Client *clients.Client

	// HealthTimeout bounds Check. Defaults to 3s.
	HealthTimeout time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient against the BodhiTab quotes API.
type QuoteClient struct {
	BaseAdapter

	healthTimeout time.Duration
	logger        *slog.Logger
}

var (
	_ ports.QuoteClient   = (*QuoteClient)(nil)
	_ ports.HealthChecker = (*QuoteClient)(nil)
)

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.HealthTimeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}

	return &QuoteClient{
		BaseAdapter:   NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		healthTimeout: timeout,
		logger:        logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// NewQuoteHTTPClient builds the HTTP client for the quote API with a single
// attempt per request. The resolver in app.QuoteService owns the one retry,
// so the client's own retry loop must never add requests on top of it.
func NewQuoteHTTPClient(cfg clients.Config) (*clients.Client, error) {
	cfg.Retry.MaxAttempts = 1

	return clients.New(&cfg)
}

// quoteDTO is one quote as served by the API. Older deployments used
// "content" instead of "text".
type quoteDTO struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

type quoteListDTO struct {
	Quotes []quoteDTO `json:"quotes"`
}

type categoriesDTO struct {
	Categories []string `json:"categories"`
}

type statsDTO struct {
	TotalQuotes     int `json:"totalQuotes"`
	TotalCategories int `json:"totalCategories"`
}

// GetRandomQuote issues exactly one GET /quotes/random.
func (c *QuoteClient) GetRandomQuote(ctx context.Context) (*domain.Quote, error) {
	var dto quoteDTO
	if err := c.GetJSON(ctx, "/quotes/random", "get random quote", "quote", "", &dto); err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnavailableError(c.ServiceName(), "random quote endpoint not found")
		}

		return nil, err
	}

	q, err := c.translate(&dto)
	if err != nil {
		// A 2xx with no usable text is an API fault, not a caller error.
		return nil, domain.NewUnavailableError(c.ServiceName(), "empty quote in response")
	}

	logging.Trace(ctx, "translated remote quote",
		slog.Int64("quote_id", q.ID),
		slog.String("author", q.Author),
	)

	return q, nil
}

// GetQuotesByCategory fetches GET /quotes/category/{category}.
// Entries without text are dropped.
func (c *QuoteClient) GetQuotesByCategory(ctx context.Context, category string) ([]domain.Quote, error) {
	path := "/quotes/category/" + url.PathEscape(category)

	var dto quoteListDTO
	if err := c.GetJSON(ctx, path, "get quotes by category", "category", category, &dto); err != nil {
		return nil, err
	}

	quotes, dropped := TranslateValid(dto.Quotes, c.translate)
	if dropped > 0 {
		c.logger.WarnContext(ctx, "dropped invalid remote quotes",
			slog.String("category", category),
			slog.Int("dropped", dropped),
		)
	}

	return quotes, nil
}

// GetCategories fetches GET /categories.
func (c *QuoteClient) GetCategories(ctx context.Context) ([]string, error) {
	var dto categoriesDTO
	if err := c.GetJSON(ctx, "/categories", "get categories", "categories", "", &dto); err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(dto.Categories))
	for _, raw := range dto.Categories {
		if name := strings.ToLower(c.Sanitize(raw)); name != "" {
			categories = append(categories, name)
		}
	}

	return categories, nil
}

// GetStats fetches GET /stats.
func (c *QuoteClient) GetStats(ctx context.Context) (*ports.QuoteStats, error) {
	var dto statsDTO
	if err := c.GetJSON(ctx, "/stats", "get stats", "stats", "", &dto); err != nil {
		return nil, err
	}

	return &ports.QuoteStats{
		TotalQuotes:     dto.TotalQuotes,
		TotalCategories: dto.TotalCategories,
	}, nil
}

func (c *QuoteClient) translate(dto *quoteDTO) (*domain.Quote, error) {
	text := dto.Text
	if text == "" {
		text = dto.Content
	}

	return c.SanitizeQuote(dto.ID, text, dto.Author, dto.Category)
}

// Name returns the health check name for this client.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check calls GET /health with a short timeout.
func (c *QuoteClient) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	var body map[string]any
	if err := c.GetJSON(ctx, "/health", "health check", "health", "", &body); err != nil {
		return fmt.Errorf("quote API health: %w", err)
	}

	return nil
}
