package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/adapters/http/handlers"
	"github.com/bodhitab/quote-service/internal/adapters/http/middleware"
	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the service in trace spans.
	ServiceName string

	// Timeout bounds every /api/v1 request. Zero disables it.
	Timeout time.Duration

	HealthHandler    *handlers.HealthHandler
	QuoteHandler     *handlers.QuoteHandler
	FavoritesHandler *handlers.FavoritesHandler
	NewTabHandler    *handlers.NewTabHandler
}

// NewRouterConfig builds a RouterConfig from loaded configuration.
func NewRouterConfig(cfg *config.Config) RouterConfig {
	return RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Timeout:     cfg.Server.RequestTimeout,
	}
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - correlate calls across services
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips /-/ endpoints)
//  6. Timeout - request deadline on /api/v1 only
//
// Route groups:
//   - /-/ (internal): health, build info, metrics
//   - /api/v1/ (public API): quotes, favorites, new tab
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers business API routes. Nil handlers are skipped.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
	}

	if cfg.FavoritesHandler != nil {
		cfg.FavoritesHandler.RegisterFavoritesRoutes(rg)
	}

	if cfg.NewTabHandler != nil {
		cfg.NewTabHandler.RegisterNewTabRoutes(rg)
	}
}
