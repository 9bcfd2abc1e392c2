package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/adapters/http/dto"
	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/platform/logging"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	quotes    *app.QuoteService
	favorites *app.FavoritesService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quotes *app.QuoteService, favorites *app.FavoritesService) *QuoteHandler {
	return &QuoteHandler{
		quotes:    quotes,
		favorites: favorites,
	}
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Resolves a quote remote-first with the bundled catalog as fallback. It
// never fails: the catalog always has an answer.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.RandomQuoteResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	ctx := c.Request.Context()
	resolved := h.quotes.GetQuote(ctx)

	isFavorite, err := h.favorites.IsFavorite(ctx, resolved.Quote)
	if err != nil {
		logging.FromContext(ctx).Warn("favorite lookup failed", "error", err)
	}

	c.JSON(http.StatusOK, dto.NewRandomQuoteResponse(resolved, isFavorite))
}

// GetCategories handles GET /api/v1/quotes/categories
//
// @Summary List quote categories
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /api/v1/quotes/categories [get]
func (h *QuoteHandler) GetCategories(c *gin.Context) {
	categories, source := h.quotes.Categories(c.Request.Context())

	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: categories,
		Source:     source,
	})
}

// GetCategoryQuotes handles GET /api/v1/quotes/category/:category
// Unknown categories fall back to a handful of catalog quotes.
//
// @Summary List quotes in a category
// @Tags quotes
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} dto.CategoryQuotesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/category/{category} [get]
func (h *QuoteHandler) GetCategoryQuotes(c *gin.Context) {
	var param dto.CategoryParam
	if err := dto.BindURIAndValidate(c, &param); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	quotes, source := h.quotes.QuotesByCategory(c.Request.Context(), param.Category)

	c.JSON(http.StatusOK, dto.CategoryQuotesResponse{
		Category: param.Category,
		Quotes:   dto.NewQuoteResponses(quotes),
		Source:   source,
	})
}

// GetStats handles GET /api/v1/quotes/stats
//
// @Summary Remote quote API statistics
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/stats [get]
func (h *QuoteHandler) GetStats(c *gin.Context) {
	stats, err := h.quotes.Stats(c.Request.Context())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalQuotes:     stats.TotalQuotes,
		TotalCategories: stats.TotalCategories,
	})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/categories", h.GetCategories)
	quotes.GET("/category/:category", h.GetCategoryQuotes)
	quotes.GET("/stats", h.GetStats)
}
