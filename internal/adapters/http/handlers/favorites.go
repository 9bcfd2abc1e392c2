package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/adapters/http/dto"
	"github.com/bodhitab/quote-service/internal/app"
)

// FavoritesHandler handles the favorites collection endpoints.
type FavoritesHandler struct {
	favorites *app.FavoritesService
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(favorites *app.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// ListFavorites handles GET /api/v1/favorites
// Pages through favorites in insertion order.
//
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites [get]
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	page, err := dto.PageFavorites(h.favorites.List(c.Request.Context()), &req)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid cursor")
		return
	}

	c.JSON(http.StatusOK, page)
}

// SaveFavorite handles POST /api/v1/favorites
// Saving a quote that is already a favorite returns the stored entry.
//
// @Summary Save a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Quote to save"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *FavoritesHandler) SaveFavorite(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	saved, err := h.favorites.Save(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(saved))
}

// RemoveFavorite handles DELETE /api/v1/favorites
//
// @Summary Remove a favorite
// @Tags favorites
// @Accept json
// @Param quote body dto.QuoteRequest true "Quote to remove"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites [delete]
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), req.ToDomain()); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearFavorites handles DELETE /api/v1/favorites/all
//
// @Summary Remove every favorite
// @Tags favorites
// @Success 204
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/favorites/all [delete]
func (h *FavoritesHandler) ClearFavorites(c *gin.Context) {
	if err := h.favorites.Clear(c.Request.Context()); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckFavorite handles GET /api/v1/favorites/check?text=&author=
//
// @Summary Check whether a quote is a favorite
// @Tags favorites
// @Produce json
// @Param text query string true "Quote text"
// @Param author query string false "Quote author"
// @Success 200 {object} dto.FavoriteCheckResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites/check [get]
func (h *FavoritesHandler) CheckFavorite(c *gin.Context) {
	var query dto.FavoriteCheckQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	isFavorite, err := h.favorites.IsFavorite(c.Request.Context(), query.ToDomain())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteCheckResponse{IsFavorite: isFavorite})
}

// RegisterFavoritesRoutes registers favorites routes on the given router group.
func (h *FavoritesHandler) RegisterFavoritesRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	favorites.GET("", h.ListFavorites)
	favorites.POST("", h.SaveFavorite)
	favorites.DELETE("", h.RemoveFavorite)
	favorites.DELETE("/all", h.ClearFavorites)
	favorites.GET("/check", h.CheckFavorite)
}
