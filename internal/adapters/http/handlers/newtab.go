package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/adapters/http/dto"
	"github.com/bodhitab/quote-service/internal/app"
)

// NewTabHandler serves the new-tab start-up payload.
type NewTabHandler struct {
	newTab *app.NewTabService
}

// NewNewTabHandler creates a new-tab handler.
func NewNewTabHandler(newTab *app.NewTabService) *NewTabHandler {
	return &NewTabHandler{newTab: newTab}
}

// GetNewTab handles GET /api/v1/newtab
//
// @Summary Quote and favorites for a freshly opened tab
// @Tags newtab
// @Produce json
// @Success 200 {object} dto.NewTabResponse
// @Router /api/v1/newtab [get]
func (h *NewTabHandler) GetNewTab(c *gin.Context) {
	tab, err := h.newTab.Load(c.Request.Context())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTabResponse{
		Quote:     dto.NewRandomQuoteResponse(tab.Quote, tab.IsFavorite),
		Favorites: dto.NewQuoteResponses(tab.Favorites),
	})
}

// RegisterNewTabRoutes registers the new-tab route on the given router group.
func (h *NewTabHandler) RegisterNewTabRoutes(rg *gin.RouterGroup) {
	rg.GET("/newtab", h.GetNewTab)
}
