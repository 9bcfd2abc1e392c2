package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bodhitab/quote-service/internal/domain"
)

// NewTab is everything the new-tab page needs on start-up.
type NewTab struct {
	Quote      ResolvedQuote
	Favorites  []domain.Quote
	IsFavorite bool
}

// NewTabService assembles the start-up payload.
type NewTabService struct {
	quotes    *QuoteService
	favorites *FavoritesService
}

// NewNewTabService creates the start-up loader.
func NewNewTabService(quotes *QuoteService, favorites *FavoritesService) *NewTabService {
	return &NewTabService{quotes: quotes, favorites: favorites}
}

// Load resolves a quote and reads the favorites concurrently, then marks
// whether the quote is already a favorite. Neither half fails on its own;
// the only error is the caller giving up.
func (s *NewTabService) Load(ctx context.Context) (*NewTab, error) {
	var (
		tab NewTab
		g   errgroup.Group
	)

	g.Go(func() error {
		tab.Quote = s.quotes.GetQuote(ctx)
		return nil
	})

	g.Go(func() error {
		tab.Favorites = s.favorites.List(ctx)
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading new tab: %w", err)
	}

	tab.IsFavorite = domain.ContainsQuote(tab.Favorites, tab.Quote.Quote)

	return &tab, nil
}
