package dto

import (
	"time"

	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/domain"
)

// QuoteRequest identifies a quote in favorites requests.
type QuoteRequest struct {
	Text     string `json:"text"     validate:"required,notempty,max=2000"`
	Author   string `json:"author"   validate:"max=200"`
	Category string `json:"category" validate:"omitempty,category,max=50"`
}

// ToDomain converts the request into a domain quote with defaults applied.
func (r QuoteRequest) ToDomain() domain.Quote {
	return domain.Quote{
		Text:     r.Text,
		Author:   r.Author,
		Category: r.Category,
	}.WithDefaults()
}

// FavoriteCheckQuery is the query string of GET /favorites/check.
type FavoriteCheckQuery struct {
	Text   string `form:"text"   json:"text"   validate:"required,notempty"`
	Author string `form:"author" json:"author"`
}

// ToDomain converts the query into a domain quote with defaults applied.
func (q FavoriteCheckQuery) ToDomain() domain.Quote {
	return domain.Quote{Text: q.Text, Author: q.Author}.WithDefaults()
}

// CategoryParam is the path parameter of GET /quotes/category/:category.
type CategoryParam struct {
	Category string `uri:"category" json:"category" validate:"required,category,max=50"`
}

// QuoteResponse is the JSON form of a quote.
type QuoteResponse struct {
	ID       int64      `json:"id,omitempty"`
	Text     string     `json:"text"`
	Author   string     `json:"author"`
	Category string     `json:"category,omitempty"`
	SavedAt  *time.Time `json:"savedAt,omitempty"`
}

// NewQuoteResponse converts a domain quote to its JSON form.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:       q.ID,
		Text:     q.Text,
		Author:   q.Author,
		Category: q.Category,
	}

	if q.IsSaved() {
		savedAt := q.SavedAt
		resp.SavedAt = &savedAt
	}

	return resp
}

// NewQuoteResponses converts a slice of domain quotes. Never returns nil.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, NewQuoteResponse(q))
	}

	return out
}

// RandomQuoteResponse is a resolved quote plus where it came from.
type RandomQuoteResponse struct {
	QuoteResponse

	Source     app.Source `json:"source"`
	IsFavorite bool       `json:"isFavorite"`
}

// NewRandomQuoteResponse builds the response for a resolved quote.
func NewRandomQuoteResponse(rq app.ResolvedQuote, isFavorite bool) RandomQuoteResponse {
	return RandomQuoteResponse{
		QuoteResponse: NewQuoteResponse(rq.Quote),
		Source:        rq.Source,
		IsFavorite:    isFavorite,
	}
}

// CategoriesResponse lists the known quote categories.
type CategoriesResponse struct {
	Categories []string   `json:"categories"`
	Source     app.Source `json:"source"`
}

// CategoryQuotesResponse lists the quotes of one category.
type CategoryQuotesResponse struct {
	Category string          `json:"category"`
	Quotes   []QuoteResponse `json:"quotes"`
	Source   app.Source      `json:"source"`
}

// StatsResponse reports remote quote API statistics.
type StatsResponse struct {
	TotalQuotes     int `json:"totalQuotes"`
	TotalCategories int `json:"totalCategories"`
}

// FavoriteCheckResponse answers GET /favorites/check.
type FavoriteCheckResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// NewTabResponse is everything the new-tab page needs on start-up.
type NewTabResponse struct {
	Quote     RandomQuoteResponse `json:"quote"`
	Favorites []QuoteResponse     `json:"favorites"`
}
