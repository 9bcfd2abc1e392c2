package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/bodhitab/quote-service/internal/domain"
)

// Page size bounds for GET /api/v1/favorites.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the query of a favorites page request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// FavoritesCursor marks the last favorite of a page. Key is the entry's
// dedup key; SavedAt (unix ms) positions the next page when that entry was
// removed in between.
type FavoritesCursor struct {
	Key     string `json:"k"`
	SavedAt int64  `json:"t"`
}

// Encode returns the opaque form handed to clients.
func (c FavoritesCursor) Encode() string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeFavoritesCursor parses a cursor produced by Encode.
func DecodeFavoritesCursor(encoded string) (FavoritesCursor, error) {
	var c FavoritesCursor

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return c, ErrInvalidCursor
	}

	if err := json.Unmarshal(raw, &c); err != nil || c.Key == "" {
		return FavoritesCursor{}, ErrInvalidCursor
	}

	return c, nil
}

// resumeIndex returns the index of the first favorite after the cursor.
func (c FavoritesCursor) resumeIndex(favorites []domain.Quote) int {
	for i, q := range favorites {
		if q.Key() == c.Key {
			return i + 1
		}
	}

	for i, q := range favorites {
		if q.SavedAt.UnixMilli() > c.SavedAt {
			return i
		}
	}

	return len(favorites)
}

// PaginatedResponse is one page of a list endpoint.
type PaginatedResponse[T any] struct {
	// Items is never null; an exhausted list yields [].
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`
}

// PageFavorites cuts the page described by req out of the full favorites
// list, which is in insertion order.
func PageFavorites(favorites []domain.Quote, req *PaginationRequest) (*PaginatedResponse[QuoteResponse], error) {
	start := 0

	if req.Cursor != "" {
		cursor, err := DecodeFavoritesCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		start = cursor.resumeIndex(favorites)
	}

	end := min(start+req.GetLimit(), len(favorites))
	page := &PaginatedResponse[QuoteResponse]{
		Items:   NewQuoteResponses(favorites[start:end]),
		HasMore: end < len(favorites),
	}

	if page.HasMore {
		last := favorites[end-1]
		page.NextCursor = FavoritesCursor{Key: last.Key(), SavedAt: last.SavedAt.UnixMilli()}.Encode()
	}

	return page, nil
}
