package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/domain"
)

func TestQuoteRequest_ToDomain(t *testing.T) {
	q := QuoteRequest{Text: "Be water.", Category: "change"}.ToDomain()

	assert.Equal(t, domain.Quote{Text: "Be water.", Author: domain.DefaultAuthor, Category: "change"}, q)
	assert.Equal(t, "Be water.|Unknown", FavoriteCheckQuery{Text: "Be water."}.ToDomain().Key())
}

func TestNewQuoteResponse(t *testing.T) {
	t.Run("unsaved quote omits savedAt", func(t *testing.T) {
		raw, err := json.Marshal(NewQuoteResponse(domain.Quote{Text: "t", Author: "a"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"t","author":"a"}`, string(raw))
	})

	t.Run("saved quote", func(t *testing.T) {
		savedAt := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

		resp := NewQuoteResponse(domain.Quote{ID: 3, Text: "t", Author: "a", Category: "life", SavedAt: savedAt})

		require.NotNil(t, resp.SavedAt)
		assert.Equal(t, savedAt, *resp.SavedAt)
		assert.Equal(t, int64(3), resp.ID)
	})

	t.Run("nil slice becomes empty array", func(t *testing.T) {
		raw, err := json.Marshal(NewQuoteResponses(nil))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})
}

func TestNewRandomQuoteResponse(t *testing.T) {
	resp := NewRandomQuoteResponse(app.ResolvedQuote{
		Quote:  domain.Quote{Text: "t", Author: "a"},
		Source: app.SourceLocal,
	}, true)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"t","author":"a","source":"local","isFavorite":true}`, string(raw))
}
