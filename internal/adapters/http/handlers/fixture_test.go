package handlers

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bodhitab/quote-service/internal/adapters/storage"
	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/mocks"
)

var remoteQuote = &domain.Quote{
	ID:       7,
	Text:     "The obstacle is the way.",
	Author:   "Marcus Aurelius",
	Category: "resilience",
}

type handlerFixture struct {
	client    *mocks.MockQuoteClient
	conn      *mocks.MockConnectivity
	favorites *app.FavoritesService
	engine    *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	backend, err := storage.OpenLocal("", "test")
	require.NoError(t, err)

	store := storage.NewStore(backend, 1<<20)

	f := &handlerFixture{
		client: mocks.NewMockQuoteClient(t),
		conn:   mocks.NewMockConnectivity(t),
		engine: gin.New(),
	}

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Client:       f.client,
		Connectivity: f.conn,
		Seen:         app.NewSeenTracker(store, rand.New(rand.NewPCG(3, 5))),
		FetchTimeout: 100 * time.Millisecond,
	})
	f.favorites = app.NewFavoritesService(app.FavoritesServiceConfig{Store: store, Now: tickingClock()})

	api := f.engine.Group("/api/v1")
	NewQuoteHandler(quotes, f.favorites).RegisterQuoteRoutes(api)
	NewFavoritesHandler(f.favorites).RegisterFavoritesRoutes(api)
	NewNewTabHandler(app.NewNewTabService(quotes, f.favorites)).RegisterNewTabRoutes(api)

	return f
}

// tickingClock advances one second per call so saved favorites get
// distinct timestamps.
func tickingClock() func() time.Time {
	var ticks atomic.Int64

	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return out
}

// offline pins the connectivity mock for the whole test.
func (f *handlerFixture) offline() {
	f.conn.EXPECT().Online(mock.Anything).Return(false).Maybe()
}

func (f *handlerFixture) online() {
	f.conn.EXPECT().Online(mock.Anything).Return(true).Maybe()
}
