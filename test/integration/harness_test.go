//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/adapters/clients/acl"
	httpadapter "github.com/bodhitab/quote-service/internal/adapters/http"
	"github.com/bodhitab/quote-service/internal/adapters/http/handlers"
	"github.com/bodhitab/quote-service/internal/adapters/netstatus"
	"github.com/bodhitab/quote-service/internal/adapters/storage"
	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/ports"
)

// fakeQuoteAPI stands in for the remote quotes API. Requests are counted
// per path; Down makes every endpoint answer 503.
type fakeQuoteAPI struct {
	server *httptest.Server
	down   atomic.Bool
	random atomic.Int64
	quote  atomic.Value // quotePayload
}

type quotePayload struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

func newFakeQuoteAPI() *fakeQuoteAPI {
	f := &fakeQuoteAPI{}
	f.quote.Store(quotePayload{ID: 1, Text: "Remote wisdom.", Author: "Remote Sage", Category: "wisdom"})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /quotes/random", func(w http.ResponseWriter, _ *http.Request) {
		f.random.Add(1)
		f.writeJSON(w, f.quote.Load())
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, _ *http.Request) {
		f.writeJSON(w, map[string]any{"categories": []string{"Wisdom", "Life"}})
	})
	mux.HandleFunc("GET /quotes/category/{category}", func(w http.ResponseWriter, r *http.Request) {
		f.writeJSON(w, map[string]any{"quotes": []quotePayload{
			{ID: 9, Text: "From the " + r.PathValue("category") + " shelf.", Author: "Librarian"},
		}})
	})
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		f.writeJSON(w, map[string]int{"totalQuotes": 1500, "totalCategories": 18})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		f.writeJSON(w, map[string]string{"status": "ok"})
	})

	f.server = httptest.NewServer(mux)

	return f
}

func (f *fakeQuoteAPI) writeJSON(w http.ResponseWriter, v any) {
	if f.down.Load() {
		http.Error(w, `{"error":"maintenance"}`, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeQuoteAPI) Close() { f.server.Close() }

// service is the full quote service wired the way cmd/service does it,
// served from an httptest server.
type service struct {
	API       *fakeQuoteAPI
	Store     *storage.Store
	Monitor   *netstatus.Monitor
	Seen      *app.SeenTracker
	Quotes    *app.QuoteService
	Favorites *app.FavoritesService
	server    *httptest.Server
}

type serviceOptions struct {
	dataDir     string
	networkMode string
}

func startService(opts serviceOptions) (*service, error) {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := newFakeQuoteAPI()

	if opts.networkMode == "" {
		opts.networkMode = config.NetworkModeOnline
	}

	store, err := storage.Open(context.Background(), &config.StorageConfig{
		Backend:    config.StorageBackendSQLite,
		Namespace:  "integration",
		QuotaBytes: config.DefaultStorageQuotaBytes,
		SQLite:     config.SQLiteStorageConfig{Path: filepath.Join(opts.dataDir, "bodhitab.db")},
	})
	if err != nil {
		api.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	httpClient, err := acl.NewQuoteHTTPClient(clients.Config{
		BaseURL:     api.server.URL,
		ServiceName: "bodhitab-api",
		Timeout:     2 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		api.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: httpClient, Logger: logger})
	monitor := netstatus.New(netstatus.Config{
		Mode:          opts.networkMode,
		ProbeInterval: time.Second,
		ProbeTimeout:  time.Second,
		MaxBackoff:    time.Second,
	}, quoteClient)

	registry := ports.NewHealthRegistry()
	_ = registry.Register(store)
	_ = registry.RegisterOptional(quoteClient)

	seen := app.NewSeenTracker(store, nil)
	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Client:       quoteClient,
		Connectivity: monitor,
		Seen:         seen,
		FetchTimeout: time.Second,
	})
	favorites := app.NewFavoritesService(app.FavoritesServiceConfig{Store: store})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		ServiceName:      "bodhitab-integration",
		Timeout:          5 * time.Second,
		HealthHandler:    handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", ""), handlers.WithConnectivity(monitor)),
		QuoteHandler:     handlers.NewQuoteHandler(quotes, favorites),
		FavoritesHandler: handlers.NewFavoritesHandler(favorites),
		NewTabHandler:    handlers.NewNewTabHandler(app.NewNewTabService(quotes, favorites)),
	})

	return &service{
		API:       api,
		Store:     store,
		Monitor:   monitor,
		Seen:      seen,
		Quotes:    quotes,
		Favorites: favorites,
		server:    httptest.NewServer(engine),
	}, nil
}

// URL is the base URL of the running service.
func (s *service) URL() string { return s.server.URL }

// Close stops the service, the fake API, and the store.
func (s *service) Close() {
	s.server.Close()
	s.API.Close()
	_ = s.Store.Close()
}
