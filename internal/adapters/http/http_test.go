package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bodhitab/quote-service/internal/adapters/http/dto"
	"github.com/bodhitab/quote-service/internal/adapters/http/handlers"
	"github.com/bodhitab/quote-service/internal/adapters/http/middleware"
	"github.com/bodhitab/quote-service/internal/adapters/storage"
	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/mocks"
	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(host string, port int) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           host,
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

// newTestRouter wires the full API over an in-memory store with the quote
// API offline.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	backend, err := storage.OpenLocal("", "router-test")
	require.NoError(t, err)

	store := storage.NewStore(backend, 1<<20)

	conn := mocks.NewMockConnectivity(t)
	conn.EXPECT().Online(mock.Anything).Return(false).Maybe()

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Client:       mocks.NewMockQuoteClient(t),
		Connectivity: conn,
		Seen:         app.NewSeenTracker(store, rand.New(rand.NewPCG(1, 2))),
	})
	favorites := app.NewFavoritesService(app.FavoritesServiceConfig{Store: store})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(store))

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		ServiceName:      "router-test",
		Timeout:          5 * time.Second,
		HealthHandler:    handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "")),
		QuoteHandler:     handlers.NewQuoteHandler(quotes, favorites),
		FavoritesHandler: handlers.NewFavoritesHandler(favorites),
		NewTabHandler:    handlers.NewNewTabHandler(app.NewNewTabService(quotes, favorites)),
	})

	return engine
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		port         int
		expectedAddr string
	}{
		{"localhost", "localhost", 8080, "localhost:8080"},
		{"all interfaces", "0.0.0.0", 3000, "0.0.0.0:3000"},
		{"ipv6 loopback", "::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(testServerConfig(tt.host, tt.port), discardLogger())
			assert.Equal(t, tt.expectedAddr, srv.Addr())
		})
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	errCh, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, ok := <-errCh
	assert.False(t, ok, "error channel should be closed")
}

func TestServerStart_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port
	srv := New(testServerConfig("127.0.0.1", port), discardLogger())

	errCh, err := srv.Start()
	require.Error(t, err)
	assert.Nil(t, errCh)
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	cfg := testServerConfig("127.0.0.1", 0)
	cfg.MaxRequestSize = 100

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	tests := []struct {
		name string
		size int
		want int
	}{
		{"under limit", 50, http.StatusOK},
		{"over limit", 200, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(bytes.Repeat([]byte("a"), tt.size)))
			srv.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNewRouterConfig(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{RequestTimeout: 7 * time.Second},
		Telemetry: config.TelemetryConfig{ServiceName: "bodhitab"},
	}

	rc := NewRouterConfig(cfg)

	assert.Equal(t, "bodhitab", rc.ServiceName)
	assert.Equal(t, 7*time.Second, rc.Timeout)
	assert.Nil(t, rc.QuoteHandler)
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := newTestRouter(t)

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"GET /api/v1/quotes/random",
		"GET /api/v1/quotes/categories",
		"GET /api/v1/quotes/category/:category",
		"GET /api/v1/quotes/stats",
		"GET /api/v1/newtab",
		"GET /api/v1/favorites",
		"POST /api/v1/favorites",
		"DELETE /api/v1/favorites",
		"DELETE /api/v1/favorites/all",
		"GET /api/v1/favorites/check",
	} {
		assert.True(t, routes[want], "missing route: %s", want)
	}
}

func TestSetupRouter_RequestIDs(t *testing.T) {
	engine := newTestRouter(t)

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/-/live", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-123")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	})
}

func TestSetupRouter_ReadinessReportsStorage(t *testing.T) {
	engine := newTestRouter(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storage-local")
}

func TestSetupRouter_RecoversPanics(t *testing.T) {
	engine := newTestRouter(t)
	engine.GET("/api/v1/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
}

func TestSetupRouter_FavoritesRoundTrip(t *testing.T) {
	engine := newTestRouter(t)

	body := `{"text":"Simplicity is the ultimate sophistication.","author":"Leonardo da Vinci"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/newtab", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var tab dto.NewTabResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tab))
	require.Len(t, tab.Favorites, 1)
	assert.Equal(t, "Leonardo da Vinci", tab.Favorites[0].Author)
	assert.Equal(t, app.SourceLocal, tab.Quote.Source)
}
