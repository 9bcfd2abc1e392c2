package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodhitab/quote-service/internal/adapters/http/dto"
	"github.com/bodhitab/quote-service/internal/platform/logging"
)

const uuidV4Pattern = `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`

func init() {
	gin.SetMode(gin.TestMode)
}

// withLogger installs a buffer-backed context logger ahead of the middleware under test.
func withLogger(buf *bytes.Buffer) gin.HandlerFunc {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	type idCase struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
	}

	kinds := []idCase{
		{"request id", RequestID(), HeaderRequestID, GetRequestID, RequestIDFromContext},
		{"correlation id", CorrelationID(), HeaderCorrelationID, GetCorrelationID, CorrelationIDFromContext},
	}

	inputs := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generates when absent", incoming: "", keep: false},
		{name: "passes through caller id", incoming: "newtab-load-42", keep: true},
		{name: "replaces id with spaces", incoming: "bad id", keep: false},
		{name: "replaces oversized id", incoming: strings.Repeat("a", maxIDLength+1), keep: false},
		{name: "keeps id at max length", incoming: strings.Repeat("b", maxIDLength), keep: true},
	}

	for _, kind := range kinds {
		for _, in := range inputs {
			t.Run(kind.name+"/"+in.name, func(t *testing.T) {
				t.Parallel()

				var ginID, ctxID string

				router := gin.New()
				router.Use(kind.middleware)
				router.GET("/test", func(c *gin.Context) {
					ginID = kind.fromGin(c)
					ctxID = kind.fromCtx(c.Request.Context())
					c.Status(http.StatusOK)
				})

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				if in.incoming != "" {
					req.Header.Set(kind.header, in.incoming)
				}

				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				require.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, w.Header().Get(kind.header), ginID)
				assert.Equal(t, ginID, ctxID)

				if in.keep {
					assert.Equal(t, in.incoming, ginID)
				} else {
					assert.Regexp(t, uuidV4Pattern, ginID)
				}
			})
		}
	}
}

func TestIDMiddleware_EnrichesContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	router := gin.New()
	router.Use(withLogger(&buf), RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "correlation_id=corr-1")
}

func TestGetIDs_NotSet(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}

func TestValidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"abc-123", true},
		{"with space", false},
		{"tab\there", false},
		{"café", false},
		{"~!@#$%", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validID(tt.id))
		})
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		skip      []string
		wantLog   bool
		wantLevel string
	}{
		{name: "success at info", path: "/api/v1/quotes/random", status: http.StatusOK, wantLog: true, wantLevel: "level=INFO"},
		{name: "client error at warn", path: "/api/v1/favorites", status: http.StatusBadRequest, wantLog: true, wantLevel: "level=WARN"},
		{name: "server error at error", path: "/api/v1/favorites", status: http.StatusInternalServerError, wantLog: true, wantLevel: "level=ERROR"},
		{name: "skips operational paths", path: "/-/ready", status: http.StatusOK, wantLog: false},
		{name: "skips configured path", path: "/api/v1/newtab", status: http.StatusOK, skip: []string{"/api/v1/newtab"}, wantLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Logging(tt.skip...))
			router.Any(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path+"?limit=5", nil))

			require.Equal(t, tt.status, w.Code)

			out := buf.String()
			if !tt.wantLog {
				assert.Empty(t, out)
				return
			}

			assert.Contains(t, out, "request started")
			assert.Contains(t, out, "request completed")
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "limit=5")
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panic becomes 500 envelope and is logged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		router := gin.New()
		router.Use(withLogger(&buf), Recovery())
		router.GET("/test", func(_ *gin.Context) { panic("catalog exploded") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
		assert.NotContains(t, w.Body.String(), "catalog exploded")

		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "catalog exploded")
	})

	t.Run("panic after write keeps original status", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets context deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(5 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("expired deadline without response yields timeout envelope", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		require.Equal(t, http.StatusGatewayTimeout, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
	})

	t.Run("handler response wins after deadline", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.JSON(http.StatusOK, gin.H{"source": "local"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "local")
	})
}
