// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"net/http"
	"runtime"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

// BuildInfo describes the running binary. Version, commit and build time are
// injected with ldflags.
type BuildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"buildTime"`
	GoVersion   string `json:"goVersion"`
	CatalogSize int    `json:"catalogSize"`
}

// NewBuildInfo fills in the Go version and the bundled catalog size.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:     version,
		Commit:      commit,
		BuildTime:   buildTime,
		GoVersion:   runtime.Version(),
		CatalogSize: domain.CatalogSize(),
	}
}

// HealthHandler serves the /-/ operational endpoints.
type HealthHandler struct {
	registry     ports.HealthRegistry
	connectivity ports.Connectivity
	buildInfo    BuildInfo
	now          func() time.Time
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithConnectivity reports the network flag in readiness responses.
func WithConnectivity(conn ports.Connectivity) HealthOption {
	return func(h *HealthHandler) { h.connectivity = conn }
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers 200 while the process runs. It checks no dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status      string                        `json:"status"`
	QuoteSource app.Source                    `json:"quoteSource"`
	Network     string                        `json:"network,omitempty"`
	Degraded    []string                      `json:"degraded,omitempty"`
	Checks      map[string]*ports.CheckResult `json:"checks,omitempty"`
	CheckedAt   time.Time                     `json:"checkedAt"`
}

// Readiness aggregates the registered checks. Only a failing critical check
// (storage) answers 503. Failing optional checks are listed under
// "degraded", and quoteSource tells which path new tabs will be served
// from: the remote API, or the bundled catalog while the API or the network
// is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	result := h.registry.CheckAll(ctx)

	resp := readinessResponse{
		Status:      string(result.Status),
		QuoteSource: app.SourceRemote,
		Checks:      result.Checks,
		CheckedAt:   h.now().UTC(),
	}

	for name, check := range result.Checks {
		if check.Optional && check.Status != ports.HealthStatusHealthy {
			resp.Degraded = append(resp.Degraded, name)
		}
	}

	slices.Sort(resp.Degraded)

	if len(resp.Degraded) > 0 {
		resp.QuoteSource = app.SourceLocal
	}

	if h.connectivity != nil {
		resp.Network = "online"
		if !h.connectivity.Online(ctx) {
			resp.Network = "offline"
			resp.QuoteSource = app.SourceLocal
		}
	}

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

// BuildInfoHandler serves /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// RegisterHealthRoutes registers live, ready, build and metrics on rg.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))
}

// RegisterHealthRoutesOnEngine mounts the health routes under /-.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}
