// Package netstatus maintains the process-wide "network is reachable" flag
// consulted before every remote quote request.
package netstatus

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

const defaultInitialBackoff = time.Second

// Prober checks reachability of the quote API. acl.QuoteClient satisfies it.
type Prober interface {
	Check(ctx context.Context) error
}

// Config controls the monitor. It mirrors config.NetworkConfig.
type Config struct {
	Mode          string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	MaxBackoff    time.Duration
}

// ConfigFrom converts the loaded network section.
func ConfigFrom(cfg *config.NetworkConfig) Config {
	return Config{
		Mode:          cfg.Mode,
		ProbeInterval: cfg.ProbeInterval,
		ProbeTimeout:  cfg.ProbeTimeout,
		MaxBackoff:    cfg.MaxBackoff,
	}
}

// Monitor implements ports.Connectivity with an atomic flag.
//
// In "online" and "offline" modes the flag is pinned and Run returns at once.
// In "auto" mode Run probes every ProbeInterval while online; after a failed
// probe it re-probes on an exponential schedule capped at MaxBackoff until
// the API answers again. The flag starts online.
type Monitor struct {
	cfg    Config
	prober Prober
	online atomic.Bool
}

var _ ports.Connectivity = (*Monitor)(nil)

// New creates a monitor. prober may be nil when the mode is pinned.
func New(cfg Config, prober Prober) *Monitor {
	m := &Monitor{cfg: cfg, prober: prober}

	m.online.Store(cfg.Mode != config.NetworkModeOffline)
	telemetry.NetworkOnline.Set(boolGauge(m.online.Load()))

	return m
}

// Online implements ports.Connectivity.
func (m *Monitor) Online(_ context.Context) bool {
	return m.online.Load()
}

// Probe runs one reachability check and updates the flag. Pinned monitors
// ignore it and report their pinned state.
func (m *Monitor) Probe(ctx context.Context) bool {
	if m.cfg.Mode != config.NetworkModeAuto || m.prober == nil {
		return m.online.Load()
	}

	probeCtx := ctx
	if m.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc

		probeCtx, cancel = context.WithTimeout(ctx, m.cfg.ProbeTimeout)
		defer cancel()
	}

	err := m.prober.Check(probeCtx)
	if err != nil {
		// A caller that gave up says nothing about the network.
		if ctx.Err() != nil {
			return m.online.Load()
		}

		logging.Trace(ctx, "connectivity probe failed", slog.String("error", err.Error()))
	}

	m.set(ctx, err == nil)

	return err == nil
}

// Run drives the probe loop until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if m.cfg.Mode != config.NetworkModeAuto || m.prober == nil {
		return
	}

	schedule := m.newBackOff()

	for {
		wait := m.cfg.ProbeInterval
		if m.Probe(ctx) {
			schedule.Reset()
		} else {
			wait = m.retryDelay(schedule)
		}

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (m *Monitor) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = min(defaultInitialBackoff, m.cfg.MaxBackoff)
	b.MaxInterval = m.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	return b
}

// retryDelay applies the MaxBackoff cap after jitter.
func (m *Monitor) retryDelay(schedule backoff.BackOff) time.Duration {
	return min(schedule.NextBackOff(), m.cfg.MaxBackoff)
}

func (m *Monitor) set(ctx context.Context, online bool) {
	if m.online.Swap(online) == online {
		return
	}

	telemetry.NetworkOnline.Set(boolGauge(online))

	logging.FromContext(ctx).Info("connectivity changed", slog.Bool("online", online))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
