package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

// ErrUnknownBackend is returned by Open for an unsupported storage.backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store adapts a Backend to ports.KeyValueStore. Values are JSON documents.
// Every backend or codec failure is logged, counted, and degraded to
// absent/false; Estimate is the only method that reports an error.
type Store struct {
	backend Backend
	quota   int64
}

var (
	_ ports.KeyValueStore = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// NewStore wraps backend with a byte quota used by Estimate.
func NewStore(backend Backend, quota int64) *Store {
	return &Store{backend: backend, quota: quota}
}

// Open selects the backend named by cfg.Backend. Selection happens once;
// the choice is never re-probed.
func Open(ctx context.Context, cfg *config.StorageConfig) (*Store, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Backend {
	case config.StorageBackendSQLite:
		backend, err = OpenSQLite(ctx, cfg.SQLite.Path, cfg.Namespace)
	case config.StorageBackendLocal:
		backend, err = OpenLocal(cfg.Local.Path, cfg.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}

	logging.FromContext(ctx).Info("storage opened",
		slog.String("backend", backend.Name()),
		slog.String("namespace", cfg.Namespace),
	)

	return NewStore(backend, cfg.QuotaBytes), nil
}

// Get implements ports.KeyValueStore.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}

	if err != nil {
		s.fail(ctx, "get", key, err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.fail(ctx, "decode", key, err)
		return false
	}

	logging.Trace(ctx, "storage get", slog.String("key", key), slog.Int("bytes", len(data)))

	return true
}

// Set implements ports.KeyValueStore.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail(ctx, "encode", key, err)
		return false
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.fail(ctx, "set", key, err)
		return false
	}

	logging.Trace(ctx, "storage set", slog.String("key", key), slog.Int("bytes", len(data)))

	return true
}

// Remove implements ports.KeyValueStore.
func (s *Store) Remove(ctx context.Context, key string) bool {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.fail(ctx, "remove", key, err)
		return false
	}

	return true
}

// Clear implements ports.KeyValueStore.
func (s *Store) Clear(ctx context.Context) bool {
	if err := s.backend.Clear(ctx); err != nil {
		s.fail(ctx, "clear", "", err)
		return false
	}

	return true
}

// Estimate implements ports.KeyValueStore.
func (s *Store) Estimate(ctx context.Context) (ports.StorageEstimate, error) {
	usage, err := s.backend.Size(ctx)
	if err != nil {
		return ports.StorageEstimate{}, fmt.Errorf("estimating %s storage: %w", s.backend.Name(), err)
	}

	return ports.StorageEstimate{Usage: usage, Quota: s.quota}, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "storage-" + s.backend.Name()
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) fail(ctx context.Context, op, key string, err error) {
	telemetry.StorageErrors.WithLabelValues(s.backend.Name(), op).Inc()

	logging.FromContext(ctx).Warn("storage operation failed",
		slog.String("backend", s.backend.Name()),
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
