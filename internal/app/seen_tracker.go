package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/ports"
)

// SeenQuotesKey is the store key holding the seen-set as a JSON array of
// dedup keys.
const SeenQuotesKey = "bodhitab_seen_quotes"

// RandomSource picks an index in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// SeenTracker rotates through the bundled catalog without repeats. Once every
// entry has been shown the seen-set is cleared in one step and rotation
// starts over.
type SeenTracker struct {
	store ports.KeyValueStore

	mu     sync.Mutex
	rng    RandomSource
	loaded bool
	order  []string
	seen   map[string]struct{}
}

// NewSeenTracker creates a tracker persisting to store. A nil rng uses a
// randomly seeded PCG source.
func NewSeenTracker(store ports.KeyValueStore, rng RandomSource) *SeenTracker {
	if store == nil {
		panic("app: SeenTracker requires a KeyValueStore")
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // quote rotation, not security
	}

	return &SeenTracker{
		store: store,
		rng:   rng,
		seen:  make(map[string]struct{}),
	}
}

// PickLocal returns a catalog quote not yet shown in the current cycle and
// records it. When none remain the set is cleared and persisted empty, and a
// uniformly random catalog entry is returned without being recorded.
func (t *SeenTracker) PickLocal(ctx context.Context) domain.Quote {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.loadLocked(ctx)

	catalog := domain.Catalog()

	unseen := make([]domain.Quote, 0, len(catalog))
	for _, q := range catalog {
		if _, ok := t.seen[q.Key()]; !ok {
			unseen = append(unseen, q)
		}
	}

	if len(unseen) == 0 {
		logging.FromContext(ctx).Info("all catalog quotes shown, resetting rotation",
			slog.Int("catalog_size", len(catalog)))

		t.order = nil
		t.seen = make(map[string]struct{})
		t.persistLocked(ctx)

		return catalog[t.rng.IntN(len(catalog))]
	}

	picked := unseen[t.rng.IntN(len(unseen))]

	t.order = append(t.order, picked.Key())
	t.seen[picked.Key()] = struct{}{}
	t.persistLocked(ctx)

	return picked
}

// SeenCount reports how many catalog entries the current cycle has shown.
func (t *SeenTracker) SeenCount(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.loadLocked(ctx)

	return len(t.seen)
}

// loadLocked reads the persisted set once. A missing or unreadable value
// starts an empty cycle.
func (t *SeenTracker) loadLocked(ctx context.Context) {
	if t.loaded {
		return
	}

	t.loaded = true

	var keys []string
	if !t.store.Get(ctx, SeenQuotesKey, &keys) {
		return
	}

	for _, k := range keys {
		if _, dup := t.seen[k]; dup {
			continue
		}

		t.seen[k] = struct{}{}
		t.order = append(t.order, k)
	}
}

func (t *SeenTracker) persistLocked(ctx context.Context) {
	keys := t.order
	if keys == nil {
		keys = []string{}
	}

	// Failures are logged by the store; the in-memory cycle continues.
	t.store.Set(ctx, SeenQuotesKey, keys)
}
