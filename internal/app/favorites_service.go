package app

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

// FavoritesKey is the store key holding the favorites list.
const FavoritesKey = "bodhitab_favorites"

// Trim policy: above favoritesTrimThreshold entries, with the store more than
// quotaCleanupRatio full, only the favoritesTrimKeep newest survive.
const (
	favoritesTrimThreshold = 100
	favoritesTrimKeep      = 50
	quotaCleanupRatio      = 0.9
)

// storedFavorite is the persisted shape. SavedAt is epoch milliseconds.
type storedFavorite struct {
	ID       int64  `json:"id,omitempty"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	SavedAt  int64  `json:"savedAt"`
}

func toStored(q domain.Quote) storedFavorite {
	return storedFavorite{
		ID:       q.ID,
		Text:     q.Text,
		Author:   q.Author,
		Category: q.Category,
		SavedAt:  savedAtMillis(q.SavedAt),
	}
}

func savedAtMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func (f storedFavorite) toDomain() domain.Quote {
	q := domain.Quote{
		ID:       f.ID,
		Text:     f.Text,
		Author:   f.Author,
		Category: f.Category,
	}

	if f.SavedAt > 0 {
		q.SavedAt = time.UnixMilli(f.SavedAt).UTC()
	}

	return q
}

// FavoritesServiceConfig contains the favorites service dependencies.
type FavoritesServiceConfig struct {
	Store ports.KeyValueStore

	// Now stamps SavedAt. Nil uses time.Now.
	Now func() time.Time
}

// FavoritesService owns the favorites list: ordered, deduplicated by
// (text, author), written through to the store after every mutation.
// Read-modify-write sequences are serialized by mu.
type FavoritesService struct {
	store ports.KeyValueStore
	now   func() time.Time
	mu    sync.Mutex
}

// NewFavoritesService creates a favorites service.
func NewFavoritesService(cfg FavoritesServiceConfig) *FavoritesService {
	if cfg.Store == nil {
		panic("app: FavoritesService requires a KeyValueStore")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FavoritesService{store: cfg.Store, now: now}
}

// List returns the persisted favorites in insertion order. A missing key or
// a failed read yields an empty list.
func (s *FavoritesService) List(ctx context.Context) []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

type saveResult struct {
	quote     domain.Quote
	duplicate bool
}

// Save appends q with SavedAt set to now and confirms the write by reading it
// back. Saving a quote already present is a successful no-op returning the
// stored entry. A write that is not visible on read-back fails with
// domain.ErrWriteVerification.
func (s *FavoritesService) Save(ctx context.Context, q domain.Quote) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q = q.WithDefaults()

	res, err := Execute(ctx, Operation[domain.Quote, saveResult]{
		Name: "favorites.save",
		Validate: func(_ context.Context, q domain.Quote) error {
			return q.Validate()
		},
		Perform: func(ctx context.Context, q domain.Quote) (saveResult, error) {
			s.cleanupLocked(ctx)

			favorites := s.load(ctx)
			for _, existing := range favorites {
				if existing.SameAs(q) {
					return saveResult{quote: existing, duplicate: true}, nil
				}
			}

			q.SavedAt = s.now().UTC().Truncate(time.Millisecond)
			s.persist(ctx, append(favorites, q))

			return saveResult{quote: q}, nil
		},
		Verify: func(ctx context.Context, q domain.Quote, res saveResult) error {
			if res.duplicate {
				return nil
			}

			if !domain.ContainsQuote(s.load(ctx), q) {
				return domain.NewWriteVerificationError(FavoritesKey)
			}

			return nil
		},
	}, q)
	if err != nil {
		return domain.Quote{}, err
	}

	return res.quote, nil
}

// Remove deletes the entry matching q's (text, author) and persists the
// result even when nothing matched.
func (s *FavoritesService) Remove(ctx context.Context, q domain.Quote) error {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.load(ctx)
	kept := slices.DeleteFunc(favorites, q.SameAs)
	s.persist(ctx, kept)

	return nil
}

// IsFavorite reports whether q is in the list.
func (s *FavoritesService) IsFavorite(ctx context.Context, q domain.Quote) (bool, error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return false, err
	}

	return domain.ContainsQuote(s.List(ctx), q), nil
}

// Clear removes every favorite.
func (s *FavoritesService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Remove(ctx, FavoritesKey) {
		return domain.NewUnavailableError("storage", "favorites could not be cleared")
	}

	return nil
}

// MaybeCleanup trims the list when the store is nearly full. Save runs it
// before every insert.
func (s *FavoritesService) MaybeCleanup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupLocked(ctx)
}

func (s *FavoritesService) cleanupLocked(ctx context.Context) {
	logger := logging.FromContext(ctx)

	estimate, err := s.store.Estimate(ctx)
	if err != nil {
		logger.Warn("storage estimate unavailable, skipping cleanup", slog.String("error", err.Error()))
		return
	}

	if estimate.UsageRatio() <= quotaCleanupRatio {
		return
	}

	favorites := s.load(ctx)
	if len(favorites) <= favoritesTrimThreshold {
		return
	}

	trimmed := TrimFavorites(favorites, favoritesTrimKeep)
	s.persist(ctx, trimmed)

	dropped := len(favorites) - len(trimmed)
	telemetry.FavoritesTrimmed.Add(float64(dropped))

	logger.Info("favorites trimmed for storage quota",
		slog.Int("dropped", dropped),
		slog.Int64("usage", estimate.Usage),
		slog.Int64("quota", estimate.Quota),
	)
}

// TrimFavorites keeps the keep entries with the latest SavedAt, in their
// original relative order.
func TrimFavorites(favorites []domain.Quote, keep int) []domain.Quote {
	if len(favorites) <= keep {
		return favorites
	}

	idx := make([]int, len(favorites))
	for i := range idx {
		idx[i] = i
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(savedAtMillis(favorites[b].SavedAt), savedAtMillis(favorites[a].SavedAt))
	})

	survivors := idx[:keep]
	slices.Sort(survivors)

	out := make([]domain.Quote, 0, keep)
	for _, i := range survivors {
		out = append(out, favorites[i])
	}

	return out
}

func (s *FavoritesService) load(ctx context.Context) []domain.Quote {
	var stored []storedFavorite
	if !s.store.Get(ctx, FavoritesKey, &stored) {
		return []domain.Quote{}
	}

	favorites := make([]domain.Quote, 0, len(stored))
	for _, f := range stored {
		favorites = append(favorites, f.toDomain())
	}

	return favorites
}

// persist writes the list. A failed write is logged by the store and dropped;
// Save detects it on read-back.
func (s *FavoritesService) persist(ctx context.Context, favorites []domain.Quote) {
	stored := make([]storedFavorite, 0, len(favorites))
	for _, q := range favorites {
		stored = append(stored, toStored(q))
	}

	s.store.Set(ctx, FavoritesKey, stored)
}
