// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/bodhitab/quote-service/internal/domain"
)

// QuoteClient fetches quotes from the remote quote API.
//
// Implementations translate the remote wire format into domain.Quote and
// sanitize any text before it leaves the adapter.
type QuoteClient interface {
	// GetRandomQuote issues exactly one request for a random quote.
	// Returns a domain.ErrUnavailable-wrapping error on any failure.
	GetRandomQuote(ctx context.Context) (*domain.Quote, error)

	// GetQuotesByCategory returns the remote quotes filed under category.
	GetQuotesByCategory(ctx context.Context, category string) ([]domain.Quote, error)

	// GetCategories lists the categories known to the remote API.
	GetCategories(ctx context.Context) ([]string, error)

	// GetStats returns the remote API's catalog statistics.
	GetStats(ctx context.Context) (*QuoteStats, error)
}

// QuoteStats summarizes the remote catalog.
type QuoteStats struct {
	TotalQuotes     int
	TotalCategories int
}

// Connectivity reports whether the network is believed to be reachable.
// Callers skip remote work entirely when it reports false.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// KeyValueStore is the persistence contract for small JSON documents.
//
// It never propagates a fault: failures are logged by the implementation and
// degrade to "absent" for reads and false for writes.
type KeyValueStore interface {
	// Get decodes the value stored under key into dst.
	// Returns false when the key is absent or the read fails.
	Get(ctx context.Context, key string, dst any) bool

	// Set encodes value and stores it under key.
	Set(ctx context.Context, key string, value any) bool

	// Remove deletes key. Removing an absent key succeeds.
	Remove(ctx context.Context, key string) bool

	// Clear deletes every key in the store's namespace.
	Clear(ctx context.Context) bool

	// Estimate reports bytes used against the quota.
	Estimate(ctx context.Context) (StorageEstimate, error)
}

// StorageEstimate is a snapshot of store usage.
type StorageEstimate struct {
	Usage int64
	Quota int64
}

// UsageRatio returns Usage/Quota, or 0 when the quota is unknown.
func (e StorageEstimate) UsageRatio() float64 {
	if e.Quota <= 0 {
		return 0
	}

	return float64(e.Usage) / float64(e.Quota)
}
