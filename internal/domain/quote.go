// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// DefaultAuthor is used when a quote arrives without an author.
const DefaultAuthor = "Unknown"

// keySeparator joins text and author into a dedup key.
const keySeparator = "|"

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the numeric identifier assigned by the remote quote service.
	// Zero for catalog quotes. Never used for equality.
	ID int64

	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category is an optional theme such as "wisdom" or "courage".
	Category string

	// SavedAt is set only when the quote is stored as a favorite.
	SavedAt time.Time
}

// Key returns the dedup key for the quote. Two quotes with the same text
// and author are the same quote regardless of ID, category, or SavedAt.
func (q Quote) Key() string {
	return q.Text + keySeparator + q.Author
}

// SameAs reports whether q and other share the (text, author) identity.
func (q Quote) SameAs(other Quote) bool {
	return q.Text == other.Text && q.Author == other.Author
}

// IsSaved reports whether the quote carries a favorite timestamp.
func (q Quote) IsSaved() bool {
	return !q.SavedAt.IsZero()
}

// Validate checks the invariants every quote must hold.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "is required")
	}

	return nil
}

// WithDefaults returns a copy of q with an empty author replaced by DefaultAuthor.
func (q Quote) WithDefaults() Quote {
	if strings.TrimSpace(q.Author) == "" {
		q.Author = DefaultAuthor
	}

	return q
}

// ContainsQuote reports whether quotes holds an entry with q's identity.
func ContainsQuote(quotes []Quote, q Quote) bool {
	for _, existing := range quotes {
		if existing.SameAs(q) {
			return true
		}
	}

	return false
}
