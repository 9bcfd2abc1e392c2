package acl

import (
	"context"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/domain"
)

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
	policy      *bluemonday.Policy
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
		policy:      bluemonday.StrictPolicy(),
	}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// GetJSON performs a GET, decodes the body into dst, and maps any failure
// to a domain error.
func (a *BaseAdapter) GetJSON(ctx context.Context, path, operation, entity, id string, dst any) error {
	if err := a.client.GetJSON(ctx, path, dst); err != nil {
		return MapClientError(err, a.serviceName, operation, entity, id)
	}

	return nil
}

// Sanitize strips all markup from s and returns plain text. The policy
// escapes what survives, so the entities are decoded again: consumers render
// quotes as text and dedup compares them against the bundled catalog.
func (a *BaseAdapter) Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(a.policy.Sanitize(s)))
}

// SanitizeQuote builds a domain quote from untrusted text and author.
// An empty text after sanitization is reported as a validation error.
func (a *BaseAdapter) SanitizeQuote(id int64, text, author, category string) (*domain.Quote, error) {
	q := domain.Quote{
		ID:       id,
		Text:     a.Sanitize(text),
		Author:   a.Sanitize(author),
		Category: strings.ToLower(a.Sanitize(category)),
	}.WithDefaults()

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return &q, nil
}

// Translator translates an external DTO to a domain type, validating it.
type Translator[External any, Domain any] func(ext *External) (*Domain, error)

// TranslateValid applies translate to every item and drops the ones that
// fail. It returns the number of dropped items.
func TranslateValid[E any, D any](items []E, translate Translator[E, D]) ([]D, int) {
	result := make([]D, 0, len(items))
	dropped := 0

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			dropped++
			continue
		}

		result = append(result, *translated)
	}

	return result, dropped
}
