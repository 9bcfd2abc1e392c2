// Package acl provides the Anti-Corruption Layer between the remote quote
// API and the domain.
//
// Adapters in this package own three translations:
//
//   - Wire DTOs (unexported) to domain types, with sanitization of any text
//     that may later be rendered as HTML
//   - Client and HTTP status failures to domain errors
//   - Remote collection payloads to domain slices
//
// Error mapping:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 5xx, 429, transport failures, timeouts → [domain.ErrUnavailable]
//   - Malformed bodies → [domain.ErrUnavailable]
//   - Other 4xx → [domain.ErrUnavailable]; the API offers no client-side fix
//
// Nothing from the remote payload leaves this package untranslated.
package acl
