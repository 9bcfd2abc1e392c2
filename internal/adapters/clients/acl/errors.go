package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/domain"
)

// errorBody covers the error shapes the quote API has returned:
// {"error":"..."}, {"error":{"message":"..."}} and {"message":"..."}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// ParseErrorMessage extracts a human-readable message from an error body.
// Returns "" when the body carries none.
func ParseErrorMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return ""
	}

	if len(eb.Error) > 0 {
		var s string
		if err := json.Unmarshal(eb.Error, &s); err == nil && s != "" {
			return s
		}

		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(eb.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}

	return eb.Message
}

// MapClientError translates an error from clients.Client into a domain error.
//
// entity and id describe the requested resource and are only used when the
// API answers 404.
func MapClientError(err error, serviceName, operation, entity, id string) error {
	if err == nil {
		return nil
	}

	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) {
		return mapStatus(statusErr, serviceName, operation, entity, id)
	}

	switch {
	case errors.Is(err, clients.ErrDecode):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("malformed response during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, errors.Unwrap(err)))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func mapStatus(e *clients.StatusError, serviceName, operation, entity, id string) error {
	message := ParseErrorMessage(e.Body)
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", operation, e.StatusCode)
	}

	switch {
	case e.StatusCode == http.StatusNotFound:
		return domain.NewNotFoundError(entity, id)

	case e.StatusCode == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	default:
		return domain.NewUnavailableError(serviceName, message)
	}
}
