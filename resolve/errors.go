// Package resolve turns playback sources into validated stream URLs.
package resolve

import (
	"fmt"
	"strings"
)

// Category is the machine-readable classification of a resolution failure.
type Category string

const (
	// CategoryAuth marks a rejected or missing playback token (HTTP 401).
	CategoryAuth Category = "auth"
	// CategoryNotFound marks an unknown playback id (HTTP 404).
	CategoryNotFound Category = "not-found"
	// CategoryNotReady marks an asset still being prepared (HTTP 400, "ready" message).
	CategoryNotReady Category = "not-ready"
	// CategoryTokenNotAllowed marks a token presented to an endpoint that does not accept one.
	CategoryTokenNotAllowed Category = "token-not-allowed"
	// CategoryValidation marks per-field constraint rejections (HTTP 422).
	CategoryValidation Category = "validation"
	// CategoryNetwork marks transport-level failures where no HTTP response was received.
	CategoryNetwork Category = "network"
	// CategoryGeneric marks every other non-success response.
	CategoryGeneric Category = "generic"
)

// FieldError describes one rejected query constraint from a validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed result of a failed source resolution.
// Classified HTTP outcomes are returned as *Error values; only transport
// failures carry CategoryNetwork.
type Error struct {
	Category Category     `json:"category"`
	Message  string       `json:"message"`
	Status   int          `json:"status,omitempty"`
	Fields   []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolve: %s (%d): %s", e.Category, e.Status, e.Message)
	}
	return fmt.Sprintf("resolve: %s: %s", e.Category, e.Message)
}

// Transport reports whether the failure happened below the HTTP layer.
func (e *Error) Transport() bool {
	return e.Category == CategoryNetwork
}

// Human-readable failure messages surfaced to the embedding UI layer.
const (
	msgAuth            = "Playback token was rejected. Check that the token is valid and not expired."
	msgNotFound        = "Stream not found."
	msgNotReady        = "Stream is not ready yet. Try again in a moment."
	msgTokenNotAllowed = "A playback token was provided but this stream does not accept one."
	msgValidation      = "The requested playback constraints are not valid for this stream."
	msgNetwork         = "Could not reach the playback endpoint."
	msgGeneric         = "Failed to validate the stream URL."
)

// fieldMessages maps rejected constraint fields to specific messages.
var fieldMessages = map[string]string{
	"minResolution":  "The requested minimum resolution is not valid for this stream.",
	"maxResolution":  "The requested maximum resolution is not valid for this stream.",
	"resolution":     "The requested resolution is not valid for this stream.",
	"renditionOrder": "The requested rendition order is not valid for this stream.",
}

// validationError builds a CategoryValidation error, preferring a
// field-specific message over the generic one.
func validationError(status int, fields []FieldError) *Error {
	msg := msgValidation

	for i, f := range fields {
		if specific, ok := fieldMessages[f.Field]; ok {
			if f.Message == "" {
				fields[i].Message = specific
			}
			if msg == msgValidation {
				msg = specific
			}
		}
	}

	return &Error{
		Category: CategoryValidation,
		Message:  msg,
		Status:   status,
		Fields:   fields,
	}
}

// classifyStatus maps a non-success HTTP status to a typed error.
// payloadMessage carries the structured error message when the endpoint
// returned one; it disambiguates 400 responses.
func classifyStatus(status int, payloadMessage string, fields []FieldError) *Error {
	switch status {
	case 401:
		return &Error{Category: CategoryAuth, Message: msgAuth, Status: status}
	case 400:
		if strings.Contains(strings.ToLower(payloadMessage), "ready") {
			return &Error{Category: CategoryNotReady, Message: msgNotReady, Status: status}
		}
		return &Error{Category: CategoryTokenNotAllowed, Message: msgTokenNotAllowed, Status: status}
	case 404:
		return &Error{Category: CategoryNotFound, Message: msgNotFound, Status: status}
	case 422:
		return validationError(status, fields)
	default:
		msg := msgGeneric
		if payloadMessage != "" {
			msg = payloadMessage
		}
		return &Error{Category: CategoryGeneric, Message: msg, Status: status}
	}
}
