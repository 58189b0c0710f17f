package services

import (
	"fmt"

	"github.com/desertthunder/genmix/internal/shared"
)

// RequestError describes a catalog request that completed with a non-success
// status. The response body is preserved verbatim for diagnostics.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Body       string
	kind       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap reports the failure category, [shared.ErrCatalogRequest] for reads
// and [shared.ErrPublish] for playlist writes.
func (e *RequestError) Unwrap() error {
	if e.kind != nil {
		return e.kind
	}
	return shared.ErrCatalogRequest
}

// SchemaError describes a successful response whose payload was missing a
// field the caller requires.
type SchemaError struct {
	Endpoint string
	Field    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s response missing required field %q", e.Endpoint, e.Field)
}

func (e *SchemaError) Unwrap() error {
	return shared.ErrSchema
}
