// Package content fetches the static resources a page is hydrated from (JSON
// collections and raw article text). Every failure is reported as a
// *FetchError so callers always receive an explicit outcome.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidResource is wrapped by FetchErrors for resource names that do not
// resolve inside the source (absolute paths, "..", empty names).
var ErrInvalidResource = errors.New("invalid resource")

// Source fetches the raw bytes of a named resource.
type Source interface {
	Fetch(ctx context.Context, resource string) ([]byte, error)
}

// FetchError reports a failed fetch. StatusCode is zero when no status was
// available (network failure, decode failure).
type FetchError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d %s: %v", e.Resource, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// asFetchError normalizes err into a *FetchError for resource.
func asFetchError(resource string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Resource: resource, Err: err}
}

// FetchJSON fetches resource and decodes it as a JSON array of T. A
// malformed payload is a failed fetch.
func FetchJSON[T any](ctx context.Context, src Source, resource string) ([]T, error) {
	data, err := src.Fetch(ctx, resource)
	if err != nil {
		return nil, asFetchError(resource, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &FetchError{Resource: resource, Err: fmt.Errorf("failed to decode JSON: %w", err)}
	}
	if items == nil {
		// "null" decodes to a nil slice; callers treat it as empty.
		items = []T{}
	}
	return items, nil
}

// FetchText fetches resource as text.
func FetchText(ctx context.Context, src Source, resource string) (string, error) {
	data, err := src.Fetch(ctx, resource)
	if err != nil {
		return "", asFetchError(resource, err)
	}
	return string(data), nil
}
