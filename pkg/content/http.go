package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultUserAgent is sent with every HTTP fetch.
const DefaultUserAgent = "Portfolio-App"

// maxBodySize bounds a single resource.
const maxBodySize = 10 << 20

// HTTPSource fetches resources relative to a base URL.
type HTTPSource struct {
	base      *url.URL
	client    *http.Client
	UserAgent string
}

// NewHTTPSource creates a source for baseURL. A nil client uses a pooled
// go-cleanhttp client.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &HTTPSource{base: u, client: client, UserAgent: DefaultUserAgent}, nil
}

// Fetch GETs resource; any non-2xx response is a FetchError with the status.
func (s *HTTPSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(resource, "/"))
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return nil, &FetchError{Resource: resource, StatusCode: http.StatusBadRequest, Err: ErrInvalidResource}
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &FetchError{Resource: resource, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &FetchError{Resource: resource, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response %s", resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Resource: resource, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return data, nil
}
