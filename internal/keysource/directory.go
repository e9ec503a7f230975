package keysource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DirectoryProvider fetches recipient keys from a directory service over
// HTTP: GET <base>/<identifier>.keys returns the identifier's key lines.
// Transient failures are retried; a 404 means the identifier simply has
// no published keys.
type DirectoryProvider struct {
	BaseURL string
	client  *retryablehttp.Client
}

// NewDirectoryProvider builds a provider for the given service base URL.
func NewDirectoryProvider(baseURL string) *DirectoryProvider {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &DirectoryProvider{BaseURL: baseURL, client: client}
}

func (p *DirectoryProvider) Lookup(ctx context.Context, identifier string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s.keys", p.BaseURL, url.PathEscape(identifier))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building directory request for %s: %w", identifier, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("directory lookup for %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return "", fmt.Errorf("reading directory response for %s: %w", identifier, err)
		}
		return string(body), nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("directory lookup for %s: unexpected status %s", identifier, resp.Status)
	}
}
