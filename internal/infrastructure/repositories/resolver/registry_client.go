package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const userAgent = "safeupdate"

// registryClient performs JSON GET requests against one registry base URL.
type registryClient struct {
	baseURL string
	http    *http.Client
}

func newRegistryClient(baseURL string, timeout time.Duration) registryClient {
	return registryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// getJSON decodes the response of baseURL+path into out. A 404 is reported
// as ErrUnresolved so callers can tell "unknown package" from transport errors.
func (c registryClient) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s returned 404", repositories.ErrUnresolved, url)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

// normalized applies the resolver output contract: trimmed, never empty.
func normalized(version, locator string) (string, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return "", fmt.Errorf("%w: %s", repositories.ErrUnresolved, locator)
	}
	return version, nil
}
