package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tienda3x1/storefront/pkg/config"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
)

// Client fetches raw product records from the upstream catalog endpoint.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		endpoint: cfg.EndpointURL,
	}
}

// Fetch performs one GET against the catalog endpoint and returns the raw
// record array. Transport failures and non-2xx statuses map to dependency
// errors; the caller decides how to surface the retry.
func (c *Client) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog endpoint returned status %d", resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog payload")
	}
	return records, nil
}
