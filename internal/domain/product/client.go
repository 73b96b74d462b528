// internal/domain/product/client.go
package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/your-org/storefront/internal/config"
)

var (
	// ErrCatalogUnavailable is returned when the remote catalog cannot be
	// reached or answers with a non-success status
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrProductNotFound is returned when the catalog has no product with the requested id
	ErrProductNotFound = errors.New("product not found")
)

// maxBodySize bounds how much of a catalog response is read
const maxBodySize = 8 << 20

// APIError describes a non-success answer from the remote catalog
type APIError struct {
	Endpoint string
	Status   int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d", e.Endpoint, e.Status)
}

// Unwrap lets errors.Is match ErrCatalogUnavailable
func (e *APIError) Unwrap() error {
	return ErrCatalogUnavailable
}

// Client reads the remote product catalog over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client from the catalog config
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ListProducts handles GET /products
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// ListCategories handles GET /products/categories
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetProduct handles GET /products/:id. The public catalog answers unknown
// ids with an empty 200 body, which is reported as ErrProductNotFound too.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p *Product
	err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), &p)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	if p == nil || p.ID == 0 {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrCatalogUnavailable, err)
	}

	// empty body decodes as "no value"
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
