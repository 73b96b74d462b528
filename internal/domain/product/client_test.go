package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
)

const productsJSON = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://fakestoreapi.com/img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Mens Casual T-Shirt","price":22.3,"description":"Slim-fitting style","category":"men's clothing","image":"https://fakestoreapi.com/img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func newCatalogServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CatalogConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestClientListProducts(t *testing.T) {
	t.Run("decodes the catalog", func(t *testing.T) {
		client := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(productsJSON))
		})

		products, err := client.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 2)

		assert.Equal(t, 1, products[0].ID)
		assert.Equal(t, "109.95", products[0].Price.String())
		assert.Equal(t, "men's clothing", products[0].Category)
		assert.Equal(t, 3.9, products[0].Rating.Rate)
		assert.Equal(t, 259, products[1].Rating.Count)
	})

	t.Run("non-success status is a catalog error", func(t *testing.T) {
		client := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.ListProducts(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCatalogUnavailable)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
		assert.Equal(t, "/products", apiErr.Endpoint)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})

		_, err := client.ListProducts(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCatalogUnavailable)
	})

	t.Run("unreachable catalog", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		client := NewClient(config.CatalogConfig{BaseURL: url, Timeout: time.Second})

		_, err := client.ListProducts(context.Background())
		assert.ErrorIs(t, err, ErrCatalogUnavailable)
	})
}

func TestClientListCategories(t *testing.T) {
	client := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		w.Write([]byte(`["electronics","jewelery","men's clothing","women's clothing"]`))
	})

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing", "women's clothing"}, categories)
}

func TestClientGetProduct(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		expectedID int
		expectErr  error
	}{
		{
			name:       "Found",
			status:     http.StatusOK,
			body:       `{"id":7,"title":"White Gold Plated Princess","price":9.99,"category":"jewelery","rating":{"rate":3,"count":400}}`,
			expectedID: 7,
		},
		{
			name:      "Empty body means unknown id",
			status:    http.StatusOK,
			body:      ``,
			expectErr: ErrProductNotFound,
		},
		{
			name:      "Null body means unknown id",
			status:    http.StatusOK,
			body:      `null`,
			expectErr: ErrProductNotFound,
		},
		{
			name:      "404 status",
			status:    http.StatusNotFound,
			expectErr: ErrProductNotFound,
		},
		{
			name:      "Server error",
			status:    http.StatusInternalServerError,
			expectErr: ErrCatalogUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			client := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/products/7", r.URL.Path)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			// Act
			p, err := client.GetProduct(context.Background(), 7)

			// Assert
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, p.ID)
			assert.Equal(t, "9.99", p.Price.String())
		})
	}
}
