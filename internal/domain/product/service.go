// internal/domain/product/service.go
package product

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Catalog is the read-only source of products
type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
}

// Service handles catalog browsing
type Service struct {
	catalog Catalog
	log     *logrus.Logger
}

// NewService creates a new product service
func NewService(catalog Catalog, log *logrus.Logger) *Service {
	return &Service{
		catalog: catalog,
		log:     log,
	}
}

// Browse fetches products and categories concurrently and returns the
// products of category ordered by sortBy. Either fetch failing fails the
// listing.
func (s *Service) Browse(ctx context.Context, category string, sortBy SortOption) (*Listing, error) {
	if category == "" {
		category = AllCategories
	}

	var (
		products   []Product
		categories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.catalog.ListCategories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("catalog listing failed")
		return nil, err
	}

	filtered := Filter(products, category, sortBy)

	s.log.WithFields(logrus.Fields{
		"category": category,
		"sort":     sortBy,
		"fetched":  len(products),
		"returned": len(filtered),
	}).Debug("catalog listing built")

	return &Listing{
		Products:   filtered,
		Categories: CategoryOptions(categories),
		Category:   category,
		Sort:       sortBy,
	}, nil
}

// Categories returns the category selector values
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryOptions(categories), nil
}

// GetProduct looks up a single product in the catalog
func (s *Service) GetProduct(ctx context.Context, id int) (*Product, error) {
	return s.catalog.GetProduct(ctx, id)
}
