// internal/domain/product/entity.go
package product

import (
	"github.com/shopspring/decimal"
)

// AllCategories is the category filter value that disables filtering
const AllCategories = "all"

// Product is a catalog entry as served by the remote catalog. It is never
// mutated locally.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the aggregated review score of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// SortOption selects the ordering of a catalog listing
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortRating    SortOption = "rating"
)

// SortOptions lists the orderings offered by the sort selector
var SortOptions = []SortOption{SortDefault, SortPriceAsc, SortPriceDesc, SortRating}

// ParseSortOption maps a raw selector value to a SortOption. Unknown and
// empty values fall back to SortDefault.
func ParseSortOption(v string) SortOption {
	switch SortOption(v) {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return SortOption(v)
	default:
		return SortDefault
	}
}

// Listing is a filtered and sorted view of the catalog together with the
// category selector values
type Listing struct {
	Products   []Product  `json:"products"`
	Categories []string   `json:"categories"`
	Category   string     `json:"category"`
	Sort       SortOption `json:"sort"`
}
