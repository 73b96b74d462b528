package product

import (
	"cmp"
	"slices"
)

// Filter returns the products in category ordered by sortBy. An empty
// category or AllCategories keeps every product. The input slice is left
// untouched and equal elements keep their catalog order.
func Filter(products []Product, category string, sortBy SortOption) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category == "" || category == AllCategories || p.Category == category {
			out = append(out, p)
		}
	}

	switch sortBy {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		})
	}

	return out
}

// CategoryOptions returns the category selector values: AllCategories
// followed by the fetched categories, duplicates removed.
func CategoryOptions(categories []string) []string {
	options := make([]string, 0, len(categories)+1)
	options = append(options, AllCategories)

	seen := map[string]bool{AllCategories: true}
	for _, c := range categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		options = append(options, c)
	}
	return options
}
