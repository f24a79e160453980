package view

import (
	"sort"
	"strings"

	"github.com/tienda3x1/storefront/internal/catalog"
	"github.com/tienda3x1/storefront/pkg/enums"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// Criteria is the transient filter/sort input of the pipeline.
type Criteria struct {
	Search   string        `json:"search"`
	Category string        `json:"category"`
	Sort     enums.SortKey `json:"sort"`
}

// DefaultCriteria returns the initial state: no search, all categories,
// default ordering.
func DefaultCriteria() Criteria {
	return Criteria{Category: CategoryAll, Sort: enums.SortDefault}
}

// Compute derives the filtered and sorted product view. Filters apply in a
// fixed order (category, then free-text search) before sorting; the input
// slice is never mutated.
func Compute(products []catalog.Product, criteria Criteria) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))

	category := criteria.Category
	if category == "" {
		category = CategoryAll
	}
	term := strings.ToLower(strings.TrimSpace(criteria.Search))

	for _, product := range products {
		if category != CategoryAll && product.Category != category {
			continue
		}
		if term != "" && !matchesSearch(product, term) {
			continue
		}
		out = append(out, product)
	}

	sortProducts(out, criteria.Sort)
	return out
}

// matchesSearch reports whether the lower-cased term is a substring of the
// product's title, description or category. Category substring matching only
// happens here, on the free-text path, never via the category selector.
func matchesSearch(product catalog.Product, term string) bool {
	return strings.Contains(strings.ToLower(product.Title), term) ||
		strings.Contains(strings.ToLower(product.Description), term) ||
		strings.Contains(strings.ToLower(product.Category), term)
}

func sortProducts(products []catalog.Product, key enums.SortKey) {
	switch key {
	case enums.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case enums.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case enums.SortNameAsc:
		collator := newTitleCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Title, products[j].Title) < 0
		})
	case enums.SortNameDesc:
		collator := newTitleCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Title, products[j].Title) > 0
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID < products[j].ID
		})
	}
}

// newTitleCollator builds a fresh collator per sort; collators carry internal
// buffers and are not safe for concurrent use.
func newTitleCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
