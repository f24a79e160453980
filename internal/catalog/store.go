package catalog

import (
	"encoding/json"
	"sort"
	"sync"
)

// Store owns the canonical product list. Load replaces its contents
// wholesale; readers always see a consistent snapshot.
type Store struct {
	mu               sync.RWMutex
	placeholderImage string
	products         []Product
	byID             map[int64]Product
	categories       []string
}

// NewStore builds an empty catalog store. placeholderImage is substituted for
// records without an image reference.
func NewStore(placeholderImage string) *Store {
	return &Store{
		placeholderImage: placeholderImage,
		byID:             map[int64]Product{},
	}
}

// Load validates and normalizes the raw upstream records and replaces the
// store's contents. Malformed records are dropped, as are duplicate ids; the
// accepted count is returned.
func (s *Store) Load(records []json.RawMessage) int {
	products := make([]Product, 0, len(records))
	byID := make(map[int64]Product, len(records))
	categorySet := map[string]struct{}{}

	for _, raw := range records {
		product, ok := normalize(raw, s.placeholderImage)
		if !ok {
			continue
		}
		if _, dup := byID[product.ID]; dup {
			continue
		}
		products = append(products, product)
		byID[product.ID] = product
		categorySet[product.Category] = struct{}{}
	}

	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.categories = categories
	s.mu.Unlock()

	return len(products)
}

// Products returns a copy of the current product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get resolves a product by id.
func (s *Store) Get(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.byID[id]
	return product, ok
}

// Categories returns the distinct category values, sorted lexicographically.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Len reports the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
