package catalog

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Product is a normalized, immutable catalog entry.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// rawProduct is the loose shape of a single upstream record. Pointer fields
// distinguish absent values; json.Number rejects non-numeric ids and prices
// during per-record decoding without aborting the batch.
type rawProduct struct {
	ID          *json.Number `json:"id"`
	Title       *string      `json:"title"`
	Price       *json.Number `json:"price"`
	Category    *string      `json:"category"`
	Description *string      `json:"description"`
	Image       *string      `json:"image"`
}

var validate = validator.New()

// normalize validates a raw record and coerces it into a Product. The second
// return value is false when the record must be skipped.
func normalize(raw json.RawMessage, placeholderImage string) (Product, bool) {
	var record rawProduct
	if err := json.Unmarshal(raw, &record); err != nil {
		return Product{}, false
	}
	if record.ID == nil || record.Title == nil || record.Price == nil || record.Category == nil {
		return Product{}, false
	}

	id, err := record.ID.Int64()
	if err != nil {
		return Product{}, false
	}
	price, err := record.Price.Float64()
	if err != nil {
		return Product{}, false
	}

	product := Product{
		ID:       id,
		Title:    *record.Title,
		Price:    price,
		Category: *record.Category,
	}
	if record.Description != nil {
		product.Description = *record.Description
	}
	if record.Image != nil && *record.Image != "" {
		product.Image = *record.Image
	} else {
		product.Image = placeholderImage
	}

	if err := validate.Struct(product); err != nil {
		return Product{}, false
	}
	return product, true
}
