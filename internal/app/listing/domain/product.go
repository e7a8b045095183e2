package domain

import (
	"strconv"
	"strings"
	"time"
)

// Product is the canonical, read-only product shape every catalog source
// normalises into before filtering and sorting.
type Product struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Brand         string    `json:"brand" yaml:"brand"`
	Category      string    `json:"category" yaml:"category"`
	Subcategory   string    `json:"subcategory,omitempty" yaml:"subcategory"`
	Price         float64   `json:"price" yaml:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty" yaml:"originalPrice"`
	Rating        float64   `json:"rating" yaml:"rating"`
	Reviews       int       `json:"reviews" yaml:"reviews"`
	InStock       bool      `json:"inStock" yaml:"inStock"`
	Tags          []string  `json:"tags,omitempty" yaml:"tags"`
	CreatedAt     time.Time `json:"createdAt,omitempty" yaml:"createdAt"`
}

// Validate checks the product invariants.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProductID
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		return ErrInvalidOriginalPrice
	}
	if p.Rating < 0 || p.Rating > 5 {
		return ErrInvalidRating
	}
	if p.Reviews < 0 {
		return ErrInvalidReviews
	}
	return nil
}

// Discounted reports whether the product carries an original price above
// its selling price.
func (p Product) Discounted() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// NumericID returns the ID as an integer when it is one.
func (p Product) NumericID() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(p.ID), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
