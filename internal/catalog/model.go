package catalog

import (
	"regexp"
	"time"
)

// SizeStock is a product's remaining inventory for one size variant.
// Size labels are unique within a product and stock never goes negative.
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type Product struct {
	ID          string      `json:"id"`
	Category    string      `json:"category"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Sizes       []SizeStock `json:"sizes"`
	ImageURL    *string     `json:"imageurl,omitempty"`
	Description *string     `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ListOptions drives the paginated catalog listing.
type ListOptions struct {
	Filter string // category filter, empty means all
	Limit  int
	Page   int
}

var productIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether id has the 24-hex product identifier shape.
func IsValidID(id string) bool {
	return productIDRe.MatchString(id)
}
