// Package catalog serves the fixed product list of the storefront.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"groundnut_back_end/internal/models"
)

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []models.Product
	byID     map[string]int
}

func New(products []models.Product) *Catalog {
	c := &Catalog{products: products, byID: make(map[string]int, len(products))}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

// Default is the storefront catalog.
func Default() *Catalog {
	return New(defaultProducts)
}

// All returns every product in catalog order.
func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) ByID(id string) (models.Product, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// ByCategory matches the category case-insensitively.
func (c *Catalog) ByCategory(category string) []models.Product {
	return c.filter(func(p models.Product) bool {
		return strings.EqualFold(p.Category, strings.TrimSpace(category))
	})
}

// Search matches the term case-insensitively against name and description.
func (c *Catalog) Search(term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	return c.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
}

// Find applies the optional category and search filters together.
func (c *Catalog) Find(category, term string) []models.Product {
	out := c.All()
	if category != "" {
		out = New(out).ByCategory(category)
	}
	if term != "" {
		out = New(out).Search(term)
	}
	return out
}

func (c *Catalog) filter(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

var defaultProducts = []models.Product{
	{
		ID:          "1",
		Name:        "Premium Groundnut Oil",
		Description: "Cold-pressed, unrefined groundnut oil with rich flavor and aroma",
		Price:       decimal.NewFromInt(299),
		Image:       "/images/groundnut-oil.jpg",
		Category:    "oils",
		InStock:     true,
		Rating:      4.8,
		Reviews:     124,
	},
	{
		ID:          "2",
		Name:        "Roasted Peanuts",
		Description: "Freshly roasted peanuts, perfect for snacking",
		Price:       decimal.NewFromInt(149),
		Image:       "/images/roasted-peanuts.jpg",
		Category:    "snacks",
		InStock:     true,
		Rating:      4.6,
		Reviews:     89,
	},
	{
		ID:          "3",
		Name:        "Premium Raw Groundnut 1kg",
		Description: "Hand-sorted raw groundnuts for cooking and pressing",
		Price:       decimal.NewFromInt(180),
		Category:    "raw",
		InStock:     true,
	},
	{
		ID:          "4",
		Name:        "Organic Raw Groundnut 2kg",
		Description: "Certified organic raw groundnuts",
		Price:       decimal.NewFromInt(450),
		Category:    "raw",
		InStock:     true,
	},
	{
		ID:          "5",
		Name:        "Raw Groundnut 5kg Bulk Pack",
		Description: "Bulk pack of raw groundnuts for wholesale buyers",
		Price:       decimal.NewFromInt(899),
		Category:    "raw",
		InStock:     true,
	},
	{
		ID:          "6",
		Name:        "Roasted Groundnut 500g",
		Description: "Slow-roasted groundnuts, lightly salted",
		Price:       decimal.NewFromInt(200),
		Category:    "roasted",
		InStock:     true,
	},
	{
		ID:          "7",
		Name:        "Premium Roasted Groundnut 2kg",
		Description: "Large-kernel groundnuts roasted in small batches",
		Price:       decimal.NewFromInt(750),
		Category:    "roasted",
		InStock:     true,
	},
	{
		ID:          "8",
		Name:        "Roasted Groundnut 6kg",
		Description: "Family and event pack of roasted groundnuts",
		Price:       decimal.NewFromInt(1399),
		Category:    "roasted",
		InStock:     false,
	},
}
