// Package catalog holds the boutique's read-only product list.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/luxelife/boutique/pkg/validator"
	"github.com/luxelife/boutique/services/catalog/internal/domain"
)

//go:embed products.json
var defaultProducts []byte

// ErrEmpty is returned when a catalog document holds no products.
var ErrEmpty = errors.New("catalog has no products")

// Catalog is an ordered, immutable product list. Order is the display order
// for listings and for the search fallback.
type Catalog struct {
	products []domain.Product
	bySKU    map[string]int
}

// Default returns the embedded reference catalog.
func Default() *Catalog {
	c, err := Load(defaultProducts)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a JSON product array from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a JSON product array, validating each entry and rejecting
// duplicate SKUs.
func Load(data []byte) (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrEmpty
	}

	bySKU := make(map[string]int, len(products))
	for i, p := range products {
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product %d (%q): %w", i, p.SKU, err)
		}
		if prev, dup := bySKU[p.SKU]; dup {
			return nil, fmt.Errorf("duplicate sku %q at positions %d and %d", p.SKU, prev, i)
		}
		bySKU[p.SKU] = i
	}

	return &Catalog{products: products, bySKU: bySKU}, nil
}

// All returns a copy of the products in catalog order.
func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// BySKU looks up a product by exact SKU.
func (c *Catalog) BySKU(sku string) (domain.Product, bool) {
	i, ok := c.bySKU[sku]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
