package product

import (
	"context"

	domain "rest-user-service/internal/domain/product"
)

// Usecase lists products.
type Usecase interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Catalog serves a fixed set of products.
type Catalog struct {
	products []domain.Product
}

// New returns a Catalog over products.
func New(products []domain.Product) *Catalog {
	return &Catalog{products: products}
}

// ListProducts returns a copy of the catalog so callers cannot mutate it.
func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}
