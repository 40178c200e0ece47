package product

import "github.com/shopspring/decimal"

// Product is an item in the static catalog.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Catalog returns the fixed product listing.
func Catalog() []Product {
	return []Product{
		{ID: 123, Name: "Chicken", Price: decimal.RequireFromString("19.99")},
		{ID: 124, Name: "Syrian Pommes", Price: decimal.RequireFromString("14.99")},
		{ID: 125, Name: "Falafel", Price: decimal.RequireFromString("5.99")},
	}
}
