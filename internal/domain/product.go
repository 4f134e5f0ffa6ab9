package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultUnit = "pcs"

type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Product struct {
	ID            string
	Name          string
	CategoryID    string
	Category      *Category
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	Quantity      int
	Unit          string
	MinStock      *int
	Brand         *string
	PurchasedFrom *string
	SKU           *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock reports whether the product is out of stock or below its threshold.
func (p Product) IsLowStock() bool {
	if p.Quantity <= 0 {
		return true
	}
	return p.MinStock != nil && p.Quantity < *p.MinStock
}

// StockValue is the product's on-hand quantity valued at cost.
func (p Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

type ProductFilter struct {
	InStock       bool
	LowStock      bool
	Query         string
	CategoryID    string
	Brand         string
	PurchasedFrom string
}

// ProductPatch carries only the columns an update touches. A nil pointer
// leaves the column alone; the Clear flags write NULL.
type ProductPatch struct {
	Name               *string
	CategoryID         *string
	CostPrice          *decimal.Decimal
	SellingPrice       *decimal.Decimal
	Quantity           *int
	Unit               *string
	MinStock           *int
	ClearMinStock      bool
	SKU                *string
	ClearSKU           bool
	Brand              *string
	ClearBrand         bool
	PurchasedFrom      *string
	ClearPurchasedFrom bool
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.CategoryID == nil && p.CostPrice == nil && p.SellingPrice == nil &&
		p.Quantity == nil && p.Unit == nil && p.MinStock == nil && !p.ClearMinStock &&
		p.SKU == nil && !p.ClearSKU && p.Brand == nil && !p.ClearBrand &&
		p.PurchasedFrom == nil && !p.ClearPurchasedFrom
}

// StockValue sums quantity x cost price over products.
func StockValue(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.StockValue())
	}
	return total
}

// LowStock returns the products that need restocking, preserving order.
func LowStock(products []Product) []Product {
	low := make([]Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}
