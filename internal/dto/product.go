package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=191"`
}

type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateProductRequest struct {
	Name          string                   `json:"name" validate:"required,max=255"`
	CategoryID    string                   `json:"categoryId" validate:"required"`
	CostPrice     FlexibleNumber           `json:"costPrice"`
	SellingPrice  FlexibleNumber           `json:"sellingPrice"`
	Quantity      FlexibleNumber           `json:"quantity"`
	Unit          string                   `json:"unit" validate:"max=32"`
	MinStock      Optional[FlexibleNumber] `json:"minStock"`
	SKU           string                   `json:"sku" validate:"max=100"`
	Brand         string                   `json:"brand" validate:"max=255"`
	PurchasedFrom string                   `json:"purchasedFrom" validate:"max=255"`
}

// UpdateProductRequest is a partial update: only fields present in the body
// are applied.
type UpdateProductRequest struct {
	Name          Optional[string]         `json:"name" validate:"omitempty,max=255"`
	CategoryID    Optional[string]         `json:"categoryId"`
	CostPrice     Optional[FlexibleNumber] `json:"costPrice"`
	SellingPrice  Optional[FlexibleNumber] `json:"sellingPrice"`
	Quantity      Optional[FlexibleNumber] `json:"quantity"`
	Unit          Optional[string]         `json:"unit" validate:"omitempty,max=32"`
	MinStock      Optional[FlexibleNumber] `json:"minStock"`
	SKU           Optional[string]         `json:"sku" validate:"omitempty,max=100"`
	Brand         Optional[string]         `json:"brand" validate:"omitempty,max=255"`
	PurchasedFrom Optional[string]         `json:"purchasedFrom" validate:"omitempty,max=255"`
}

type ProductDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"categoryId"`
	Category      *CategoryDTO    `json:"category,omitempty"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	MinStock      *int            `json:"minStock"`
	SKU           *string         `json:"sku"`
	Brand         *string         `json:"brand"`
	PurchasedFrom *string         `json:"purchasedFrom"`
	LowStock      bool            `json:"lowStock"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
