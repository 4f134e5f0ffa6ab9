package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordSaleRequest struct {
	Items           []SaleLineRequest `json:"items" validate:"dive"`
	Note            *string           `json:"note" validate:"omitempty,max=1000"`
	CustomerName    *string           `json:"customerName" validate:"omitempty,max=255"`
	CustomerAddress *string           `json:"customerAddress" validate:"omitempty,max=500"`
}

type SaleLineRequest struct {
	ProductID string                   `json:"productId" validate:"required"`
	Quantity  FlexibleNumber           `json:"quantity"`
	UnitPrice Optional[FlexibleNumber] `json:"unitPrice"`
}

type UpdateSaleRequest struct {
	CustomerName    Optional[string] `json:"customerName" validate:"omitempty,max=255"`
	CustomerAddress Optional[string] `json:"customerAddress" validate:"omitempty,max=500"`
	Note            Optional[string] `json:"note" validate:"omitempty,max=1000"`
}

type SaleDTO struct {
	ID              string          `json:"id"`
	SaleDate        time.Time       `json:"saleDate"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalProfit     decimal.Decimal `json:"totalProfit"`
	CustomerName    *string         `json:"customerName"`
	CustomerAddress *string         `json:"customerAddress"`
	Note            *string         `json:"note"`
	Items           []SaleItemDTO   `json:"items"`
}

type SaleItemDTO struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"saleId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Profit    decimal.Decimal `json:"profit"`
	Product   *ProductDTO     `json:"product"`
}
