package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TotalsDTO struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
	SaleCount int             `json:"saleCount"`
}

type SummaryDTO struct {
	StockValue    decimal.Decimal `json:"stockValue"`
	TotalProducts int             `json:"totalProducts"`
	Today         TotalsDTO       `json:"today"`
	Week          TotalsDTO       `json:"week"`
	Month         TotalsDTO       `json:"month"`
	Year          TotalsDTO       `json:"year"`
	LowStock      []ProductDTO    `json:"lowStockProducts"`
	RecentSales   []SaleDTO       `json:"recentSales"`
}

type RevenueDTO struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
	TotalsDTO
}
