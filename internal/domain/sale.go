package domain

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID              string
	SaleDate        time.Time
	TotalAmount     decimal.Decimal
	TotalProfit     decimal.Decimal
	CustomerName    *string
	CustomerAddress *string
	Note            *string
	Items           []SaleItem
}

type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	CostPrice decimal.Decimal
	Profit    decimal.Decimal
	// Product is nil once the referenced product has been deleted.
	Product *Product
}

// SaleLine is one requested product, quantity and optional price override.
type SaleLine struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

type SaleMetadata struct {
	CustomerName    *string
	CustomerAddress *string
	Note            *string
}

// SaleMetadataPatch edits only the descriptive fields of a committed sale.
type SaleMetadataPatch struct {
	CustomerName       *string
	SetCustomerName    bool
	CustomerAddress    *string
	SetCustomerAddress bool
	Note               *string
	SetNote            bool
}

func (p SaleMetadataPatch) IsEmpty() bool {
	return !p.SetCustomerName && !p.SetCustomerAddress && !p.SetNote
}

// SaleFilter bounds a sales listing. To is inclusive; a zero Limit means no limit.
type SaleFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// NormalizeQuantity floors a requested quantity to a non-negative integer.
func NormalizeQuantity(raw float64) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 0
	}
	floored := math.Floor(raw)
	if floored > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(floored)
}

// NewSaleItem prices one line against the product snapshot taken at sale time.
func NewSaleItem(id, saleID string, product Product, quantity int, unitPrice decimal.Decimal) SaleItem {
	qty := decimal.NewFromInt(int64(quantity))
	return SaleItem{
		ID:        id,
		SaleID:    saleID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(qty),
		CostPrice: product.CostPrice,
		Profit:    unitPrice.Sub(product.CostPrice).Mul(qty),
		Product:   &product,
	}
}

// AddItem appends an item and folds it into the sale totals.
func (s *Sale) AddItem(item SaleItem) {
	s.Items = append(s.Items, item)
	s.TotalAmount = s.TotalAmount.Add(item.Total)
	s.TotalProfit = s.TotalProfit.Add(item.Profit)
}

// AmountsFit reports whether the totals and every item amount can be stored.
// Profit may be negative, so magnitudes are compared.
func (s Sale) AmountsFit() bool {
	if !AmountFits(s.TotalAmount) || !AmountFits(s.TotalProfit) {
		return false
	}
	for _, item := range s.Items {
		if !AmountFits(item.UnitPrice) || !AmountFits(item.Total) || !AmountFits(item.Profit) {
			return false
		}
	}
	return true
}

// RequestedQuantities sums line quantities per product.
func RequestedQuantities(lines []SaleLine) map[string]int {
	requested := make(map[string]int, len(lines))
	for _, line := range lines {
		requested[line.ProductID] += line.Quantity
	}
	return requested
}

// SortedProductIDs returns the distinct product ids of lines in ascending order.
func SortedProductIDs(lines []SaleLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// ItemQuantities sums item quantities per product, used when restocking.
func ItemQuantities(items []SaleItem) map[string]int {
	quantities := make(map[string]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
	}
	return quantities
}

// SortedKeys returns map keys in ascending order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
