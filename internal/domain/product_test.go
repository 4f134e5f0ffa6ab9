package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int {
	return &i
}

func TestProduct_IsLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minStock *int
		want     bool
	}{
		{name: "out of stock without threshold", quantity: 0, want: true},
		{name: "negative quantity", quantity: -1, want: true},
		{name: "in stock without threshold", quantity: 5, want: false},
		{name: "below threshold", quantity: 9, minStock: intPtr(10), want: true},
		{name: "at threshold", quantity: 10, minStock: intPtr(10), want: false},
		{name: "above threshold", quantity: 50, minStock: intPtr(10), want: false},
		{name: "zero with threshold", quantity: 0, minStock: intPtr(0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Quantity: tt.quantity, MinStock: tt.minStock}
			assert.Equal(t, tt.want, p.IsLowStock())
		})
	}
}

func TestStockValue(t *testing.T) {
	products := []Product{
		{CostPrice: decimal.NewFromInt(200), Quantity: 50},
		{CostPrice: decimal.RequireFromString("12.50"), Quantity: 4},
		{CostPrice: decimal.NewFromInt(999), Quantity: 0},
	}

	assert.Equal(t, "10050", StockValue(products).String())
	assert.Equal(t, "0", StockValue(nil).String())
}

func TestLowStock_PreservesOrder(t *testing.T) {
	products := []Product{
		{ID: "a", Quantity: 0},
		{ID: "b", Quantity: 20, MinStock: intPtr(10)},
		{ID: "c", Quantity: 3, MinStock: intPtr(10)},
	}

	low := LowStock(products)
	assert.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
	assert.NotNil(t, LowStock(nil))
}

func TestProductPatch_IsEmpty(t *testing.T) {
	assert.True(t, ProductPatch{}.IsEmpty())

	name := "Primer"
	assert.False(t, ProductPatch{Name: &name}.IsEmpty())
	assert.False(t, ProductPatch{ClearBrand: true}.IsEmpty())
}

func TestNullableText(t *testing.T) {
	assert.Nil(t, NullableText(""))
	assert.Nil(t, NullableText("   "))

	got := NullableText("  Ravi Traders ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "Ravi Traders", *got)
	}
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, "0", NonNegative(decimal.NewFromInt(-5)).String())
	assert.Equal(t, "5", NonNegative(decimal.NewFromInt(5)).String())
}
