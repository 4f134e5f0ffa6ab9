package dto

import "shopledger/internal/domain"

func ToCategoryDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

func ToCategoryDTOs(categories []domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryDTO(c))
	}
	return out
}

func ToProductDTO(p domain.Product) ProductDTO {
	out := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		Quantity:      p.Quantity,
		Unit:          p.Unit,
		MinStock:      p.MinStock,
		SKU:           p.SKU,
		Brand:         p.Brand,
		PurchasedFrom: p.PurchasedFrom,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		category := ToCategoryDTO(*p.Category)
		out.Category = &category
	}
	return out
}

func ToProductDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductDTO(p))
	}
	return out
}

func ToSaleDTO(s domain.Sale) SaleDTO {
	items := make([]SaleItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		itemDTO := SaleItemDTO{
			ID:        item.ID,
			SaleID:    item.SaleID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
			CostPrice: item.CostPrice,
			Profit:    item.Profit,
		}
		if item.Product != nil {
			product := ToProductDTO(*item.Product)
			itemDTO.Product = &product
		}
		items = append(items, itemDTO)
	}

	return SaleDTO{
		ID:              s.ID,
		SaleDate:        s.SaleDate,
		TotalAmount:     s.TotalAmount,
		TotalProfit:     s.TotalProfit,
		CustomerName:    s.CustomerName,
		CustomerAddress: s.CustomerAddress,
		Note:            s.Note,
		Items:           items,
	}
}

func ToSaleDTOs(sales []domain.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, ToSaleDTO(s))
	}
	return out
}

func ToTotalsDTO(t domain.Totals) TotalsDTO {
	return TotalsDTO{
		Revenue:   t.Revenue,
		Profit:    t.Profit,
		SaleCount: t.SaleCount,
	}
}

func ToSummaryDTO(s domain.Summary) SummaryDTO {
	return SummaryDTO{
		StockValue:    s.StockValue,
		TotalProducts: s.TotalProducts,
		Today:         ToTotalsDTO(s.Today),
		Week:          ToTotalsDTO(s.Week),
		Month:         ToTotalsDTO(s.Month),
		Year:          ToTotalsDTO(s.Year),
		LowStock:      ToProductDTOs(s.LowStock),
		RecentSales:   ToSaleDTOs(s.RecentSales),
	}
}
