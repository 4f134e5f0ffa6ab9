package service

import (
	"context"

	"go.uber.org/zap"

	"shopledger/internal/domain"
)

type SaleReader interface {
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	FindAll(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	UpdateMetadata(ctx context.Context, id string, patch domain.SaleMetadataPatch) error
}

type SaleItemReader interface {
	FindBySaleIDs(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error)
}

// SaleService serves committed sales with their items and products.
type SaleService struct {
	sales  SaleReader
	items  SaleItemReader
	logger *zap.Logger
}

func NewSaleService(sales SaleReader, items SaleItemReader, logger *zap.Logger) *SaleService {
	return &SaleService{sales: sales, items: items, logger: logger}
}

func (s *SaleService) Get(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindBySaleIDs(ctx, []string{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Items = nonNilItems(items[sale.ID])

	return sale, nil
}

func (s *SaleService) List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	sales, err := s.sales.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]string, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}

	items, err := s.items.FindBySaleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = nonNilItems(items[sales[i].ID])
	}

	return sales, nil
}

// UpdateMetadata edits customer name, address and note. Totals, items and
// stock are never touched.
func (s *SaleService) UpdateMetadata(ctx context.Context, id string, patch domain.SaleMetadataPatch) (*domain.Sale, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	if err := s.sales.UpdateMetadata(ctx, id, patch); err != nil {
		return nil, err
	}

	s.logger.Info("sale metadata updated", zap.String("saleId", id))
	return s.Get(ctx, id)
}

func nonNilItems(items []domain.SaleItem) []domain.SaleItem {
	if items == nil {
		return []domain.SaleItem{}
	}
	return items
}
