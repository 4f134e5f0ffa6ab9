package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	apperrors "shopledger/internal/errors"
	"shopledger/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Product, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, id string, quantity int) (bool, error)
	IncrementStock(ctx context.Context, tx *sql.Tx, id string, quantity int) (bool, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) error
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Sale, error)
	Delete(ctx context.Context, tx *sql.Tx, id string) error
}

type SaleItemRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, items []domain.SaleItem) error
	FindBySaleIDTx(ctx context.Context, tx *sql.Tx, saleID string) ([]domain.SaleItem, error)
	DeleteBySaleID(ctx context.Context, tx *sql.Tx, saleID string) error
}

// TransactionService commits and reverses sales. Each operation runs in a
// single transaction: either every row changes or none does.
type TransactionService struct {
	db           TransactionManager
	productRepo  ProductRepository
	saleRepo     SaleRepository
	saleItemRepo SaleItemRepository
	clock        clock.Clock
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewTransactionService(
	db TransactionManager,
	productRepo ProductRepository,
	saleRepo SaleRepository,
	saleItemRepo SaleItemRepository,
	clk clock.Clock,
	logger *zap.Logger,
	txTimeout time.Duration,
) *TransactionService {
	return &TransactionService{
		db:           db,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		clock:        clk,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

// RecordSale validates lines against locked product rows, decrements stock
// and stores the sale with its items.
func (s *TransactionService) RecordSale(ctx context.Context, lines []domain.SaleLine, meta domain.SaleMetadata) (*domain.Sale, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("At least one item required")
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("beginning sale transaction: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback()

	// Lock every referenced product in ascending id order.
	locked, err := s.productRepo.FindByIDsForUpdate(txCtx, tx, domain.SortedProductIDs(lines))
	if err != nil {
		return nil, mysql.ClassifyError(err)
	}
	products := make(map[string]domain.Product, len(locked))
	for _, p := range locked {
		products[p.ID] = p
	}
	for _, line := range lines {
		if _, ok := products[line.ProductID]; !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Product not found: %s", line.ProductID))
		}
	}

	if err := validateLines(lines); err != nil {
		return nil, err
	}

	// Check the combined quantity per product, in request order.
	requested := domain.RequestedQuantities(lines)
	checked := make(map[string]bool, len(requested))
	for _, line := range lines {
		if checked[line.ProductID] {
			continue
		}
		checked[line.ProductID] = true
		p := products[line.ProductID]
		if p.Quantity < requested[p.ID] {
			s.logger.Warn("insufficient stock",
				zap.String("productId", p.ID),
				zap.Int("available", p.Quantity),
				zap.Int("requested", requested[p.ID]),
			)
			return nil, apperrors.NewInsufficientStockError(p.ID, p.Name, p.Quantity, requested[p.ID])
		}
	}

	sale := domain.Sale{
		ID:              uuid.New().String(),
		SaleDate:        s.clock.Now().UTC().Truncate(time.Millisecond),
		CustomerName:    meta.CustomerName,
		CustomerAddress: meta.CustomerAddress,
		Note:            meta.Note,
	}
	for _, line := range lines {
		p := products[line.ProductID]
		unitPrice := p.SellingPrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		// Items report the stock left after this sale.
		p.Quantity -= requested[p.ID]
		sale.AddItem(domain.NewSaleItem(uuid.New().String(), sale.ID, p, line.Quantity, unitPrice))
	}

	if !sale.AmountsFit() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Sale total exceeds the maximum amount of %s", domain.MaxAmount.StringFixed(2)))
	}

	for _, id := range domain.SortedKeys(requested) {
		applied, err := s.productRepo.DecrementStock(txCtx, tx, id, requested[id])
		if err != nil {
			s.logger.Error("failed to decrement stock", zap.String("productId", id), zap.Error(err))
			return nil, mysql.ClassifyError(err)
		}
		if !applied {
			p := products[id]
			return nil, apperrors.NewInsufficientStockError(p.ID, p.Name, p.Quantity, requested[id])
		}
	}

	if err := s.saleRepo.Insert(txCtx, tx, sale); err != nil {
		s.logger.Error("failed to insert sale", zap.String("saleId", sale.ID), zap.Error(err))
		return nil, mysql.ClassifyError(err)
	}

	if err := s.saleItemRepo.InsertBatch(txCtx, tx, sale.Items); err != nil {
		s.logger.Error("failed to insert sale items", zap.String("saleId", sale.ID), zap.Error(err))
		return nil, mysql.ClassifyError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit sale", zap.String("saleId", sale.ID), zap.Error(err))
		return nil, mysql.ClassifyError(fmt.Errorf("committing sale: %w", err))
	}

	s.logger.Info("sale committed",
		zap.String("saleId", sale.ID),
		zap.Int("itemCount", len(sale.Items)),
		zap.String("totalAmount", sale.TotalAmount.StringFixed(2)),
		zap.String("totalProfit", sale.TotalProfit.StringFixed(2)),
	)

	return &sale, nil
}

// ReverseSale restocks every item of a sale and deletes it. Items whose
// product no longer exists are skipped.
func (s *TransactionService) ReverseSale(ctx context.Context, id string) (*domain.Sale, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("beginning reversal transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.FindByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, mysql.ClassifyError(err)
	}

	items, err := s.saleItemRepo.FindBySaleIDTx(txCtx, tx, id)
	if err != nil {
		return nil, mysql.ClassifyError(err)
	}
	sale.Items = items

	quantities := domain.ItemQuantities(items)
	for _, productID := range domain.SortedKeys(quantities) {
		restocked, err := s.productRepo.IncrementStock(txCtx, tx, productID, quantities[productID])
		if err != nil {
			s.logger.Error("failed to restock product", zap.String("saleId", id), zap.String("productId", productID), zap.Error(err))
			return nil, mysql.ClassifyError(err)
		}
		if !restocked {
			s.logger.Warn("product no longer exists, skipping restock",
				zap.String("saleId", id),
				zap.String("productId", productID),
				zap.Int("quantity", quantities[productID]),
			)
		}
	}

	if err := s.saleItemRepo.DeleteBySaleID(txCtx, tx, id); err != nil {
		return nil, mysql.ClassifyError(err)
	}

	if err := s.saleRepo.Delete(txCtx, tx, id); err != nil {
		return nil, mysql.ClassifyError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit reversal", zap.String("saleId", id), zap.Error(err))
		return nil, mysql.ClassifyError(fmt.Errorf("committing reversal: %w", err))
	}

	s.logger.Info("sale reversed", zap.String("saleId", id), zap.Int("itemCount", len(items)))
	return sale, nil
}

// validateLines checks every line after its product has been resolved.
func validateLines(lines []domain.SaleLine) error {
	var details []apperrors.ValidationDetail
	for i, line := range lines {
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
		if line.UnitPrice == nil {
			continue
		}
		if line.UnitPrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].unitPrice", i),
				Message: "unitPrice must not be negative",
			})
		} else if !domain.AmountFits(*line.UnitPrice) {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].unitPrice", i),
				Message: fmt.Sprintf("unitPrice must be at most %s", domain.MaxAmount.StringFixed(2)),
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError(details[0].Message, details...)
	}
	return nil
}
