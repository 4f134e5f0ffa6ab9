package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
	"shopledger/internal/idempotency"
)

type Engine interface {
	RecordSale(ctx context.Context, lines []domain.SaleLine, meta domain.SaleMetadata) (*domain.Sale, error)
	ReverseSale(ctx context.Context, id string) (*domain.Sale, error)
}

type Reader interface {
	Get(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	UpdateMetadata(ctx context.Context, id string, patch domain.SaleMetadataPatch) (*domain.Sale, error)
}

type IdempotencyStore interface {
	Claim(ctx context.Context, key, fingerprint string) (saleID string, claimed bool, err error)
	Complete(ctx context.Context, key, fingerprint, saleID string) error
	Release(ctx context.Context, key string) error
}

type SaleMetrics interface {
	SaleCommitted(revenue, profit float64, lines int)
	SaleFailed(reason string)
	SaleReplayed()
	SaleReversed()
}

type SaleUseCase struct {
	engine      Engine
	reader      Reader
	idempotency IdempotencyStore
	metrics     SaleMetrics
	logger      *zap.Logger
	maxItems    int
}

func NewSaleUseCase(
	engine Engine,
	reader Reader,
	idempotency IdempotencyStore,
	metrics SaleMetrics,
	logger *zap.Logger,
	maxItems int,
) *SaleUseCase {
	return &SaleUseCase{
		engine:      engine,
		reader:      reader,
		idempotency: idempotency,
		metrics:     metrics,
		logger:      logger,
		maxItems:    maxItems,
	}
}

// Record commits a sale. With a non-empty key, a repeat of an already
// committed request returns the original sale and replayed is true; reusing
// the key for a different request is a conflict.
func (uc *SaleUseCase) Record(ctx context.Context, key string, req dto.RecordSaleRequest) (sale *domain.Sale, replayed bool, err error) {
	logger := commons.Logger(ctx, uc.logger)
	logger.Info("record sale started", zap.Int("itemCount", len(req.Items)), zap.Bool("idempotent", key != ""))

	lines, err := uc.toLines(req.Items)
	if err != nil {
		uc.metrics.SaleFailed(failureReason(err))
		return nil, false, err
	}

	meta := domain.SaleMetadata{
		CustomerName:    nullableText(req.CustomerName),
		CustomerAddress: nullableText(req.CustomerAddress),
		Note:            nullableText(req.Note),
	}

	var fingerprint string
	if key != "" {
		fingerprint, err = idempotency.Fingerprint(saleRequest{Lines: lines, Meta: meta})
		if err != nil {
			return nil, false, apperrors.NewInternalError("fingerprinting sale request", err)
		}
	}

	saleID, claimed, err := uc.idempotency.Claim(ctx, key, fingerprint)
	if errors.Is(err, idempotency.ErrKeyReused) {
		logger.Warn("idempotency key reused with a different request")
		uc.metrics.SaleFailed("conflict")
		return nil, false, apperrors.NewConflictError("Idempotency-Key was already used for a different sale request")
	}
	if err != nil {
		logger.Error("idempotency claim failed", zap.Error(err))
		return nil, false, apperrors.NewInternalError("claiming idempotency key", err)
	}
	if !claimed {
		if saleID == "" {
			return nil, false, apperrors.NewConflictError("A sale with this Idempotency-Key is still being processed")
		}
		logger.Info("replaying committed sale", zap.String("saleId", saleID))
		uc.metrics.SaleReplayed()
		sale, err := uc.reader.Get(ctx, saleID)
		if err != nil {
			return nil, false, err
		}
		return sale, true, nil
	}

	// The key must settle even if the client goes away mid-request.
	settleCtx := context.WithoutCancel(ctx)

	sale, err = uc.engine.RecordSale(ctx, lines, meta)
	if err != nil {
		if relErr := uc.idempotency.Release(settleCtx, key); relErr != nil {
			logger.Warn("failed to release idempotency key", zap.Error(relErr))
		}
		uc.metrics.SaleFailed(failureReason(err))
		return nil, false, err
	}

	if err := uc.idempotency.Complete(settleCtx, key, fingerprint, sale.ID); err != nil {
		logger.Warn("failed to complete idempotency key", zap.String("saleId", sale.ID), zap.Error(err))
	}

	revenue, _ := sale.TotalAmount.Float64()
	profit, _ := sale.TotalProfit.Float64()
	uc.metrics.SaleCommitted(revenue, profit, len(sale.Items))

	return sale, false, nil
}

func (uc *SaleUseCase) Get(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.reader.Get(ctx, id)
}

func (uc *SaleUseCase) List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	return uc.reader.List(ctx, filter)
}

// Update edits customer name, address and note. Blank or null clears a field.
func (uc *SaleUseCase) Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*domain.Sale, error) {
	var patch domain.SaleMetadataPatch
	patch.CustomerName, patch.SetCustomerName = optionalText(req.CustomerName)
	patch.CustomerAddress, patch.SetCustomerAddress = optionalText(req.CustomerAddress)
	patch.Note, patch.SetNote = optionalText(req.Note)

	return uc.reader.UpdateMetadata(ctx, id, patch)
}

// Delete reverses the sale, restocking its products.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.engine.ReverseSale(ctx, id); err != nil {
		return err
	}
	uc.metrics.SaleReversed()
	return nil
}

func (uc *SaleUseCase) toLines(items []dto.SaleLineRequest) ([]domain.SaleLine, error) {
	if uc.maxItems > 0 && len(items) > uc.maxItems {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Too many items: at most %d per sale", uc.maxItems))
	}

	lines := make([]domain.SaleLine, 0, len(items))
	for i, item := range items {
		line := domain.SaleLine{
			ProductID: item.ProductID,
			Quantity:  domain.NormalizeQuantity(item.Quantity.Value),
		}
		if item.UnitPrice.Present() {
			if !item.UnitPrice.Value.Valid {
				return nil, apperrors.NewValidationError("unitPrice must be a number", apperrors.ValidationDetail{
					Field:   fmt.Sprintf("items[%d].unitPrice", i),
					Message: "unitPrice must be a number",
				})
			}
			price := item.UnitPrice.Value.Decimal()
			line.UnitPrice = &price
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// saleRequest is what an Idempotency-Key is bound to: the normalized lines
// and metadata, so formatting differences in the body do not matter.
type saleRequest struct {
	Lines []domain.SaleLine
	Meta  domain.SaleMetadata
}

func nullableText(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.NullableText(*s)
}

// optionalText maps an absent field to (nil, false) and null or blank to (nil, true).
func optionalText(v dto.Optional[string]) (*string, bool) {
	if !v.Set {
		return nil, false
	}
	if !v.Present() {
		return nil, true
	}
	return domain.NullableText(v.Value), true
}

func failureReason(err error) string {
	switch {
	case isType(err, apperrors.IsInsufficientStockError):
		return "insufficient_stock"
	case isType(err, apperrors.IsValidationError):
		return "validation"
	case isType(err, apperrors.IsNotFoundError):
		return "not_found"
	case isType(err, apperrors.IsDeadlockError):
		return "deadlock"
	case isType(err, apperrors.IsConflictError):
		return "conflict"
	default:
		return "error"
	}
}

func isType[T any](err error, is func(error) (T, bool)) bool {
	_, ok := is(err)
	return ok
}
