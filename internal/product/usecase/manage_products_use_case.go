package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

type Service interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
}

// ProductUseCase turns loosely typed product requests into inventory writes.
type ProductUseCase struct {
	service    Service
	categories CategoryFinder
	logger     *zap.Logger
}

func NewProductUseCase(service Service, categories CategoryFinder, logger *zap.Logger) *ProductUseCase {
	return &ProductUseCase{
		service:    service,
		categories: categories,
		logger:     logger,
	}
}

func (uc *ProductUseCase) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return uc.service.List(ctx, filter)
}

func (uc *ProductUseCase) Get(ctx context.Context, id string) (*domain.Product, error) {
	return uc.service.Get(ctx, id)
}

// Create coerces numeric input leniently: missing or invalid prices become 0,
// negatives clamp to 0 and quantities are floored.
func (uc *ProductUseCase) Create(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	categoryID := strings.TrimSpace(req.CategoryID)
	if name == "" || categoryID == "" {
		return nil, apperrors.NewValidationError("Name and category required")
	}

	costPrice := domain.NonNegative(req.CostPrice.Decimal())
	sellingPrice := domain.NonNegative(req.SellingPrice.Decimal())
	var details []apperrors.ValidationDetail
	details = checkAmount(details, "costPrice", costPrice)
	details = checkAmount(details, "sellingPrice", sellingPrice)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError(details[0].Message, details...)
	}

	if err := uc.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = domain.DefaultUnit
	}

	product := domain.Product{
		Name:          name,
		CategoryID:    categoryID,
		CostPrice:     costPrice,
		SellingPrice:  sellingPrice,
		Quantity:      domain.NormalizeQuantity(req.Quantity.Value),
		Unit:          unit,
		MinStock:      minStock(req.MinStock),
		SKU:           domain.NullableText(req.SKU),
		Brand:         domain.NullableText(req.Brand),
		PurchasedFrom: domain.NullableText(req.PurchasedFrom),
	}

	created, err := uc.service.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created",
		zap.String("productId", created.ID),
		zap.String("name", created.Name),
		zap.Int("quantity", created.Quantity),
	)
	return created, nil
}

// Update applies only the fields present in req. Required fields ignore
// null; optional fields are cleared by null or "".
func (uc *ProductUseCase) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
	if _, err := uc.service.Get(ctx, id); err != nil {
		return nil, err
	}

	patch, err := uc.buildPatch(ctx, req)
	if err != nil {
		return nil, err
	}

	updated, err := uc.service.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product updated", zap.String("productId", id))
	return updated, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.service.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("productId", id))
	return nil
}

func (uc *ProductUseCase) buildPatch(ctx context.Context, req dto.UpdateProductRequest) (domain.ProductPatch, error) {
	var (
		patch   domain.ProductPatch
		details []apperrors.ValidationDetail
	)

	if req.Name.Present() {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name must not be blank"})
		} else {
			patch.Name = &name
		}
	}

	if req.CategoryID.Present() {
		categoryID := strings.TrimSpace(req.CategoryID.Value)
		if categoryID == "" {
			details = append(details, apperrors.ValidationDetail{Field: "categoryId", Message: "categoryId must not be blank"})
		} else if err := uc.ensureCategory(ctx, categoryID); err != nil {
			return domain.ProductPatch{}, err
		} else {
			patch.CategoryID = &categoryID
		}
	}

	if req.CostPrice.Present() {
		if !req.CostPrice.Value.Valid {
			details = append(details, apperrors.ValidationDetail{Field: "costPrice", Message: "costPrice must be a number"})
		} else {
			v := domain.NonNegative(req.CostPrice.Value.Decimal())
			details = checkAmount(details, "costPrice", v)
			patch.CostPrice = &v
		}
	}

	if req.SellingPrice.Present() {
		if !req.SellingPrice.Value.Valid {
			details = append(details, apperrors.ValidationDetail{Field: "sellingPrice", Message: "sellingPrice must be a number"})
		} else {
			v := domain.NonNegative(req.SellingPrice.Value.Decimal())
			details = checkAmount(details, "sellingPrice", v)
			patch.SellingPrice = &v
		}
	}

	if req.Quantity.Present() {
		if !req.Quantity.Value.Valid {
			details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be a number"})
		} else {
			q := domain.NormalizeQuantity(req.Quantity.Value.Value)
			patch.Quantity = &q
		}
	}

	if req.Unit.Present() {
		unit := strings.TrimSpace(req.Unit.Value)
		if unit == "" {
			unit = domain.DefaultUnit
		}
		patch.Unit = &unit
	}

	if req.MinStock.Set {
		if ms := minStock(req.MinStock); ms != nil {
			patch.MinStock = ms
		} else {
			patch.ClearMinStock = true
		}
	}

	patch.SKU, patch.ClearSKU = optionalText(req.SKU)
	patch.Brand, patch.ClearBrand = optionalText(req.Brand)
	patch.PurchasedFrom, patch.ClearPurchasedFrom = optionalText(req.PurchasedFrom)

	if len(details) > 0 {
		return domain.ProductPatch{}, apperrors.NewValidationError("invalid product update", details...)
	}
	return patch, nil
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, categoryID string) error {
	_, err := uc.categories.FindByID(ctx, categoryID)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return apperrors.NewValidationError(fmt.Sprintf("Category not found: %s", categoryID), apperrors.ValidationDetail{
			Field:   "categoryId",
			Message: "category does not exist",
		})
	}
	return err
}

// checkAmount appends a detail when a price does not fit a money column.
func checkAmount(details []apperrors.ValidationDetail, field string, v decimal.Decimal) []apperrors.ValidationDetail {
	if domain.AmountFits(v) {
		return details
	}
	return append(details, apperrors.ValidationDetail{
		Field:   field,
		Message: fmt.Sprintf("%s must be at most %s", field, domain.MaxAmount.StringFixed(2)),
	})
}

// minStock is nil when the value is absent, null, blank or not a number.
func minStock(v dto.Optional[dto.FlexibleNumber]) *int {
	if !v.Present() || !v.Value.Valid {
		return nil
	}
	ms := domain.NormalizeQuantity(v.Value.Value)
	return &ms
}

// optionalText maps an optional text field to a patch value: absent leaves
// the column alone, null or blank clears it.
func optionalText(v dto.Optional[string]) (*string, bool) {
	if !v.Set {
		return nil, false
	}
	if !v.Present() {
		return nil, true
	}
	text := domain.NullableText(v.Value)
	if text == nil {
		return nil, true
	}
	return text, false
}
