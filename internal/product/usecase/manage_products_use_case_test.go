package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

type mockService struct {
	ListFunc   func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Product, error)
	CreateFunc func(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateFunc func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return m.CreateFunc(ctx, p)
}

func (m *mockService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return m.UpdateFunc(ctx, id, patch)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockCategoryFinder struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Category, error)
}

func (m *mockCategoryFinder) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return m.FindByIDFunc(ctx, id)
}

func knownCategories(ids ...string) *mockCategoryFinder {
	return &mockCategoryFinder{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Category, error) {
			for _, known := range ids {
				if known == id {
					return &domain.Category{ID: id}, nil
				}
			}
			return nil, apperrors.NewNotFoundError("Category not found: " + id)
		},
	}
}

func echoCreate(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "new-id"
	return &p, nil
}

func decodeCreate(t *testing.T, body string) dto.CreateProductRequest {
	t.Helper()
	var req dto.CreateProductRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestCreate_CoercesFields(t *testing.T) {
	uc := NewProductUseCase(&mockService{CreateFunc: echoCreate}, knownCategories("c1"), zap.NewNop())
	req := decodeCreate(t, `{
		"name": "  Sample Paint 1L ",
		"categoryId": "c1",
		"costPrice": "200",
		"sellingPrice": -5,
		"quantity": 12.9,
		"minStock": "",
		"sku": "  ",
		"brand": " Acme "
	}`)

	p, err := uc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Sample Paint 1L", p.Name)
	assert.True(t, decimal.NewFromInt(200).Equal(p.CostPrice))
	assert.True(t, p.SellingPrice.IsZero())
	assert.Equal(t, 12, p.Quantity)
	assert.Equal(t, domain.DefaultUnit, p.Unit)
	assert.Nil(t, p.MinStock)
	assert.Nil(t, p.SKU)
	require.NotNil(t, p.Brand)
	assert.Equal(t, "Acme", *p.Brand)
	assert.Nil(t, p.PurchasedFrom)
}

func TestCreate_MissingPricesDefaultToZero(t *testing.T) {
	uc := NewProductUseCase(&mockService{CreateFunc: echoCreate}, knownCategories("c1"), zap.NewNop())

	p, err := uc.Create(context.Background(), decodeCreate(t, `{"name":"Tape","categoryId":"c1","quantity":-3,"minStock":4}`))
	require.NoError(t, err)

	assert.True(t, p.CostPrice.IsZero())
	assert.True(t, p.SellingPrice.IsZero())
	assert.Equal(t, 0, p.Quantity)
	require.NotNil(t, p.MinStock)
	assert.Equal(t, 4, *p.MinStock)
}

func TestCreate_RequiresNameAndCategory(t *testing.T) {
	uc := NewProductUseCase(&mockService{}, knownCategories("c1"), zap.NewNop())

	for _, body := range []string{`{"name":"   ","categoryId":"c1"}`, `{"name":"Tape"}`} {
		_, err := uc.Create(context.Background(), decodeCreate(t, body))
		ve, ok := apperrors.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "Name and category required", ve.Message)
	}
}

func TestCreate_UnknownCategory(t *testing.T) {
	uc := NewProductUseCase(&mockService{}, knownCategories("c1"), zap.NewNop())

	_, err := uc.Create(context.Background(), decodeCreate(t, `{"name":"Tape","categoryId":"zzz"}`))
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Category not found: zzz", ve.Message)
}

func TestCreate_PriceAboveColumnRange(t *testing.T) {
	svc := &mockService{
		CreateFunc: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	uc := NewProductUseCase(svc, knownCategories("c1"), zap.NewNop())

	_, err := uc.Create(context.Background(), decodeCreate(t, `{"name":"Tape","categoryId":"c1","costPrice":1e12,"sellingPrice":"9999999999.99"}`))
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "costPrice", ve.Details[0].Field)
	assert.Equal(t, "costPrice must be at most 9999999999.99", ve.Message)
}

func updateUseCase(t *testing.T, captured *domain.ProductPatch) *ProductUseCase {
	t.Helper()
	svc := &mockService{
		GetFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
			*captured = patch
			return &domain.Product{ID: id}, nil
		},
	}
	return NewProductUseCase(svc, knownCategories("c1", "c2"), zap.NewNop())
}

func decodeUpdate(t *testing.T, body string) dto.UpdateProductRequest {
	t.Helper()
	var req dto.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestUpdate_PartialFields(t *testing.T) {
	var patch domain.ProductPatch
	uc := updateUseCase(t, &patch)

	_, err := uc.Update(context.Background(), "p1", decodeUpdate(t, `{
		"name": null,
		"quantity": "7",
		"minStock": null,
		"sku": "",
		"brand": "Acme",
		"categoryId": "c2"
	}`))
	require.NoError(t, err)

	assert.Nil(t, patch.Name, "null must not clear a required field")
	require.NotNil(t, patch.Quantity)
	assert.Equal(t, 7, *patch.Quantity)
	assert.True(t, patch.ClearMinStock)
	assert.True(t, patch.ClearSKU)
	require.NotNil(t, patch.Brand)
	assert.Equal(t, "Acme", *patch.Brand)
	assert.False(t, patch.ClearBrand)
	require.NotNil(t, patch.CategoryID)
	assert.Equal(t, "c2", *patch.CategoryID)
	assert.Nil(t, patch.CostPrice)
	assert.False(t, patch.ClearPurchasedFrom)
}

func TestUpdate_RejectsBlankNameAndBadNumbers(t *testing.T) {
	var patch domain.ProductPatch
	uc := updateUseCase(t, &patch)

	_, err := uc.Update(context.Background(), "p1", decodeUpdate(t, `{"name":"  ","costPrice":"abc"}`))
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
}

func TestUpdate_PriceAboveColumnRange(t *testing.T) {
	var patch domain.ProductPatch
	uc := updateUseCase(t, &patch)

	_, err := uc.Update(context.Background(), "p1", decodeUpdate(t, `{"sellingPrice":10000000000}`))
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "sellingPrice", ve.Details[0].Field)
	assert.Nil(t, patch.SellingPrice, "nothing may be written")
}

func TestUpdate_UnknownCategory(t *testing.T) {
	var patch domain.ProductPatch
	uc := updateUseCase(t, &patch)

	_, err := uc.Update(context.Background(), "p1", decodeUpdate(t, `{"categoryId":"nope"}`))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdate_MissingProduct(t *testing.T) {
	svc := &mockService{
		GetFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("Product not found: " + id)
		},
	}
	uc := NewProductUseCase(svc, knownCategories(), zap.NewNop())

	_, err := uc.Update(context.Background(), "ghost", decodeUpdate(t, `{"quantity":1}`))
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
