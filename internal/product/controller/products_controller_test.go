package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

type mockUseCase struct {
	ListFunc   func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Product, error)
	CreateFunc func(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error)
	UpdateFunc func(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockUseCase) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockUseCase) Get(ctx context.Context, id string) (*domain.Product, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockUseCase) Create(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	return m.CreateFunc(ctx, req)
}

func (m *mockUseCase) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
	return m.UpdateFunc(ctx, id, req)
}

func (m *mockUseCase) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func newRouter(uc UseCase) http.Handler {
	ctrl := NewProductController(uc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/products", ctrl.List)
	r.Post("/products", ctrl.Create)
	r.Get("/products/{id}", ctrl.Get)
	r.Patch("/products/{id}", ctrl.Update)
	r.Delete("/products/{id}", ctrl.Delete)
	return r
}

func samplePaint() domain.Product {
	minStock := 10
	return domain.Product{
		ID:           "p1",
		Name:         "Sample Paint 1L",
		CategoryID:   "c1",
		Category:     &domain.Category{ID: "c1", Name: "Painting"},
		CostPrice:    decimal.NewFromInt(200),
		SellingPrice: decimal.NewFromInt(280),
		Quantity:     5,
		Unit:         "pcs",
		MinStock:     &minStock,
	}
}

func TestList_ParsesFilter(t *testing.T) {
	var got domain.ProductFilter
	uc := &mockUseCase{
		ListFunc: func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
			got = filter
			return []domain.Product{samplePaint()}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?inStock&q=paint&categoryId=c1&lowStock=false", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.InStock)
	assert.False(t, got.LowStock)
	assert.Equal(t, "paint", got.Query)
	assert.Equal(t, "c1", got.CategoryID)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 280.0, body[0]["sellingPrice"])
	assert.Equal(t, true, body[0]["lowStock"])
	assert.Equal(t, "Painting", body[0]["category"].(map[string]interface{})["name"])
}

func TestGet_NotFound(t *testing.T) {
	uc := &mockUseCase{
		GetFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("Product not found: " + id)
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found: ghost")
}

func TestCreate_MissingFields(t *testing.T) {
	uc := &mockUseCase{
		CreateFunc: func(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Tape"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Name and category required", body.Error)
}

func TestCreate_Success(t *testing.T) {
	uc := &mockUseCase{
		CreateFunc: func(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
			p := samplePaint()
			p.Name = req.Name
			return &p, nil
		},
	}

	rec := httptest.NewRecorder()
	body := `{"name":"Sample Paint 1L","categoryId":"c1","costPrice":"200","sellingPrice":280}`
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdate_PassesPathID(t *testing.T) {
	var gotID string
	uc := &mockUseCase{
		UpdateFunc: func(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
			gotID = id
			p := samplePaint()
			return &p, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/p1", strings.NewReader(`{"quantity":9}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", gotID)
}

func TestUpdate_RejectsOverlongFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "name", field: "name", value: strings.Repeat("n", 256)},
		{name: "unit", field: "unit", value: strings.Repeat("u", 33)},
		{name: "sku", field: "sku", value: strings.Repeat("s", 101)},
		{name: "brand", field: "brand", value: strings.Repeat("b", 256)},
		{name: "purchased from", field: "purchasedFrom", value: strings.Repeat("p", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{
				UpdateFunc: func(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
					t.Fatal("use case must not be called")
					return nil, nil
				},
			}

			body := fmt.Sprintf(`{%q:%q}`, tt.field, tt.value)
			rec := httptest.NewRecorder()
			newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/p1", strings.NewReader(body)))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Details, 1)
			assert.Equal(t, tt.field, resp.Details[0].Field)
		})
	}
}

func TestUpdate_ClearingFieldsSkipsLengthCheck(t *testing.T) {
	called := false
	uc := &mockUseCase{
		UpdateFunc: func(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error) {
			called = true
			p := samplePaint()
			return &p, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/p1", strings.NewReader(`{"sku":null,"brand":"","unit":"litre"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestDelete_ReturnsOK(t *testing.T) {
	uc := &mockUseCase{
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}

	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/p1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
