package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopledger/internal/domain"
	apperrors "shopledger/internal/errors"
)

type mockSaleReader struct {
	FindByIDFunc       func(ctx context.Context, id string) (*domain.Sale, error)
	FindAllFunc        func(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	UpdateMetadataFunc func(ctx context.Context, id string, patch domain.SaleMetadataPatch) error
}

func (m *mockSaleReader) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSaleReader) FindAll(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	return m.FindAllFunc(ctx, filter)
}

func (m *mockSaleReader) UpdateMetadata(ctx context.Context, id string, patch domain.SaleMetadataPatch) error {
	return m.UpdateMetadataFunc(ctx, id, patch)
}

type mockSaleItemReader struct {
	FindBySaleIDsFunc func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error)
}

func (m *mockSaleItemReader) FindBySaleIDs(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
	return m.FindBySaleIDsFunc(ctx, saleIDs)
}

func TestSaleService_GetAttachesItems(t *testing.T) {
	sales := &mockSaleReader{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Sale, error) {
			return &domain.Sale{ID: id, TotalAmount: decimal.NewFromInt(1400)}, nil
		},
	}
	items := &mockSaleItemReader{
		FindBySaleIDsFunc: func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
			assert.Equal(t, []string{"s1"}, saleIDs)
			return map[string][]domain.SaleItem{
				"s1": {{ID: "i1", SaleID: "s1", ProductID: "p1", Quantity: 5}},
			}, nil
		},
	}

	sale, err := NewSaleService(sales, items, zap.NewNop()).Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "i1", sale.Items[0].ID)
}

func TestSaleService_GetNotFound(t *testing.T) {
	sales := &mockSaleReader{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Sale, error) {
			return nil, apperrors.NewNotFoundError("Sale not found: " + id)
		},
	}

	_, err := NewSaleService(sales, &mockSaleItemReader{}, zap.NewNop()).Get(context.Background(), "nope")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestSaleService_ListBatchesItemLookup(t *testing.T) {
	filter := domain.SaleFilter{Limit: 5}
	sales := &mockSaleReader{
		FindAllFunc: func(ctx context.Context, f domain.SaleFilter) ([]domain.Sale, error) {
			assert.Equal(t, filter, f)
			return []domain.Sale{{ID: "s2"}, {ID: "s1"}}, nil
		},
	}
	calls := 0
	items := &mockSaleItemReader{
		FindBySaleIDsFunc: func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
			calls++
			assert.Equal(t, []string{"s2", "s1"}, saleIDs)
			return map[string][]domain.SaleItem{"s1": {{ID: "i1", SaleID: "s1"}}}, nil
		},
	}

	list, err := NewSaleService(sales, items, zap.NewNop()).List(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Items)
	assert.Empty(t, list[0].Items)
	assert.Len(t, list[1].Items, 1)
}

func TestSaleService_ListEmptySkipsItems(t *testing.T) {
	sales := &mockSaleReader{
		FindAllFunc: func(ctx context.Context, f domain.SaleFilter) ([]domain.Sale, error) {
			return []domain.Sale{}, nil
		},
	}
	items := &mockSaleItemReader{
		FindBySaleIDsFunc: func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
			t.Fatal("items must not be queried for an empty page")
			return nil, nil
		},
	}

	list, err := NewSaleService(sales, items, zap.NewNop()).List(context.Background(), domain.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaleService_UpdateMetadata(t *testing.T) {
	note := "paid in cash"
	var gotPatch domain.SaleMetadataPatch
	sales := &mockSaleReader{
		UpdateMetadataFunc: func(ctx context.Context, id string, patch domain.SaleMetadataPatch) error {
			gotPatch = patch
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Sale, error) {
			return &domain.Sale{ID: id, Note: &note}, nil
		},
	}
	items := &mockSaleItemReader{
		FindBySaleIDsFunc: func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
			return nil, nil
		},
	}

	patch := domain.SaleMetadataPatch{Note: &note, SetNote: true, SetCustomerName: true}
	sale, err := NewSaleService(sales, items, zap.NewNop()).UpdateMetadata(context.Background(), "s1", patch)
	require.NoError(t, err)

	assert.Equal(t, patch, gotPatch)
	assert.Equal(t, &note, sale.Note)
	assert.NotNil(t, sale.Items)
}

func TestSaleService_UpdateMetadataEmptyPatchOnlyReads(t *testing.T) {
	sales := &mockSaleReader{
		UpdateMetadataFunc: func(ctx context.Context, id string, patch domain.SaleMetadataPatch) error {
			t.Fatal("empty patch must not write")
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Sale, error) {
			return &domain.Sale{ID: id}, nil
		},
	}
	items := &mockSaleItemReader{
		FindBySaleIDsFunc: func(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
			return nil, nil
		},
	}

	sale, err := NewSaleService(sales, items, zap.NewNop()).UpdateMetadata(context.Background(), "s1", domain.SaleMetadataPatch{})
	require.NoError(t, err)
	assert.Equal(t, "s1", sale.ID)
}

func TestSaleService_UpdateMetadataPropagatesError(t *testing.T) {
	sales := &mockSaleReader{
		UpdateMetadataFunc: func(ctx context.Context, id string, patch domain.SaleMetadataPatch) error {
			return errors.New("connection reset")
		},
	}

	_, err := NewSaleService(sales, &mockSaleItemReader{}, zap.NewNop()).
		UpdateMetadata(context.Background(), "s1", domain.SaleMetadataPatch{SetNote: true})
	assert.EqualError(t, err, "connection reset")
}
