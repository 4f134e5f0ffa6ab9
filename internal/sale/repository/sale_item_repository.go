package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shopledger/internal/domain"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type MySQLSaleItemRepository struct {
	db *sql.DB
}

func NewMySQLSaleItemRepository(db *sql.DB) *MySQLSaleItemRepository {
	return &MySQLSaleItemRepository{db: db}
}

// InsertBatch writes all items of a sale in one statement, keeping their order.
func (r *MySQLSaleItemRepository) InsertBatch(ctx context.Context, tx *sql.Tx, items []domain.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]interface{}, 0, len(items)*9)
	for i, item := range items {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			item.ID, item.SaleID, item.ProductID, item.Quantity,
			item.UnitPrice, item.Total, item.CostPrice, item.Profit, i,
		)
	}

	query := `INSERT INTO SaleItem (id, saleId, productId, quantity, unitPrice, total, costPrice, profit, lineNo)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting sale items: %w", err)
	}

	return nil
}

// FindBySaleIDs loads items for the given sales keyed by sale id. Each item
// carries its product, or nil when the product has since been deleted.
func (r *MySQLSaleItemRepository) FindBySaleIDs(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
	return r.findBySaleIDs(ctx, r.db, saleIDs)
}

// FindBySaleIDTx reads a sale's items inside tx.
func (r *MySQLSaleItemRepository) FindBySaleIDTx(ctx context.Context, tx *sql.Tx, saleID string) ([]domain.SaleItem, error) {
	items, err := r.findBySaleIDs(ctx, tx, []string{saleID})
	if err != nil {
		return nil, err
	}
	return items[saleID], nil
}

func (r *MySQLSaleItemRepository) findBySaleIDs(ctx context.Context, q querier, saleIDs []string) (map[string][]domain.SaleItem, error) {
	result := make(map[string][]domain.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(saleIDs))
	args := make([]interface{}, len(saleIDs))
	for i, id := range saleIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT si.id, si.saleId, si.productId, si.quantity, si.unitPrice, si.total, si.costPrice, si.profit,
		       p.id, p.name, p.categoryId, p.costPrice, p.sellingPrice, p.quantity, p.unit,
		       p.minStock, p.brand, p.purchasedFrom, p.sku, p.createdAt, p.updatedAt
		FROM SaleItem si
		LEFT JOIN Product p ON p.id = si.productId
		WHERE si.saleId IN (%s)
		ORDER BY si.saleId, si.lineNo`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale item row: %w", err)
		}
		result[item.SaleID] = append(result[item.SaleID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale item rows: %w", err)
	}

	return result, nil
}

func scanItem(row rowScanner) (domain.SaleItem, error) {
	var (
		item                   domain.SaleItem
		pID, pName, pCategory  sql.NullString
		pUnit                  sql.NullString
		pCost, pSelling        decimal.NullDecimal
		pQuantity              sql.NullInt64
		pMinStock              *int
		pBrand, pFrom, pSKU    *string
		pCreatedAt, pUpdatedAt sql.NullTime
	)

	err := row.Scan(
		&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
		&item.UnitPrice, &item.Total, &item.CostPrice, &item.Profit,
		&pID, &pName, &pCategory, &pCost, &pSelling, &pQuantity, &pUnit,
		&pMinStock, &pBrand, &pFrom, &pSKU, &pCreatedAt, &pUpdatedAt,
	)
	if err != nil {
		return domain.SaleItem{}, err
	}

	if pID.Valid {
		item.Product = &domain.Product{
			ID:            pID.String,
			Name:          pName.String,
			CategoryID:    pCategory.String,
			CostPrice:     pCost.Decimal,
			SellingPrice:  pSelling.Decimal,
			Quantity:      int(pQuantity.Int64),
			Unit:          pUnit.String,
			MinStock:      pMinStock,
			Brand:         pBrand,
			PurchasedFrom: pFrom,
			SKU:           pSKU,
			CreatedAt:     timeOrZero(pCreatedAt),
			UpdatedAt:     timeOrZero(pUpdatedAt),
		}
	}

	return item, nil
}

func timeOrZero(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}

func (r *MySQLSaleItemRepository) DeleteBySaleID(ctx context.Context, tx *sql.Tx, saleID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM SaleItem WHERE saleId = ?`, saleID); err != nil {
		return fmt.Errorf("deleting sale items: %w", err)
	}
	return nil
}
