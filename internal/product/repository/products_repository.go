package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shopledger/internal/domain"
	"shopledger/internal/errors"
)

const productColumns = `
		p.id, p.name, p.categoryId, p.costPrice, p.sellingPrice, p.quantity, p.unit,
		p.minStock, p.brand, p.purchasedFrom, p.sku, p.createdAt, p.updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, withCategory bool) (domain.Product, error) {
	var p domain.Product
	dest := []interface{}{
		&p.ID, &p.Name, &p.CategoryID, &p.CostPrice, &p.SellingPrice, &p.Quantity, &p.Unit,
		&p.MinStock, &p.Brand, &p.PurchasedFrom, &p.SKU, &p.CreatedAt, &p.UpdatedAt,
	}
	var category domain.Category
	if withCategory {
		dest = append(dest, &category.ID, &category.Name, &category.CreatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Product{}, err
	}
	if withCategory {
		p.Category = &category
	}
	return p, nil
}

// FindAll lists products ordered by name, each with its category.
func (r *MySQLRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.InStock {
		conditions = append(conditions, "p.quantity > 0")
	}
	if filter.LowStock {
		conditions = append(conditions, "(p.quantity <= 0 OR (p.minStock IS NOT NULL AND p.quantity < p.minStock))")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		conditions = append(conditions, "(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ? OR LOWER(p.brand) LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, "p.categoryId = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Brand != "" {
		conditions = append(conditions, "p.brand = ?")
		args = append(args, filter.Brand)
	}
	if filter.PurchasedFrom != "" {
		conditions = append(conditions, "p.purchasedFrom = ?")
		args = append(args, filter.PurchasedFrom)
	}

	query := `SELECT` + productColumns + `, c.id, c.name, c.createdAt
		FROM Product p
		JOIN Category c ON c.id = p.categoryId`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY p.name ASC, p.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT` + productColumns + `, c.id, c.name, c.createdAt
		FROM Product p
		JOIN Category c ON c.id = p.categoryId
		WHERE p.id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id), true)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Product not found: %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

// FindByIDsForUpdate locks the given product rows inside tx. Rows are locked
// in ascending id order; ids that do not exist are simply absent from the result.
func (r *MySQLRepository) FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT`+productColumns+`
		FROM Product p
		WHERE p.id IN (%s)
		ORDER BY p.id ASC
		FOR UPDATE`,
		strings.Join(placeholders, ", "),
	)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scanning locked product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locked product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) error {
	query := `
		INSERT INTO Product (id, name, categoryId, costPrice, sellingPrice, quantity, unit,
		                     minStock, brand, purchasedFrom, sku, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.CategoryID, p.CostPrice, p.SellingPrice, p.Quantity, p.Unit,
		p.MinStock, p.Brand, p.PurchasedFrom, p.SKU, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

// Update writes only the columns set in patch.
func (r *MySQLRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.CategoryID != nil {
		set("categoryId", *patch.CategoryID)
	}
	if patch.CostPrice != nil {
		set("costPrice", *patch.CostPrice)
	}
	if patch.SellingPrice != nil {
		set("sellingPrice", *patch.SellingPrice)
	}
	if patch.Quantity != nil {
		set("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		set("unit", *patch.Unit)
	}
	if patch.ClearMinStock {
		set("minStock", nil)
	} else if patch.MinStock != nil {
		set("minStock", *patch.MinStock)
	}
	if patch.ClearSKU {
		set("sku", nil)
	} else if patch.SKU != nil {
		set("sku", *patch.SKU)
	}
	if patch.ClearBrand {
		set("brand", nil)
	} else if patch.Brand != nil {
		set("brand", *patch.Brand)
	}
	if patch.ClearPurchasedFrom {
		set("purchasedFrom", nil)
	} else if patch.PurchasedFrom != nil {
		set("purchasedFrom", *patch.PurchasedFrom)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE Product SET %s, updatedAt = CURRENT_TIMESTAMP(3) WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Product not found: %s", id))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Product not found: %s", id))
	}

	return nil
}

// DecrementStock removes quantity units only if that many are on hand.
// It reports false, without error, when the guard rejected the update.
func (r *MySQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, id string, quantity int) (bool, error) {
	query := `UPDATE Product SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// IncrementStock puts quantity units back. It reports false when the product
// no longer exists.
func (r *MySQLRepository) IncrementStock(ctx context.Context, tx *sql.Tx, id string, quantity int) (bool, error) {
	query := `UPDATE Product SET quantity = quantity + ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return false, fmt.Errorf("incrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
