package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shopledger/internal/domain"
	"shopledger/internal/errors"
)

const saleColumns = `id, saleDate, totalAmount, totalProfit, customerName, customerAddress, note`

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.ID, &s.SaleDate, &s.TotalAmount, &s.TotalProfit,
		&s.CustomerName, &s.CustomerAddress, &s.Note,
	)
	return s, err
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) error {
	query := `
		INSERT INTO Sale (id, saleDate, totalAmount, totalProfit, customerName, customerAddress, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		sale.ID, sale.SaleDate, sale.TotalAmount, sale.TotalProfit,
		sale.CustomerName, sale.CustomerAddress, sale.Note,
	)
	if err != nil {
		return fmt.Errorf("inserting sale: %w", err)
	}

	return nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM Sale WHERE id = ?`

	sale, err := scanSale(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Sale not found: %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale by id: %w", err)
	}

	return &sale, nil
}

// FindByIDForUpdate reads and locks the sale row inside tx.
func (r *MySQLSaleRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM Sale WHERE id = ? FOR UPDATE`

	sale, err := scanSale(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Sale not found: %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking sale: %w", err)
	}

	return &sale, nil
}

// FindAll lists sales newest first. Both filter bounds are inclusive.
func (r *MySQLSaleRepository) FindAll(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.From != nil {
		conditions = append(conditions, "saleDate >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, "saleDate <= ?")
		args = append(args, filter.To.UTC())
	}

	query := `SELECT ` + saleColumns + ` FROM Sale`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY saleDate DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale row: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}

// UpdateMetadata writes the descriptive columns named in patch and nothing else.
func (r *MySQLSaleRepository) UpdateMetadata(ctx context.Context, id string, patch domain.SaleMetadataPatch) error {
	var (
		sets []string
		args []interface{}
	)
	if patch.SetCustomerName {
		sets = append(sets, "customerName = ?")
		args = append(args, patch.CustomerName)
	}
	if patch.SetCustomerAddress {
		sets = append(sets, "customerAddress = ?")
		args = append(args, patch.CustomerAddress)
	}
	if patch.SetNote {
		sets = append(sets, "note = ?")
		args = append(args, patch.Note)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE Sale SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating sale metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Sale not found: %s", id))
	}

	return nil
}

func (r *MySQLSaleRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM Sale WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Sale not found: %s", id))
	}

	return nil
}
