package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shopledger/internal/domain"
	"shopledger/internal/errors"
	"shopledger/internal/infrastructure/mysql"
)

type MySQLCategoryRepository struct {
	db *sql.DB
}

func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

func (r *MySQLCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, createdAt FROM Category ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT id, name, createdAt FROM Category WHERE id = ?`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Category not found: %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}

	return &c, nil
}

func (r *MySQLCategoryRepository) Insert(ctx context.Context, c domain.Category) error {
	query := `INSERT INTO Category (id, name, createdAt) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.CreatedAt)
	if mysql.IsDuplicateEntry(err) {
		return errors.NewConflictError(fmt.Sprintf("Category already exists: %s", c.Name))
	}
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	return nil
}
