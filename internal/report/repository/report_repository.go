package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shopledger/internal/domain"
)

type MySQLReportRepository struct {
	db *sql.DB
}

func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

// SumSales totals revenue and profit of sales dated inside w. A zero bound
// leaves that side of the window open.
func (r *MySQLReportRepository) SumSales(ctx context.Context, w domain.Window) (domain.Totals, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if !w.Start.IsZero() {
		conditions = append(conditions, "saleDate >= ?")
		args = append(args, w.Start.UTC())
	}
	if !w.End.IsZero() {
		conditions = append(conditions, "saleDate < ?")
		args = append(args, w.End.UTC())
	}

	query := `SELECT COALESCE(SUM(totalAmount), 0), COALESCE(SUM(totalProfit), 0), COUNT(*) FROM Sale`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var totals domain.Totals
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&totals.Revenue, &totals.Profit, &totals.SaleCount)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("summing sales: %w", err)
	}

	return totals, nil
}
