package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// SaleItem.productId deliberately has no foreign key: deleting a product
// leaves historical sale lines pointing at the old id.
var schema = []struct {
	table string
	ddl   string
}{
	{"Category", `
	CREATE TABLE IF NOT EXISTS Category (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		UNIQUE KEY uq_category_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"Product", `
	CREATE TABLE IF NOT EXISTS Product (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		categoryId CHAR(36) NOT NULL,
		costPrice DECIMAL(12,2) NOT NULL DEFAULT 0,
		sellingPrice DECIMAL(12,2) NOT NULL DEFAULT 0,
		quantity INT NOT NULL DEFAULT 0,
		unit VARCHAR(32) NOT NULL DEFAULT 'pcs',
		minStock INT NULL,
		brand VARCHAR(255) NULL,
		purchasedFrom VARCHAR(255) NULL,
		sku VARCHAR(100) NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		INDEX idx_product_name (name),
		INDEX idx_product_category (categoryId),
		CONSTRAINT fk_product_category FOREIGN KEY (categoryId) REFERENCES Category(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"Sale", `
	CREATE TABLE IF NOT EXISTS Sale (
		id CHAR(36) NOT NULL PRIMARY KEY,
		saleDate DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		totalAmount DECIMAL(12,2) NOT NULL,
		totalProfit DECIMAL(12,2) NOT NULL,
		customerName VARCHAR(255) NULL,
		customerAddress VARCHAR(500) NULL,
		note TEXT NULL,
		INDEX idx_sale_date (saleDate)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"SaleItem", `
	CREATE TABLE IF NOT EXISTS SaleItem (
		id CHAR(36) NOT NULL PRIMARY KEY,
		saleId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		unitPrice DECIMAL(12,2) NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		costPrice DECIMAL(12,2) NOT NULL,
		profit DECIMAL(12,2) NOT NULL,
		lineNo INT NOT NULL DEFAULT 0,
		INDEX idx_sale_item_sale (saleId, lineNo),
		INDEX idx_sale_item_product (productId),
		CONSTRAINT fk_sale_item_sale FOREIGN KEY (saleId) REFERENCES Sale(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Tables lists the schema tables in dependency order.
func Tables() []string {
	names := make([]string, 0, len(schema))
	for _, s := range schema {
		names = append(names, s.table)
	}
	return names
}

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", s.table, err)
		}
	}
	return nil
}
