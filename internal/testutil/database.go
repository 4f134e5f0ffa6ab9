package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopledger/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/shopledger_test?parseTime=true&loc=UTC&clientFoundRows=true"

// SetupTestDB connects to the integration database, skipping the test when it
// is unreachable. SHOPLEDGER_TEST_DSN overrides the default local DSN.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("SHOPLEDGER_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema and empties it.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	truncate(t, db)
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	tables := mysql.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", tables[i])); err != nil {
			t.Logf("failed to clean table %s: %v", tables[i], err)
		}
	}
}

func InsertCategory(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.New().String()
	if _, err := db.Exec(`INSERT INTO Category (id, name) VALUES (?, ?)`, id, name); err != nil {
		t.Fatalf("failed to insert category %s: %v", name, err)
	}
	return id
}

// InsertProduct adds a product with the given stock and prices and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, categoryID, name string, cost, selling float64, quantity int) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO Product (id, name, categoryId, costPrice, sellingPrice, quantity, unit)
		VALUES (?, ?, ?, ?, ?, ?, 'pcs')`,
		id, name, categoryID, decimal.NewFromFloat(cost), decimal.NewFromFloat(selling), quantity,
	)
	if err != nil {
		t.Fatalf("failed to insert product %s: %v", name, err)
	}
	return id
}

func ProductQuantity(t *testing.T, db *sql.DB, id string) int {
	t.Helper()

	var qty int
	if err := db.QueryRow(`SELECT quantity FROM Product WHERE id = ?`, id).Scan(&qty); err != nil {
		t.Fatalf("failed to read quantity of %s: %v", id, err)
	}
	return qty
}
