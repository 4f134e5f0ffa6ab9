package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	categoryrepo "shopledger/internal/category/repository"
	categorysvc "shopledger/internal/category/service"
	"shopledger/internal/clock"
	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/infrastructure/logger"
	"shopledger/internal/infrastructure/mysql"
	productrepo "shopledger/internal/product/repository"
	productsvc "shopledger/internal/product/service"
)

var seedCategories = []string{"Painting", "Hardware", "Plumbing", "Electrical"}

const sampleProductName = "Sample Paint 1L"

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("SHOPLEDGER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := mysql.Migrate(ctx, db); err != nil {
		zapLogger.Fatal("migrating schema", zap.Error(err))
	}

	location, err := cfg.Report.Location()
	if err != nil {
		zapLogger.Fatal("resolving shop timezone", zap.Error(err))
	}
	clk := clock.NewRealClock(location)

	categories := categorysvc.NewService(categoryrepo.NewMySQLCategoryRepository(db), clk, zapLogger)
	products := productsvc.NewService(productrepo.NewMySQLRepository(db), clk)

	byName, err := ensureCategories(ctx, categories)
	if err != nil {
		zapLogger.Fatal("seeding categories", zap.Error(err))
	}

	if err := ensureSampleProduct(ctx, products, byName["Painting"]); err != nil {
		zapLogger.Fatal("seeding sample product", zap.Error(err))
	}

	zapLogger.Info("seed complete", zap.Int("categories", len(byName)))
}

// ensureCategories creates the missing seed categories and returns all of
// them keyed by name.
func ensureCategories(ctx context.Context, svc *categorysvc.Service) (map[string]string, error) {
	existing, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	for _, name := range seedCategories {
		if _, ok := byName[name]; ok {
			continue
		}
		created, err := svc.Create(ctx, name)
		if err != nil {
			return nil, err
		}
		byName[name] = created.ID
	}

	return byName, nil
}

func ensureSampleProduct(ctx context.Context, svc *productsvc.ProductService, categoryID string) error {
	matches, err := svc.List(ctx, domain.ProductFilter{Query: sampleProductName})
	if err != nil {
		return err
	}
	for _, p := range matches {
		if p.Name == sampleProductName {
			return nil
		}
	}

	minStock := 10
	_, err = svc.Create(ctx, domain.Product{
		Name:         sampleProductName,
		CategoryID:   categoryID,
		CostPrice:    decimal.NewFromInt(200),
		SellingPrice: decimal.NewFromInt(280),
		Quantity:     50,
		Unit:         domain.DefaultUnit,
		MinStock:     &minStock,
	})
	return err
}
