package sale

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"shopledger/internal/clock"
	"shopledger/internal/config"
	"shopledger/internal/sale/controller"
	"shopledger/internal/sale/repository"
	"shopledger/internal/sale/service"
	"shopledger/internal/sale/usecase"
)

// Module exposes the sale controller and the read service the report module
// uses for recent sales.
type Module struct {
	Controller *controller.SaleController
	Reader     *service.SaleService
}

func NewModule(
	db *sql.DB,
	products service.ProductRepository,
	idempotency usecase.IdempotencyStore,
	metrics usecase.SaleMetrics,
	clk clock.Clock,
	location *time.Location,
	cfg config.SaleConfig,
	logger *zap.Logger,
) *Module {
	saleRepo := repository.NewMySQLSaleRepository(db)
	saleItemRepo := repository.NewMySQLSaleItemRepository(db)

	engine := service.NewTransactionService(
		db,
		products,
		saleRepo,
		saleItemRepo,
		clk,
		logger,
		cfg.TxTimeout,
	)
	reader := service.NewSaleService(saleRepo, saleItemRepo, logger)

	uc := usecase.NewSaleUseCase(engine, reader, idempotency, metrics, logger, cfg.MaxItems)

	return &Module{
		Controller: controller.NewSaleController(uc, location, logger),
		Reader:     reader,
	}
}
