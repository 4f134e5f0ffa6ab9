package product

import (
	"database/sql"

	"go.uber.org/zap"

	"shopledger/internal/clock"
	"shopledger/internal/product/controller"
	"shopledger/internal/product/repository"
	"shopledger/internal/product/service"
	"shopledger/internal/product/usecase"
)

// Module exposes the product controller and the repository shared with the
// sale and report modules.
type Module struct {
	Controller *controller.ProductController
	Repository *repository.MySQLRepository
}

func NewModule(db *sql.DB, categories usecase.CategoryFinder, clk clock.Clock, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo, clk)
	uc := usecase.NewProductUseCase(svc, categories, logger)
	return &Module{
		Controller: controller.NewProductController(uc, logger),
		Repository: repo,
	}
}
