package category

import (
	"database/sql"

	"go.uber.org/zap"

	"shopledger/internal/category/controller"
	"shopledger/internal/category/repository"
	"shopledger/internal/category/service"
	"shopledger/internal/clock"
)

// Module exposes the category controller and the repository the product
// module uses to check category references.
type Module struct {
	Controller *controller.CategoryController
	Repository *repository.MySQLCategoryRepository
}

func NewModule(db *sql.DB, clk clock.Clock, logger *zap.Logger) *Module {
	repo := repository.NewMySQLCategoryRepository(db)
	svc := service.NewService(repo, clk, logger)
	return &Module{
		Controller: controller.NewCategoryController(svc, logger),
		Repository: repo,
	}
}
