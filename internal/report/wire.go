package report

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"shopledger/internal/clock"
	"shopledger/internal/report/controller"
	"shopledger/internal/report/repository"
	"shopledger/internal/report/service"
)

type Module struct {
	Controller *controller.ReportController
}

func NewModule(
	db *sql.DB,
	products service.ProductLister,
	sales service.SaleLister,
	clk clock.Clock,
	location *time.Location,
	recentLimit int,
	logger *zap.Logger,
) *Module {
	repo := repository.NewMySQLReportRepository(db)
	svc := service.NewReportService(products, repo, sales, clk, location, recentLimit, logger)
	return &Module{
		Controller: controller.NewReportController(svc, location, logger),
	}
}
