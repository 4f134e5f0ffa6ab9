package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
)

type ProductLister interface {
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type SalesSummer interface {
	SumSales(ctx context.Context, w domain.Window) (domain.Totals, error)
}

type SaleLister interface {
	List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
}

// ReportService computes read-only rollups over products and sales. Calendar
// boundaries are taken in the shop location.
type ReportService struct {
	products    ProductLister
	sums        SalesSummer
	sales       SaleLister
	clock       clock.Clock
	location    *time.Location
	recentLimit int
	logger      *zap.Logger
}

func NewReportService(
	products ProductLister,
	sums SalesSummer,
	sales SaleLister,
	clk clock.Clock,
	location *time.Location,
	recentLimit int,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		products:    products,
		sums:        sums,
		sales:       sales,
		clock:       clk,
		location:    location,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// Summary builds the dashboard: stock value, period rollups, low stock and
// today's most recent sales.
func (s *ReportService) Summary(ctx context.Context) (*domain.Summary, error) {
	now := s.clock.Now().In(s.location)
	var summary domain.Summary

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.products.FindAll(ctx, domain.ProductFilter{})
		if err != nil {
			return err
		}
		summary.StockValue = domain.StockValue(products)
		summary.TotalProducts = len(products)
		summary.LowStock = domain.LowStock(products)
		return nil
	})

	windows := []struct {
		window domain.Window
		dst    *domain.Totals
	}{
		{domain.TodayWindow(now), &summary.Today},
		{domain.WeekWindow(now), &summary.Week},
		{domain.MonthWindow(now), &summary.Month},
		{domain.YearWindow(now), &summary.Year},
	}
	for _, w := range windows {
		g.Go(func() error {
			totals, err := s.sums.SumSales(ctx, w.window)
			if err != nil {
				return err
			}
			*w.dst = totals
			return nil
		})
	}

	g.Go(func() error {
		todayStart := domain.StartOfDay(now)
		recent, err := s.sales.List(ctx, domain.SaleFilter{From: &todayStart, Limit: s.recentLimit})
		if err != nil {
			return err
		}
		summary.RecentSales = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build summary", zap.Error(err))
		return nil, err
	}

	return &summary, nil
}

// Revenue totals sales within the filter's inclusive date range.
func (s *ReportService) Revenue(ctx context.Context, filter domain.SaleFilter) (domain.Totals, error) {
	return s.sums.SumSales(ctx, filter.Window())
}

func (s *ReportService) LowStock(ctx context.Context) ([]domain.Product, error) {
	return s.products.FindAll(ctx, domain.ProductFilter{LowStock: true})
}
