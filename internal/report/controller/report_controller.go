package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

type Service interface {
	Summary(ctx context.Context) (*domain.Summary, error)
	Revenue(ctx context.Context, filter domain.SaleFilter) (domain.Totals, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
}

type ReportController struct {
	service  Service
	location *time.Location
	logger   *zap.Logger
}

func NewReportController(service Service, location *time.Location, logger *zap.Logger) *ReportController {
	return &ReportController{
		service:  service,
		location: location,
		logger:   logger,
	}
}

func (c *ReportController) Summary(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	summary, err := c.service.Summary(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToSummaryDTO(*summary), c.logger)
}

func (c *ReportController) Revenue(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	q := r.URL.Query()
	filter, err := domain.NewSaleFilter(strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")), c.location)
	if err != nil {
		commons.WriteError(w, traceID, apperrors.NewValidationError(err.Error(), apperrors.ValidationDetail{
			Field:   "from/to",
			Message: "dates must be YYYY-MM-DD",
		}), c.logger)
		return
	}

	totals, err := c.service.Revenue(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.RevenueDTO{
		From:      filter.From,
		To:        filter.To,
		TotalsDTO: dto.ToTotalsDTO(totals),
	}, c.logger)
}

func (c *ReportController) LowStock(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	products, err := c.service.LowStock(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToProductDTOs(products), c.logger)
}
