package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/dto"
	apperrors "shopledger/internal/errors"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type UseCase interface {
	Record(ctx context.Context, key string, req dto.RecordSaleRequest) (*domain.Sale, bool, error)
	Get(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*domain.Sale, error)
	Delete(ctx context.Context, id string) error
}

type SaleController struct {
	useCase  UseCase
	location *time.Location
	logger   *zap.Logger
}

// NewSaleController builds the handlers. Date filters are read in location.
func NewSaleController(useCase UseCase, location *time.Location, logger *zap.Logger) *SaleController {
	return &SaleController{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

func (c *SaleController) List(w http.ResponseWriter, r *http.Request) {
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

	sales, err := c.useCase.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToSaleDTOs(sales), c.logger)
}

// Create commits a sale: 201 for a new sale, 200 when an Idempotency-Key
// replays one that already exists.
func (c *SaleController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.RecordSaleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	if err := commons.Validate(req, "Product required"); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	sale, replayed, err := c.useCase.Record(r.Context(), key, req)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	commons.WriteJSON(w, status, dto.ToSaleDTO(*sale), c.logger)
}

func (c *SaleController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	sale, err := c.useCase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToSaleDTO(*sale), c.logger)
}

func (c *SaleController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.UpdateSaleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	if err := commons.Validate(req, "invalid sale update"); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	sale, err := c.useCase.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToSaleDTO(*sale), c.logger)
}

func (c *SaleController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	if err := c.useCase.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.OKResponse{OK: true}, c.logger)
}
