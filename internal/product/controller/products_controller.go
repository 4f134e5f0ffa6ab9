package controller

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/dto"
)

type UseCase interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductController struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewProductController(useCase UseCase, logger *zap.Logger) *ProductController {
	return &ProductController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	products, err := c.useCase.List(r.Context(), parseFilter(r))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToProductDTOs(products), c.logger)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	product, err := c.useCase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToProductDTO(*product), c.logger)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.CreateProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	if err := commons.Validate(req, "Name and category required"); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	product, err := c.useCase.Create(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.ToProductDTO(*product), c.logger)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.UpdateProductRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	if err := commons.Validate(req, "invalid product update"); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	product, err := c.useCase.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToProductDTO(*product), c.logger)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	if err := c.useCase.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.OKResponse{OK: true}, c.logger)
}

func parseFilter(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()
	return domain.ProductFilter{
		InStock:       flag(q, "inStock"),
		LowStock:      flag(q, "lowStock"),
		Query:         strings.TrimSpace(q.Get("q")),
		CategoryID:    strings.TrimSpace(q.Get("categoryId")),
		Brand:         strings.TrimSpace(q.Get("brand")),
		PurchasedFrom: strings.TrimSpace(q.Get("purchasedFrom")),
	}
}

// flag treats a bare "?inStock" as true.
func flag(q url.Values, key string) bool {
	values, ok := q[key]
	if !ok {
		return false
	}
	if len(values) == 0 || values[0] == "" {
		return true
	}
	b, err := strconv.ParseBool(values[0])
	return err == nil && b
}
