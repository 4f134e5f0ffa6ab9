package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"shopledger/internal/commons"
	"shopledger/internal/domain"
	"shopledger/internal/dto"
)

type Service interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
}

type CategoryController struct {
	service Service
	logger  *zap.Logger
}

func NewCategoryController(service Service, logger *zap.Logger) *CategoryController {
	return &CategoryController{
		service: service,
		logger:  logger,
	}
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	categories, err := c.service.List(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.ToCategoryDTOs(categories), c.logger)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	var req dto.CreateCategoryRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	if err := commons.Validate(req, "Name required"); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	category, err := c.service.Create(r.Context(), req.Name)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.ToCategoryDTO(*category), c.logger)
}
