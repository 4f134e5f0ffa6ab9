package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopledger/internal/clock"
	"shopledger/internal/domain"
	apperrors "shopledger/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	Insert(ctx context.Context, c domain.Category) error
}

type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{repo: repo, clock: clk, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("Name required", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must not be blank",
		})
	}

	category := domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Insert(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.String("categoryId", category.ID), zap.String("name", category.Name))
	return &category, nil
}
