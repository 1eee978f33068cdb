package catalog

import (
	"context"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const (
	categoryLimit = 10
	relatedLimit  = 4

	defaultListLimit = 10
	maxListLimit     = 100
)

type Service interface {
	GetByCategory(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	GetRelated(ctx context.Context, category, excludeID string) ([]Product, error)
	Search(ctx context.Context, q string) ([]Product, error)
	GetList(ctx context.Context, opts ListOptions) ([]Product, error)
}

type service struct {
	repo  Repository
	cache Cache // nil when no cache is configured
}

func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) GetByCategory(ctx context.Context, category string) ([]Product, error) {
	if category == "" {
		return nil, apperr.Validation("category is required")
	}

	products, err := s.repo.GetByCategory(ctx, category, categoryLimit)
	if err != nil {
		return nil, apperr.Store("failed to get products by category", err)
	}
	return products, nil
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	if !IsValidID(productID) {
		return nil, apperr.Validation("invalid product id")
	}

	if s.cache != nil {
		if p, ok := s.cache.GetProduct(ctx, productID); ok {
			return p, nil
		}
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, apperr.Store("failed to get product", err)
	}

	if p != nil && s.cache != nil {
		s.cache.SetProduct(ctx, p)
	}
	return p, nil
}

func (s *service) GetRelated(ctx context.Context, category, excludeID string) ([]Product, error) {
	if category == "" {
		return nil, apperr.Validation("category is required")
	}
	if !IsValidID(excludeID) {
		return nil, apperr.Validation("invalid product id")
	}

	products, err := s.repo.GetRelated(ctx, category, excludeID, relatedLimit)
	if err != nil {
		return nil, apperr.Store("failed to get related products", err)
	}
	return products, nil
}

func (s *service) Search(ctx context.Context, q string) ([]Product, error) {
	if q == "" {
		return nil, apperr.Validation("query parameter q is required")
	}

	products, err := s.repo.SearchByName(ctx, q)
	if err != nil {
		return nil, apperr.Store("failed to search products", err)
	}
	return products, nil
}

func (s *service) GetList(ctx context.Context, opts ListOptions) ([]Product, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	logger.FromCtx(ctx).Debug("listing products",
		zap.String("filter", opts.Filter),
		zap.Int("limit", opts.Limit),
		zap.Int("page", opts.Page),
	)

	products, err := s.repo.GetList(ctx, opts)
	if err != nil {
		return nil, apperr.Store("failed to list products", err)
	}
	return products, nil
}
