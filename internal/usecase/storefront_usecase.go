package usecase

import (
	"context"
	"time"

	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
)

// StorefrontUseCase отдаёт список товаров публичной витрины по схеме
// cache-aside: промах или ошибка кэша ведут к чтению из документного
// хранилища с фоновым заполнением кэша.
type StorefrontUseCase struct {
	docRepo   DocumentRepository
	cacheRepo CacheRepository
	logger    logger.Logger
	scope     Scope
}

func NewStorefrontUC(docRepo DocumentRepository, cacheRepo CacheRepository, logger logger.Logger, scope Scope) *StorefrontUseCase {
	return &StorefrontUseCase{
		docRepo:   docRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		scope:     scope,
	}
}

// GetProducts возвращает товары витрины, опционально отфильтрованные по категории.
func (s *StorefrontUseCase) GetProducts(ctx context.Context, category string) ([]ProductView, error) {
	const op = "StorefrontUseCase.GetProducts"

	views, err := s.cacheRepo.GetProducts(ctx, s.scope.Key())
	if err != nil {
		s.logger.Warnf("products cache read failed: %v", e.Wrap(op, err))
		views = nil
	}

	if views == nil {
		products, err := s.docRepo.List(ctx, s.scope.Collection())
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		views = NewProductViews(products)

		// Фоновое заполнение кэша
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := s.cacheRepo.SetProducts(bgCtx, s.scope.Key(), views); err != nil {
				s.logger.Warnf("failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	if category == "" {
		return views, nil
	}

	filtered := make([]ProductView, 0, len(views))
	for _, v := range views {
		if v.Category == category {
			filtered = append(filtered, v)
		}
	}

	return filtered, nil
}
