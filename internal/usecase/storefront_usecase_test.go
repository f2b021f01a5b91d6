package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontUC_CacheHit(t *testing.T) {
	docRepo := newFakeDocRepo()
	docRepo.listErr = errors.New("must not reach the store")
	cacheRepo := newFakeCacheRepo()
	cacheRepo.stored["global"] = []ProductView{{ID: "1", Name: "Brush", Category: "grooming"}}

	uc := NewStorefrontUC(docRepo, cacheRepo, nopLogger{}, Scope{Mode: ScopeGlobal})

	views, err := uc.GetProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Brush", views[0].Name)
}

func TestStorefrontUC_CacheMissFallsBackToStore(t *testing.T) {
	docRepo := newFakeDocRepo()
	docRepo.listRes = []domain.Product{
		{ID: "1", Name: "Brush", Category: "grooming"},
		{ID: "2", Name: "Leash", Category: "walking"},
	}
	cacheRepo := newFakeCacheRepo()

	uc := NewStorefrontUC(docRepo, cacheRepo, nopLogger{}, Scope{Mode: ScopeGlobal})

	views, err := uc.GetProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, views, 2)

	// кэш наполняется в фоне
	require.Eventually(t, func() bool {
		cached, _ := cacheRepo.GetProducts(context.Background(), "global")
		return len(cached) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestStorefrontUC_CacheErrorIsNotFatal(t *testing.T) {
	docRepo := newFakeDocRepo()
	docRepo.listRes = []domain.Product{{ID: "1", Name: "Brush"}}
	cacheRepo := newFakeCacheRepo()
	cacheRepo.getErr = errors.New("redis down")
	cacheRepo.setErr = errors.New("redis down")

	uc := NewStorefrontUC(docRepo, cacheRepo, nopLogger{}, Scope{Mode: ScopeGlobal})

	views, err := uc.GetProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestStorefrontUC_CategoryFilter(t *testing.T) {
	docRepo := newFakeDocRepo()
	docRepo.listRes = []domain.Product{
		{ID: "1", Name: "Brush", Category: "grooming"},
		{ID: "2", Name: "Leash", Category: "walking"},
		{ID: "3", Name: "Shampoo", Category: "grooming"},
	}

	uc := NewStorefrontUC(docRepo, newFakeCacheRepo(), nopLogger{}, Scope{Mode: ScopeGlobal})

	views, err := uc.GetProducts(context.Background(), "grooming")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Brush", views[0].Name)
	assert.Equal(t, "Shampoo", views[1].Name)
}

func TestStorefrontUC_StoreErrorPropagates(t *testing.T) {
	docRepo := newFakeDocRepo()
	docRepo.listErr = errors.New("backend unavailable")

	uc := NewStorefrontUC(docRepo, newFakeCacheRepo(), nopLogger{}, Scope{Mode: ScopeGlobal})

	_, err := uc.GetProducts(context.Background(), "")
	assert.Error(t, err)
}
