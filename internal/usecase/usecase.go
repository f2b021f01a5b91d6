package usecase

import (
	"context"

	"github.com/happy-paws/catalog-backend/internal/domain"
)

// CatalogUC — интерфейс движка каталога для одного scope.
type CatalogUC interface {
	AddProduct(ctx context.Context, req *AddProductReq) error
	EditProduct(ctx context.Context, req *EditProductReq) error
	DeleteProduct(ctx context.Context, productID string) error

	Products() []domain.Product
	Watch(ctx context.Context) <-chan []domain.Product

	Pending() (*PendingConfirmationView, bool)
	Confirm() error
	Cancel() error
}

// StorefrontUC — публичная витрина товаров.
type StorefrontUC interface {
	GetProducts(ctx context.Context, category string) ([]ProductView, error)
}

// TipsUC — советы по уходу за питомцами через внешний AI-сервис.
type TipsUC interface {
	CareTips(ctx context.Context, req *CareTipsReq) (*CareTipsRes, error)
}
