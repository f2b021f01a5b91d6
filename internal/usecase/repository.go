package usecase

import (
	"context"

	"github.com/happy-paws/catalog-backend/internal/domain"
)

// DocumentRepository — адаптер удалённого документного хранилища товаров.
// Мутации выполняются внутри транзакции из контекста (pkg/tr).
type DocumentRepository interface {
	CreateWithGeneratedID(ctx context.Context, collection string, product *domain.Product) (string, error)
	UpsertMerge(ctx context.Context, collection string, id string, product *domain.Product) error
	DeleteByID(ctx context.Context, collection string, id string) error
	List(ctx context.Context, collection string) ([]domain.Product, error)
}

// SnapshotSubscriber открывает живую подписку на коллекцию: каждое серверное
// изменение доставляет полный актуальный список, а не дифф. Канал закрывается
// при отмене контекста или фатальной ошибке подписки.
type SnapshotSubscriber interface {
	Subscribe(ctx context.Context, collection string) (<-chan []domain.Product, error)
}

// Transactor выполняет функцию внутри одной транзакции БД,
// кладя объект транзакции в контекст.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxRepository — transactional outbox для событий изменения каталога.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) error
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

// ImageRepository — низкоуровневое объектное хранилище изображений.
type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// CacheRepository кэширует списки товаров витрины по ключу scope.
type CacheRepository interface {
	GetProducts(ctx context.Context, scopeKey string) ([]ProductView, error)
	SetProducts(ctx context.Context, scopeKey string, products []ProductView) error
	DeleteProducts(ctx context.Context, scopeKey string) error
}
