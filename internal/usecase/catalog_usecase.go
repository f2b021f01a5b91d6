package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	// deferredOpTimeout ограничивает операцию, запущенную из подтверждённого действия:
	// у неё нет живого HTTP-контекста.
	deferredOpTimeout = 15 * time.Second
)

// CatalogUseCase поддерживает живое зеркало коллекции товаров одного scope
// и сериализует намерения администратора в операции документного хранилища.
// Зеркало меняется только целыми снапшотами, которые присылает подписка:
// локальных оптимистичных правок нет, поэтому замена идемпотентна и
// не зависит от порядка прихода снапшотов относительно собственных записей.
type CatalogUseCase struct {
	docRepo    DocumentRepository
	outboxRepo OutboxRepository
	cacheRepo  CacheRepository
	tx         Transactor
	images     ImagesInfra
	subscriber SnapshotSubscriber
	gate       *ConfirmGate
	logger     logger.Logger
	scope      Scope

	mu       sync.RWMutex
	mirror   []domain.Product
	watchers map[chan []domain.Product]struct{}

	runCancel context.CancelFunc
	done      chan struct{}
	started   bool
}

func NewCatalogUC(
	docRepo DocumentRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	tx Transactor,
	images ImagesInfra,
	subscriber SnapshotSubscriber,
	logger logger.Logger,
	scope Scope,
) *CatalogUseCase {
	return &CatalogUseCase{
		docRepo:    docRepo,
		outboxRepo: outboxRepo,
		cacheRepo:  cacheRepo,
		tx:         tx,
		images:     images,
		subscriber: subscriber,
		gate:       NewConfirmGate(),
		logger:     logger,
		scope:      scope,
		watchers:   make(map[chan []domain.Product]struct{}),
	}
}

// Start открывает единственную живую подписку на коллекцию scope.
// Каждый снапшот целиком замещает зеркало. При ошибке подписки зеркало
// остаётся на последнем известном состоянии и повторная подписка не выполняется.
func (c *CatalogUseCase) Start(ctx context.Context) error {
	const op = "CatalogUseCase.Start"

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	snapshots, err := c.subscriber.Subscribe(runCtx, c.scope.Collection())
	if err != nil {
		cancel()
		c.mu.Unlock()
		return e.Wrap(op, err)
	}

	c.runCancel = cancel
	c.done = make(chan struct{})
	c.started = true
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		for snapshot := range snapshots {
			c.applySnapshot(snapshot)
		}
		c.logger.Infof("catalog subscription closed, collection: %s", c.scope.Collection())
	}()

	return nil
}

// Stop отменяет подписку; после возврата ни один снапшот не применяется.
func (c *CatalogUseCase) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	cancel := c.runCancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// applySnapshot целиком замещает зеркало содержимым снапшота.
// Наблюдатели уведомляются под мьютексом: это исключает гонку отправки
// в закрываемый канал при отписке.
func (c *CatalogUseCase) applySnapshot(snapshot []domain.Product) {
	mirror := make([]domain.Product, len(snapshot))
	copy(mirror, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mirror = mirror
	for w := range c.watchers {
		pushLatest(w, mirror)
	}
}

// pushLatest кладёт снапшот в канал наблюдателя, вытесняя неснятый устаревший.
func pushLatest(w chan []domain.Product, snapshot []domain.Product) {
	for {
		select {
		case w <- snapshot:
			return
		default:
			select {
			case <-w:
			default:
			}
		}
	}
}

// Products возвращает копию текущего зеркала.
func (c *CatalogUseCase) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, len(c.mirror))
	copy(products, c.mirror)

	return products
}

// Watch возвращает канал, в который приходит текущее зеркало и каждое его
// обновление. Буфер на один элемент: медленный потребитель видит только
// последнее состояние. Канал закрывается при отмене контекста.
func (c *CatalogUseCase) Watch(ctx context.Context) <-chan []domain.Product {
	w := make(chan []domain.Product, 1)

	c.mu.Lock()
	c.watchers[w] = struct{}{}
	current := make([]domain.Product, len(c.mirror))
	copy(current, c.mirror)
	pushLatest(w, current)
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.watchers, w)
		c.mu.Unlock()
		close(w)
	}()

	return w
}

// AddProduct проверяет поля, при необходимости загружает изображение и создаёт
// документ товара вместе с outbox-событием в одной транзакции.
// Любая ошибка превращается в информационный диалог и не ретраится.
func (c *CatalogUseCase) AddProduct(ctx context.Context, req *AddProductReq) error {
	const op = "CatalogUseCase.AddProduct"

	validation := validateProductFields(req.Name, req.Description, req.Price, req.Category)
	if !validation.OK() || !imageResolvable(req.Image, req.ImageURL) {
		c.gate.Open("Please fill in all fields and select an image.", nil)
		if !validation.OK() {
			return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrMissingFields, validation))
		}
		return e.Wrap(op, e.ErrImageRequired)
	}

	imageURL := req.ImageURL
	var uploadedKey string
	if req.Image != nil {
		uploadRes, err := c.images.UploadImage(ctx, NewUploadImageReq(req.Name, *req.Image))
		if err != nil {
			c.gate.Open(fmt.Sprintf("Error adding product: %v", err), nil)
			return e.Wrap(op, err)
		}
		imageURL = uploadRes.URL
		uploadedKey = uploadRes.ObjectKey
	}

	product := domain.NewProduct(req.Name, req.Description, req.Price, req.Category, imageURL)
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := c.docRepo.CreateWithGeneratedID(ctx, c.scope.Collection(), product)
		if err != nil {
			return err
		}
		product.ID = id

		return c.outboxRepo.Create(ctx, c.newChangeEvent(OutboxEventProductUpserted, id, product))
	})
	if err != nil {
		// Компенсация: документ не создан, загруженный файл осиротел
		if uploadedKey != "" {
			c.images.CleanupImages([]string{uploadedKey})
		}
		c.gate.Open(fmt.Sprintf("Error adding product: %v", err), nil)
		return e.Wrap(op, err)
	}

	c.invalidateCache(ctx, op)

	return nil
}

// EditProduct загружает новое изображение, если оно выбрано, и выполняет
// upsert-merge полной записи по существующему id.
func (c *CatalogUseCase) EditProduct(ctx context.Context, req *EditProductReq) error {
	const op = "CatalogUseCase.EditProduct"

	if req.ID == "" {
		return e.Wrap(op, e.ErrProductNotFound)
	}

	validation := validateProductFields(req.Name, req.Description, req.Price, req.Category)
	if !validation.OK() {
		c.gate.Open("Please fill in all fields to edit the product.", nil)
		return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrMissingFields, validation))
	}

	imageURL := req.ImageURL
	var uploadedKey string
	if req.Image != nil {
		uploadRes, err := c.images.UploadImage(ctx, NewUploadImageReq(req.Name, *req.Image))
		if err != nil {
			c.gate.Open(fmt.Sprintf("Error updating product: %v", err), nil)
			return e.Wrap(op, err)
		}
		imageURL = uploadRes.URL
		uploadedKey = uploadRes.ObjectKey
	}

	product := domain.NewProduct(req.Name, req.Description, req.Price, req.Category, imageURL)
	product.ID = req.ID

	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := c.docRepo.UpsertMerge(ctx, c.scope.Collection(), req.ID, product); err != nil {
			return err
		}

		return c.outboxRepo.Create(ctx, c.newChangeEvent(OutboxEventProductUpserted, req.ID, product))
	})
	if err != nil {
		if uploadedKey != "" {
			c.images.CleanupImages([]string{uploadedKey})
		}
		c.gate.Open(fmt.Sprintf("Error updating product: %v", err), nil)
		return e.Wrap(op, err)
	}

	c.invalidateCache(ctx, op)

	return nil
}

// DeleteProduct никогда не удаляет напрямую: намерение проходит через гейт
// подтверждения, а само удаление выполняется отложенным действием.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, productID string) error {
	const op = "CatalogUseCase.DeleteProduct"

	if productID == "" {
		return e.Wrap(op, e.ErrProductNotFound)
	}

	c.gate.Open("Are you sure you want to delete this product?", func() {
		opCtx, cancel := context.WithTimeout(context.Background(), deferredOpTimeout)
		defer cancel()

		if err := c.performDelete(opCtx, productID); err != nil {
			c.gate.Open(fmt.Sprintf("Error deleting product: %v", err), nil)
		}
	})

	return nil
}

// performDelete удаляет документ и записывает outbox-событие в одной транзакции.
// Зеркало не трогается: товар исчезнет со следующим снапшотом подписки.
func (c *CatalogUseCase) performDelete(ctx context.Context, productID string) error {
	const op = "CatalogUseCase.performDelete"

	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := c.docRepo.DeleteByID(ctx, c.scope.Collection(), productID); err != nil {
			return err
		}

		return c.outboxRepo.Create(ctx, c.newChangeEvent(OutboxEventProductDeleted, productID, nil))
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateCache(ctx, op)

	return nil
}

// Pending возвращает текущее ожидающее подтверждение, если оно есть.
func (c *CatalogUseCase) Pending() (*PendingConfirmationView, bool) {
	return c.gate.Pending()
}

// Confirm выполняет отложенное действие и освобождает слот.
func (c *CatalogUseCase) Confirm() error {
	return c.gate.Confirm()
}

// Cancel отбрасывает отложенное действие без выполнения.
func (c *CatalogUseCase) Cancel() error {
	return c.gate.Cancel()
}

// newChangeEvent собирает outbox-событие с JSON-нагрузкой для Kafka.
func (c *CatalogUseCase) newChangeEvent(eventType OutboxEventType, productID string, product *domain.Product) *OutboxEvent {
	event := ProductChangeEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: time.Now().UnixNano(),
		Operation:      eventType,
		Collection:     c.scope.Collection(),
		ProductID:      productID,
	}
	if product != nil {
		event.Product = NewProductPayload(product)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		// Событие из фиксированных типов не может не сериализоваться
		c.logger.Warnf("failed to marshal change event: %v", err)
	}

	return NewOutboxEvent(event.EventID, eventType, productID, payload)
}

// invalidateCache сбрасывает кэш витрины после успешной мутации.
// Ошибка кэша не считается ошибкой операции.
func (c *CatalogUseCase) invalidateCache(ctx context.Context, op string) {
	if err := c.cacheRepo.DeleteProducts(ctx, c.scope.Key()); err != nil {
		c.logger.Warnf("failed to invalidate products cache: %v", e.Wrap(op, err))
	}
}
