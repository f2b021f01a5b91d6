package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/happy-paws/catalog-backend/internal/domain"
)

// --- Fakes ---

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type fakeDocRepo struct {
	mu       sync.Mutex
	docs     map[string]*domain.Product
	nextID   int
	createds []string
	deleted  []string

	createErr error
	upsertErr error
	deleteErr error
	listErr   error
	listRes   []domain.Product
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*domain.Product)}
}

func (f *fakeDocRepo) CreateWithGeneratedID(ctx context.Context, collection string, product *domain.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}

	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	p := *product
	p.ID = id
	f.docs[id] = &p
	f.createds = append(f.createds, id)
	return id, nil
}

func (f *fakeDocRepo) UpsertMerge(ctx context.Context, collection string, id string, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}

	p := *product
	p.ID = id
	f.docs[id] = &p
	return nil
}

func (f *fakeDocRepo) DeleteByID(ctx context.Context, collection string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}

	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocRepo) List(ctx context.Context, collection string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listRes, nil
}

func (f *fakeDocRepo) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent

	createErr error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) created() []*OutboxEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*OutboxEvent, len(f.events))
	copy(out, f.events)
	return out
}

type fakeCacheRepo struct {
	mu          sync.Mutex
	stored      map[string][]ProductView
	invalidated []string

	getErr error
	setErr error
	delErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{stored: make(map[string][]ProductView)}
}

func (f *fakeCacheRepo) GetProducts(ctx context.Context, scopeKey string) ([]ProductView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored[scopeKey], nil
}

func (f *fakeCacheRepo) SetProducts(ctx context.Context, scopeKey string, products []ProductView) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}
	f.stored[scopeKey] = products
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(ctx context.Context, scopeKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}
	f.invalidated = append(f.invalidated, scopeKey)
	delete(f.stored, scopeKey)
	return nil
}

// fakeTx выполняет функцию без настоящей транзакции.
type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// blockingTx задерживает каждую транзакцию до явного release,
// позволяя тесту пересечь две мутации во времени.
type blockingTx struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingTx() *blockingTx {
	return &blockingTx{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	b.entered <- struct{}{}
	<-b.release
	return fn(ctx)
}

type fakeImages struct {
	mu       sync.Mutex
	uploads  []string
	cleanups [][]string

	uploadErr error
	url       string
	objectKey string
}

func (f *fakeImages) UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, req.ProductName)
	return NewUploadImageRes(f.url, f.objectKey), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleanups = append(f.cleanups, keys)
}

func (f *fakeImages) cleanedUp() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]string, len(f.cleanups))
	copy(out, f.cleanups)
	return out
}

// fakeSubscriber отдаёт снапшоты, проталкиваемые тестом вручную.
type fakeSubscriber struct {
	mu       sync.Mutex
	channels map[string]chan []domain.Product

	subscribeErr error
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{channels: make(map[string]chan []domain.Product)}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, collection string) (<-chan []domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}

	ch := make(chan []domain.Product, 16)
	f.channels[collection] = ch

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		close(ch)
		delete(f.channels, collection)
	}()

	return ch, nil
}

func (f *fakeSubscriber) push(collection string, snapshot []domain.Product) {
	f.mu.Lock()
	ch := f.channels[collection]
	f.mu.Unlock()

	if ch != nil {
		ch <- snapshot
	}
}

type fakeTips struct {
	res string
	err error
}

func (f *fakeTips) GenerateText(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.res, nil
}
