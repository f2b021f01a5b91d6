package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/happy-paws/catalog-backend/internal/cfg"
	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Stubs ---

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type stubDocRepo struct {
	deleted []string
}

func (s *stubDocRepo) CreateWithGeneratedID(ctx context.Context, collection string, product *domain.Product) (string, error) {
	return "id-1", nil
}

func (s *stubDocRepo) UpsertMerge(ctx context.Context, collection string, id string, product *domain.Product) error {
	return nil
}

func (s *stubDocRepo) DeleteByID(ctx context.Context, collection string, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubDocRepo) List(ctx context.Context, collection string) ([]domain.Product, error) {
	return nil, nil
}

type stubOutboxRepo struct{}

func (stubOutboxRepo) Create(ctx context.Context, event *usecase.OutboxEvent) error { return nil }
func (stubOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	return nil, nil
}
func (stubOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error { return nil }

type stubCacheRepo struct{}

func (stubCacheRepo) GetProducts(ctx context.Context, scopeKey string) ([]usecase.ProductView, error) {
	return nil, nil
}
func (stubCacheRepo) SetProducts(ctx context.Context, scopeKey string, products []usecase.ProductView) error {
	return nil
}
func (stubCacheRepo) DeleteProducts(ctx context.Context, scopeKey string) error { return nil }

type stubTx struct{}

func (stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubImages struct{}

func (stubImages) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	return usecase.NewUploadImageRes("http://cdn/product-images/x.png", "product-images/x.png"), nil
}
func (stubImages) CleanupImages(keys []string) {}

type stubSubscriber struct{}

func (stubSubscriber) Subscribe(ctx context.Context, collection string) (<-chan []domain.Product, error) {
	ch := make(chan []domain.Product, 1)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

type stubStorefront struct {
	views []usecase.ProductView
	err   error
}

func (s *stubStorefront) GetProducts(ctx context.Context, category string) ([]usecase.ProductView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.views, nil
}

type stubTips struct{}

func (stubTips) CareTips(ctx context.Context, req *usecase.CareTipsReq) (*usecase.CareTipsRes, error) {
	return &usecase.CareTipsRes{Text: "Brush weekly."}, nil
}

// --- Fixture ---

type serverFixture struct {
	handler http.Handler
	docRepo *stubDocRepo
	cancel  context.CancelFunc
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	docRepo := &stubDocRepo{}
	factory := func(scope usecase.Scope) *usecase.CatalogUseCase {
		return usecase.NewCatalogUC(
			docRepo,
			stubOutboxRepo{},
			stubCacheRepo{},
			stubTx{},
			stubImages{},
			stubSubscriber{},
			nopLogger{},
			scope,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := usecase.NewCatalogRegistry(ctx, usecase.ScopeGlobal, "happy-paws", factory)
	t.Cleanup(registry.Shutdown)

	catalogCfg := &cfg.CatalogCfg{
		ScopingMode:     "global",
		TenantNamespace: "happy-paws",
		AdminIdentities: []string{"admin@happypaws.example"},
	}

	r := chi.NewRouter()
	router := NewRouter(r, catalogCfg, nopLogger{})
	router.Init(registry, &stubStorefront{views: []usecase.ProductView{{ID: "1", Name: "Brush"}}}, stubTips{})

	return &serverFixture{handler: r, docRepo: docRepo, cancel: cancel}
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set(identityHeader, "admin@happypaws.example")
	return req
}

func multipartProduct(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

// --- Tests ---

func TestAdminRoutes_RejectMissingIdentity(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products/", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RejectUnknownIdentity(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products/", nil)
	req.Header.Set(identityHeader, "stranger@example.com")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAddProduct(t *testing.T) {
	f := newServerFixture(t)

	body, contentType := multipartProduct(t, map[string]string{
		"name":        "Shampoo",
		"description": "Gentle dog shampoo",
		"price":       "9.99",
		"category":    "grooming",
		"imageUrl":    "http://cdn/shampoo.png",
	})

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdminAddProduct_MissingFieldsOpensDialog(t *testing.T) {
	f := newServerFixture(t)

	body, contentType := multipartProduct(t, map[string]string{
		"name": "Shampoo",
	})

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	// информационный диалог доступен через endpoint подтверждений
	req = asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/confirmation/", nil))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pending pendingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, "Please fill in all fields and select an image.", pending.Message)
	assert.False(t, pending.HasAction)
}

func TestAdminAddProduct_RequiresMultipart(t *testing.T) {
	f := newServerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", bytes.NewBufferString("{}")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteConfirmFlow(t *testing.T) {
	f := newServerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/id-9", nil))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var pending pendingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, "Are you sure you want to delete this product?", pending.Message)
	assert.True(t, pending.HasAction)

	// до подтверждения документ жив
	assert.Empty(t, f.docRepo.deleted)

	req = asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/confirmation/confirm", nil))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"id-9"}, f.docRepo.deleted)
}

func TestAdminDeleteCancelFlow(t *testing.T) {
	f := newServerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/id-9", nil))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	req = asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/confirmation/cancel", nil))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.docRepo.deleted)

	// слот свободен, повторная отмена конфликтует
	req = asAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/admin/confirmation/cancel", nil))
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPublicProducts(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brush")
}

func TestPublicCareTips(t *testing.T) {
	f := newServerFixture(t)

	body := bytes.NewBufferString(`{"prompt":"How often should I bathe my dog?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/care-tips", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brush weekly.")
}
