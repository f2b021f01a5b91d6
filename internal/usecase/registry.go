package usecase

import (
	"context"
	"sync"

	"github.com/happy-paws/catalog-backend/pkg/e"
)

// EngineFactory создаёт движок каталога для конкретного scope.
type EngineFactory func(scope Scope) *CatalogUseCase

// CatalogRegistry выдаёт движок каталога по идентификатору администратора.
// В режиме global все администраторы разделяют один движок; в режиме per-user
// движок создаётся и запускается лениво на каждую личность.
type CatalogRegistry struct {
	mode      ScopingMode
	namespace string
	factory   EngineFactory
	baseCtx   context.Context

	mu      sync.Mutex
	engines map[string]*CatalogUseCase
	closed  bool
}

func NewCatalogRegistry(baseCtx context.Context, mode ScopingMode, namespace string, factory EngineFactory) *CatalogRegistry {
	return &CatalogRegistry{
		mode:      mode,
		namespace: namespace,
		factory:   factory,
		baseCtx:   baseCtx,
		engines:   make(map[string]*CatalogUseCase),
	}
}

// ForIdentity возвращает запущенный движок для данной личности администратора.
func (r *CatalogRegistry) ForIdentity(userID string) (*CatalogUseCase, error) {
	const op = "CatalogRegistry.ForIdentity"

	scope, err := r.scopeFor(userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, e.Wrap(op, e.ErrEngineStopped)
	}

	if engine, ok := r.engines[scope.Key()]; ok {
		return engine, nil
	}

	engine := r.factory(scope)
	if err := engine.Start(r.baseCtx); err != nil {
		return nil, e.Wrap(op, err)
	}
	r.engines[scope.Key()] = engine

	return engine, nil
}

// Shutdown останавливает все запущенные движки. После остановки реестр
// не выдаёт новые движки.
func (r *CatalogRegistry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	engines := make([]*CatalogUseCase, 0, len(r.engines))
	for _, engine := range r.engines {
		engines = append(engines, engine)
	}
	r.engines = make(map[string]*CatalogUseCase)
	r.mu.Unlock()

	for _, engine := range engines {
		engine.Stop()
	}
}

func (r *CatalogRegistry) scopeFor(userID string) (Scope, error) {
	switch r.mode {
	case ScopeGlobal:
		return Scope{Mode: ScopeGlobal}, nil
	case ScopePerUser:
		if userID == "" {
			return Scope{}, e.ErrUnauthorized
		}
		return Scope{Mode: ScopePerUser, Namespace: r.namespace, UserID: userID}, nil
	default:
		return Scope{}, e.ErrUnknownScopingMode
	}
}
