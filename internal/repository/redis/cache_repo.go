package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/happy-paws/catalog-backend/internal/cfg"
	"github.com/happy-paws/catalog-backend/internal/repository/redis/converter"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/clients"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует списки товаров витрины: один ключ на scope,
// значение — JSON-массив целиком.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductViewConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductViewConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает закэшированный список товаров scope.
// Промах кэша — (nil, nil), а не ошибка.
func (c *CacheRepo) GetProducts(ctx context.Context, scopeKey string) ([]usecase.ProductView, error) {
	data, err := c.client.Client.Get(ctx, c.productsKey(scopeKey)).Bytes()
	if err != nil {
		if err == r.Nil {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductViewRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping key: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, c.productsKey(scopeKey)).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // cache miss
	}

	return c.conv.ToArrUseCase(models), nil
}

// SetProducts кэширует список товаров scope с заданным TTL.
func (c *CacheRepo) SetProducts(ctx context.Context, scopeKey string, products []usecase.ProductView) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.productsKey(scopeKey), data, c.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProducts сбрасывает кэш списка товаров scope.
func (c *CacheRepo) DeleteProducts(ctx context.Context, scopeKey string) error {
	if err := c.client.Client.Del(ctx, c.productsKey(scopeKey)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// productsKey возвращает Redis-ключ списка товаров для scope.
func (c *CacheRepo) productsKey(scopeKey string) string {
	return fmt.Sprintf("products:%s", scopeKey)
}
