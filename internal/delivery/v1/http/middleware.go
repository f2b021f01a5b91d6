package http

import (
	"context"
	"net/http"

	"github.com/happy-paws/catalog-backend/internal/cfg"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
)

// identityHeader несёт email администратора, проставленный внешним
// обратным прокси после аутентификации.
const identityHeader = "X-Admin-Identity"

type identityCtxKey struct{}

// AdminOnly пропускает запрос дальше только для личностей из списка
// CatalogCfg.AdminIdentities. Личность кладётся в контекст запроса.
func AdminOnly(catalogCfg *cfg.CatalogCfg, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := r.Header.Get(identityHeader)
			if identity == "" {
				log.Warnf("%d: missing %s header", http.StatusUnauthorized, identityHeader)
				WriteError(w, e.ErrUnauthorized)
				return
			}

			if !catalogCfg.IsAdmin(identity) {
				log.Warnf("%d: identity %q is not an admin", http.StatusForbidden, identity)
				WriteError(w, e.ErrNotAdmin)
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx возвращает личность администратора из контекста запроса.
func IdentityFromCtx(ctx context.Context) string {
	identity, _ := ctx.Value(identityCtxKey{}).(string)
	return identity
}
