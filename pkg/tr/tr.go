package tr

import (
	"context"

	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/jackc/pgx/v5"
)

// CtxKey — ключ, под которым транзакция кладётся в контекст.
const CtxKey = "tx"

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(CtxKey)
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
