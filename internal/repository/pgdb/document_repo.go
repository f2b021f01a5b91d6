package pgdb

import (
	"context"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/internal/repository/pgdb/converter"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// DocumentRepo реализует документное хранилище товаров поверх PostgreSQL:
// таблица catalog_documents с JSONB-полями, ключ — (collection, id).
// Мутации берут транзакцию из контекста; чтения идут напрямую через пул.
type DocumentRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewDocumentRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *DocumentRepo {
	return &DocumentRepo{
		pool: pool,
		conv: conv,
	}
}

// CreateWithGeneratedID создаёт документ товара с новым сгенерированным id.
func (d *DocumentRepo) CreateWithGeneratedID(ctx context.Context, collection string, product *domain.Product) (string, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	fields, err := d.conv.ToFields(product)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO catalog_documents (collection, id, fields)
		VALUES ($1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, collection, id, fields); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// UpsertMerge создаёт или обновляет документ по id с merge-семантикой:
// отсутствующие в нагрузке поля остаются нетронутыми (JSONB ||).
func (d *DocumentRepo) UpsertMerge(ctx context.Context, collection string, id string, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	fields, err := d.conv.ToFields(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO catalog_documents (collection, id, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET
			fields = catalog_documents.fields || EXCLUDED.fields,
			updated_at = NOW()
	`

	if _, err := tx.Exec(ctx, query, collection, id, fields); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteByID удаляет документ по id. Удаление отсутствующего документа не ошибка.
func (d *DocumentRepo) DeleteByID(ctx context.Context, collection string, id string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		DELETE FROM catalog_documents
		WHERE collection = $1 AND id = $2
	`

	if _, err := tx.Exec(ctx, query, collection, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// List возвращает все документы коллекции в порядке создания.
func (d *DocumentRepo) List(ctx context.Context, collection string) ([]domain.Product, error) {
	query := `
		SELECT id, fields
		FROM catalog_documents
		WHERE collection = $1
		ORDER BY created_at, id
	`

	rows, err := d.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var (
			id     string
			fields []byte
		)
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := d.conv.ToEntity(id, fields)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
