package pgdb

import (
	"context"
	"errors"
	"time"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/jitter"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	catalogChannel = "catalog_changed"
	waitTimeout    = 30 * time.Second
	reconnectBase  = 2 * time.Second
	reconnectMax   = 30 * time.Second
)

// SnapshotListener реализует живую подписку на коллекцию документов.
// Триггер в БД шлёт NOTIFY catalog_changed с путём коллекции в payload;
// на каждое уведомление слушатель перечитывает коллекцию целиком и отдаёт
// полный снапшот — диффы не вычисляются намеренно.
type SnapshotListener struct {
	docRepo   usecase.DocumentRepository
	dbConnStr string
	logger    logger.Logger
}

func NewSnapshotListener(docRepo usecase.DocumentRepository, dbConnStr string, logger logger.Logger) *SnapshotListener {
	return &SnapshotListener{
		docRepo:   docRepo,
		dbConnStr: dbConnStr,
		logger:    logger,
	}
}

// Subscribe открывает подписку на коллекцию. Первым в канал приходит
// текущий снапшот, далее — снапшот после каждого серверного изменения.
// Канал закрывается при отмене контекста.
func (l *SnapshotListener) Subscribe(ctx context.Context, collection string) (<-chan []domain.Product, error) {
	out := make(chan []domain.Product, 1)

	go func() {
		defer close(out)
		l.run(ctx, collection, out)
	}()

	return out, nil
}

func (l *SnapshotListener) run(ctx context.Context, collection string, out chan<- []domain.Product) {
	if !l.pushSnapshot(ctx, collection, out) {
		return
	}

	attempt := 0
	for {
		conn, err := l.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sleep := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
			l.logger.Warnf("catalog listen connect failed: %v, retrying in %v", err, sleep)
			attempt++

			select {
			case <-time.After(sleep):
				continue
			case <-ctx.Done():
				return
			}
		}
		attempt = 0

		// Между обрывом и переподключением уведомления могли потеряться
		if !l.pushSnapshot(ctx, collection, out) {
			conn.Close(ctx)
			return
		}

		if done := l.listen(ctx, conn, collection, out); done {
			conn.Close(context.Background())
			return
		}
		conn.Close(ctx)
	}
}

func (l *SnapshotListener) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dbConnStr)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+catalogChannel); err != nil {
		conn.Close(ctx)
		return nil, e.Wrap("failed to LISTEN", err)
	}

	l.logger.Infof("Subscribed to '%s' channel", catalogChannel)
	return conn, nil
}

// listen возвращает true, если подписка завершена (контекст отменён),
// и false, если соединение потеряно и нужно переподключение.
func (l *SnapshotListener) listen(ctx context.Context, conn *pgx.Conn, collection string, out chan<- []domain.Product) bool {
	for {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, waitTimeout)
		notif, err := conn.WaitForNotification(ctxWithTimeout)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			l.logger.Warnf("catalog listen connection lost: %v. Reconnecting...", err)
			return false
		}

		if notif == nil || notif.Channel != catalogChannel || notif.Payload != collection {
			continue
		}

		if !l.pushSnapshot(ctx, collection, out) {
			return true
		}
	}
}

// pushSnapshot перечитывает коллекцию и отправляет полный снапшот.
// Возвращает false, если подписка завершена.
func (l *SnapshotListener) pushSnapshot(ctx context.Context, collection string, out chan<- []domain.Product) bool {
	snapshot, err := l.docRepo.List(ctx, collection)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Зеркало остаётся на последнем известном состоянии
		l.logger.Warnf("catalog snapshot query failed: %v", err)
		return true
	}

	select {
	case out <- snapshot:
		return true
	case <-ctx.Done():
		return false
	}
}
