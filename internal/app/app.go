package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/happy-paws/catalog-backend/internal/cfg"
	v1Http "github.com/happy-paws/catalog-backend/internal/delivery/v1/http"
	"github.com/happy-paws/catalog-backend/internal/infrastructure/ai"
	"github.com/happy-paws/catalog-backend/internal/infrastructure/kafka"
	minioInfra "github.com/happy-paws/catalog-backend/internal/infrastructure/minio"
	s3Repo "github.com/happy-paws/catalog-backend/internal/repository/minio"
	"github.com/happy-paws/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/happy-paws/catalog-backend/internal/repository/pgdb/converter"
	"github.com/happy-paws/catalog-backend/internal/repository/redis"
	redisConv "github.com/happy-paws/catalog-backend/internal/repository/redis/converter"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/clients"
	"github.com/happy-paws/catalog-backend/pkg/closer"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/happy-paws/catalog-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	logger logger.Logger
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	return &App{cfg: cfg, logger: logger}, nil
}

// Run собирает граф зависимостей, запускает HTTP-сервер и фоновые воркеры
// и блокируется до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	log := a.logger
	cfg := a.cfg

	// appCtx живёт дольше graceful shutdown: фоновая очистка MinIO
	// и подписки каталога отменяются только после закрытия остальных ресурсов.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize database")
		return err
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	viewConv := redisConv.NewProductViewConverterImpl()

	docRepo := pgdb.NewDocumentRepo(db.Pool, prConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)
	txManager := pgdb.NewTxManager(db.Pool)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return err
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		log.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, appCtx)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(redisCtx)
	redisCancel()
	if err != nil {
		log.Errorf(err, "failed to connect to redis")
		return err
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, viewConv, cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return err
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		return err
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	outboxWorker.Start(appCtx)
	cl.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		return nil
	})

	cl.Add(func(ctx context.Context) error {
		return imagesInfra.WaitForCleanup(ctx)
	})

	snapshotListener := pgdb.NewSnapshotListener(docRepo, db.Dsn, log)

	factory := func(scope usecase.Scope) *usecase.CatalogUseCase {
		return usecase.NewCatalogUC(
			docRepo,
			outboxRepo,
			cacheRepo,
			txManager,
			imagesInfra,
			snapshotListener,
			log,
			scope,
		)
	}

	registry := usecase.NewCatalogRegistry(
		appCtx,
		usecase.ScopingMode(cfg.Catalog.ScopingMode),
		cfg.Catalog.TenantNamespace,
		factory,
	)
	cl.Add(func(ctx context.Context) error {
		registry.Shutdown()
		return nil
	})

	// В глобальном режиме движок один, прогреваем его заранее
	if cfg.Catalog.ScopingMode == string(usecase.ScopeGlobal) {
		if _, err := registry.ForIdentity(""); err != nil {
			log.Warnf("failed to warm up catalog engine: %v", err)
		}
	}

	storefrontUC := usecase.NewStorefrontUC(docRepo, cacheRepo, log, usecase.Scope{Mode: usecase.ScopeGlobal})
	tipsUC := usecase.NewTipsUC(ai.NewTipsService(cfg.Ai, log))

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, cfg.Catalog, log)
	router.Init(registry, storefrontUC, tipsUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		log.Warnf("shutdown finished with errors: %v", err)
	}

	log.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
