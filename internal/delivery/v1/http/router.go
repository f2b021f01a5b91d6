package http

import (
	_ "github.com/happy-paws/catalog-backend/docs" // Импорт сгенерированных файлов
	"github.com/happy-paws/catalog-backend/internal/cfg"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router     *chi.Mux
	catalogCfg *cfg.CatalogCfg
	logger     logger.Logger
}

func NewRouter(router *chi.Mux, catalogCfg *cfg.CatalogCfg, logger logger.Logger) *Router {
	return &Router{router: router, catalogCfg: catalogCfg, logger: logger}
}

func (r *Router) Init(registry *usecase.CatalogRegistry, storefrontUC usecase.StorefrontUC, tipsUC usecase.TipsUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(storefrontUC, tipsUC, r.logger)
		registerPublicRoutes(v1, prHandler)

		adminHandler := NewAdminHandler(registry, r.logger)
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(AdminOnly(r.catalogCfg, r.logger))
			registerAdminRoutes(admin, adminHandler)
		})
	})
}

func registerPublicRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Get("/products", prHandler.getProducts)
	router.Post("/care-tips", prHandler.careTips)
}

func registerAdminRoutes(router chi.Router, adminHandler *AdminHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", adminHandler.getMirror)
		pr.Get("/stream", adminHandler.streamProducts)
		pr.Post("/", adminHandler.addProduct)
		pr.Put("/{id}", adminHandler.editProduct)
		pr.Delete("/{id}", adminHandler.deleteProduct)
	})

	router.Route("/confirmation", func(cf chi.Router) {
		cf.Get("/", adminHandler.getPending)
		cf.Post("/confirm", adminHandler.confirm)
		cf.Post("/cancel", adminHandler.cancel)
	})
}
