package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminHandler обслуживает административные мутации каталога.
// Движок каталога выбирается по личности администратора из контекста.
type AdminHandler struct {
	registry *usecase.CatalogRegistry
	logger   logger.Logger
}

func NewAdminHandler(registry *usecase.CatalogRegistry, logger logger.Logger) *AdminHandler {
	return &AdminHandler{registry: registry, logger: logger}
}

func (a *AdminHandler) engineFor(r *http.Request) (usecase.CatalogUC, error) {
	return a.registry.ForIdentity(IdentityFromCtx(r.Context()))
}

type pendingResponse struct {
	Message   string `json:"message"`
	HasAction bool   `json:"has_action"`
}

// addProduct
//
//	@Summary		Добавление товара
//	@Description	Создаёт товар; изображение передаётся файлом или готовым URL
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название"
//	@Param			description	formData	string	true	"Описание"
//	@Param			price		formData	string	true	"Цена"
//	@Param			category	formData	string	true	"Категория"
//	@Param			imageUrl	formData	string	false	"Готовый URL изображения"
//	@Param			image		formData	file	false	"Файл изображения"
//	@Success		201			{object}	map[string]interface{}
//	@Failure		400			{object}	ErrorResponse
//	@Router			/admin/products [post]
func (a *AdminHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		a.logger.Warnf("%d: %s", http.StatusBadRequest, r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		a.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewAddProductReq(
		r.FormValue("name"),
		r.FormValue("description"),
		r.FormValue("price"),
		r.FormValue("category"),
		image,
		r.FormValue("imageUrl"),
	)

	if err := engine.AddProduct(r.Context(), req); err != nil {
		a.logger.Warnf("add product failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"created": true,
	})
}

// editProduct
//
//	@Summary	Изменение товара
//	@Tags		admin
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id			path		string	true	"ID товара"
//	@Param		name		formData	string	true	"Название"
//	@Param		description	formData	string	true	"Описание"
//	@Param		price		formData	string	true	"Цена"
//	@Param		category	formData	string	true	"Категория"
//	@Param		imageUrl	formData	string	false	"Текущий или новый URL изображения"
//	@Param		image		formData	file	false	"Новый файл изображения"
//	@Success	200			{object}	map[string]interface{}
//	@Failure	400			{object}	ErrorResponse
//	@Router		/admin/products/{id} [put]
func (a *AdminHandler) editProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		a.logger.Warnf("%d: %s", http.StatusBadRequest, r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		a.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewEditProductReq(
		chi.URLParam(r, "id"),
		r.FormValue("name"),
		r.FormValue("description"),
		r.FormValue("price"),
		r.FormValue("category"),
		r.FormValue("imageUrl"),
		image,
	)

	if err := engine.EditProduct(r.Context(), req); err != nil {
		a.logger.Warnf("edit product failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"updated": true,
	})
}

// deleteProduct
//
//	@Summary		Запрос удаления товара
//	@Description	Удаление не выполняется сразу: открывается подтверждение
//	@Tags			admin
//	@Produce		json
//	@Param			id	path		string	true	"ID товара"
//	@Success		202	{object}	pendingResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/products/{id} [delete]
func (a *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	if err := engine.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.logger.Warnf("delete product failed: %v", err)
		WriteError(w, err)
		return
	}

	pending, _ := engine.Pending()
	WriteSuccess(w, http.StatusAccepted, newPendingResponse(pending))
}

// getMirror
//
//	@Summary	Текущее зеркало каталога
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/admin/products [get]
func (a *AdminHandler) getMirror(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": usecase.NewProductViews(engine.Products()),
	})
}

// streamProducts отдаёт зеркало каталога потоком Server-Sent Events.
// Первое событие приходит сразу, далее по каждому применённому снапшоту.
//
//	@Summary	Поток обновлений каталога (SSE)
//	@Tags		admin
//	@Produce	text/event-stream
//	@Success	200
//	@Router		/admin/products/stream [get]
func (a *AdminHandler) streamProducts(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, e.ErrInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range engine.Watch(r.Context()) {
		data, err := json.Marshal(usecase.NewProductViews(snapshot))
		if err != nil {
			a.logger.Warnf("snapshot marshal failed: %v", err)
			continue
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// getPending
//
//	@Summary	Текущее ожидающее подтверждение
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	pendingResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/confirmation [get]
func (a *AdminHandler) getPending(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	pending, ok := engine.Pending()
	if !ok {
		WriteError(w, e.ErrNoPendingAction)
		return
	}

	WriteSuccess(w, http.StatusOK, newPendingResponse(pending))
}

// confirm
//
//	@Summary		Подтверждение ожидающего действия
//	@Description	Выполняет отложенное действие и освобождает слот
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		409	{object}	ErrorResponse
//	@Router			/admin/confirmation/confirm [post]
func (a *AdminHandler) confirm(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	if err := engine.Confirm(); err != nil {
		a.logger.Warnf("confirm failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"confirmed": true,
	})
}

// cancel
//
//	@Summary	Отмена ожидающего действия
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	409	{object}	ErrorResponse
//	@Router		/admin/confirmation/cancel [post]
func (a *AdminHandler) cancel(w http.ResponseWriter, r *http.Request) {
	engine, err := a.engineFor(r)
	if err != nil {
		a.logger.Warnf("engine resolve failed: %v", err)
		WriteError(w, err)
		return
	}

	if err := engine.Cancel(); err != nil {
		a.logger.Warnf("cancel failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"cancelled": true,
	})
}

func newPendingResponse(pending *usecase.PendingConfirmationView) *pendingResponse {
	if pending == nil {
		return &pendingResponse{}
	}

	return &pendingResponse{
		Message:   pending.Message,
		HasAction: pending.HasAction,
	}
}
