package http

import (
	"encoding/json"
	"net/http"

	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/happy-paws/catalog-backend/pkg/logger"
)

// ProductHandler обслуживает публичную витрину и советы по уходу.
type ProductHandler struct {
	storefrontUsecase usecase.StorefrontUC
	tipsUsecase       usecase.TipsUC
	logger            logger.Logger
}

func NewProductHandler(storefrontUsecase usecase.StorefrontUC, tipsUsecase usecase.TipsUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{
		storefrontUsecase: storefrontUsecase,
		tipsUsecase:       tipsUsecase,
		logger:            logger,
	}
}

// getProducts
//
//	@Summary		Список товаров витрины
//	@Description	Возвращает товары каталога, опционально отфильтрованные по категории
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Категория товара"
//	@Success		200			{array}		map[string]interface{}
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := p.storefrontUsecase.GetProducts(r.Context(), category)
	if err != nil {
		p.logger.Errorf(err, "storefront products failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

type careTipsRequest struct {
	Prompt string `json:"prompt"`
}

// careTips
//
//	@Summary		Советы по уходу за питомцем
//	@Description	Генерирует ответ на вопрос об уходе через внешний AI-сервис
//	@Tags			tips
//	@Accept			json
//	@Produce		json
//	@Param			request	body		careTipsRequest	true	"Вопрос пользователя"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	ErrorResponse
//	@Router			/care-tips [post]
func (p *ProductHandler) careTips(w http.ResponseWriter, r *http.Request) {
	var req careTipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warnf("%d: malformed care tips body: %v", http.StatusBadRequest, err)
		WriteSuccess(w, http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, "malformed request body"))
		return
	}

	res, err := p.tipsUsecase.CareTips(r.Context(), &usecase.CareTipsReq{Prompt: req.Prompt})
	if err != nil {
		p.logger.Warnf("care tips failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"text": res.Text,
	})
}
