package converter

import "github.com/happy-paws/catalog-backend/internal/usecase"

// ProductViewConverter преобразует товары витрины между usecase и Redis-моделью.
type ProductViewConverter interface {
	ToRedisModel(entity *usecase.ProductView) *ProductViewRedisModel
	ToUseCase(model *ProductViewRedisModel) *usecase.ProductView
	ToArrRedisModel(entities []usecase.ProductView) []ProductViewRedisModel
	ToArrUseCase(models []ProductViewRedisModel) []usecase.ProductView
}

type ProductViewConverterImpl struct{}

func NewProductViewConverterImpl() *ProductViewConverterImpl {
	return &ProductViewConverterImpl{}
}

func (c *ProductViewConverterImpl) ToRedisModel(entity *usecase.ProductView) *ProductViewRedisModel {
	return &ProductViewRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Category:    entity.Category,
		ImageURL:    entity.ImageURL,
	}
}

func (c *ProductViewConverterImpl) ToUseCase(model *ProductViewRedisModel) *usecase.ProductView {
	return &usecase.ProductView{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Category:    model.Category,
		ImageURL:    model.ImageURL,
	}
}

func (c *ProductViewConverterImpl) ToArrRedisModel(entities []usecase.ProductView) []ProductViewRedisModel {
	result := make([]ProductViewRedisModel, 0, len(entities))
	for _, entity := range entities {
		result = append(result, *c.ToRedisModel(&entity))
	}

	return result
}

func (c *ProductViewConverterImpl) ToArrUseCase(models []ProductViewRedisModel) []usecase.ProductView {
	result := make([]usecase.ProductView, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToUseCase(&model))
	}

	return result
}
