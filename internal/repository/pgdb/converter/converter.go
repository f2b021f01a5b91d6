package converter

import (
	"encoding/json"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/internal/usecase"
)

// ProductConverter преобразует товар между domain-сущностью и JSONB-полями документа.
type ProductConverter interface {
	ToFields(entity *domain.Product) ([]byte, error)
	ToEntity(id string, fields []byte) (*domain.Product, error)
}

// OutboxEventConverter преобразует outbox-события между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToFields(entity *domain.Product) ([]byte, error) {
	return json.Marshal(ProductFieldsModel{
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Category:    entity.Category,
		ImageURL:    entity.ImageURL,
	})
}

func (c *ProductConverterImpl) ToEntity(id string, fields []byte) (*domain.Product, error) {
	var model ProductFieldsModel
	if err := json.Unmarshal(fields, &model); err != nil {
		return nil, err
	}

	product := domain.NewProduct(model.Name, model.Description, model.Price, model.Category, model.ImageURL)
	product.ID = id

	return product, nil
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:        entity.ID,
		EventID:   entity.EventID,
		EventType: string(entity.EventType),
		ProductID: entity.ProductID,
		Payload:   entity.Payload,
		Status:    string(entity.Status),
		CreatedAt: entity.CreatedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:        model.ID,
		EventID:   model.EventID,
		EventType: usecase.OutboxEventType(model.EventType),
		ProductID: model.ProductID,
		Payload:   model.Payload,
		Status:    usecase.OutboxStatus(model.Status),
		CreatedAt: model.CreatedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
