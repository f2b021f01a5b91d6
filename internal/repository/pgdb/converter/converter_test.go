package converter

import (
	"testing"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/happy-paws/catalog-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductConverter_FieldsRoundTrip(t *testing.T) {
	conv := NewProductConverterImpl()

	product := domain.NewProduct("Shampoo", "Gentle dog shampoo", "9.99", "grooming", "http://cdn/shampoo.png")

	fields, err := conv.ToFields(product)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Shampoo",
		"description": "Gentle dog shampoo",
		"price": "9.99",
		"category": "grooming",
		"imageUrl": "http://cdn/shampoo.png"
	}`, string(fields))

	entity, err := conv.ToEntity("id-1", fields)
	require.NoError(t, err)
	assert.Equal(t, "id-1", entity.ID)
	assert.Equal(t, product.Name, entity.Name)
	assert.Equal(t, product.ImageURL, entity.ImageURL)
}

func TestProductConverter_PartialDocument(t *testing.T) {
	conv := NewProductConverterImpl()

	// документы с неполными полями валидны: merge-семантика хранит частичные записи
	entity, err := conv.ToEntity("id-2", []byte(`{"name":"Leash"}`))
	require.NoError(t, err)
	assert.Equal(t, "Leash", entity.Name)
	assert.Empty(t, entity.Price)
}

func TestProductConverter_MalformedFields(t *testing.T) {
	conv := NewProductConverterImpl()

	_, err := conv.ToEntity("id-3", []byte(`not json`))
	assert.Error(t, err)
}

func TestOutboxEventConverter(t *testing.T) {
	conv := NewOutboxEventConverterImpl()

	event := usecase.NewOutboxEvent("ev-1", usecase.OutboxEventProductUpserted, "id-1", []byte(`{}`))

	model := conv.ToModel(event)
	assert.Equal(t, "ev-1", model.EventID)
	assert.Equal(t, string(usecase.OutboxEventProductUpserted), model.EventType)
	assert.Equal(t, string(usecase.OutboxStatusPending), model.Status)

	back := conv.ToEntity(model)
	assert.Equal(t, event.EventID, back.EventID)
	assert.Equal(t, event.EventType, back.EventType)
	assert.Equal(t, event.Status, back.Status)

	arr := conv.ToArrEntity([]*OutboxEventModel{model, model})
	assert.Len(t, arr, 2)
}
