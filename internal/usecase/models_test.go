package usecase

import (
	"testing"

	"github.com/happy-paws/catalog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScope_Collection(t *testing.T) {
	global := Scope{Mode: ScopeGlobal}
	assert.Equal(t, "products", global.Collection())
	assert.Equal(t, "global", global.Key())

	perUser := Scope{Mode: ScopePerUser, Namespace: "happy-paws", UserID: "u-42"}
	assert.Equal(t, "artifacts/happy-paws/users/u-42/products", perUser.Collection())
	assert.Equal(t, "u-42", perUser.Key())
}

func TestNewProductViews(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Brush", Price: "12.50", Category: "grooming", ImageURL: "http://img/1"},
		{ID: "2", Name: "Leash", Price: "7", Category: "walking"},
	}

	views := NewProductViews(products)
	assert.Len(t, views, 2)
	assert.Equal(t, "Brush", views[0].Name)
	assert.Equal(t, "12.50", views[0].Price)
	assert.Equal(t, "walking", views[1].Category)

	assert.Empty(t, NewProductViews(nil))
}
