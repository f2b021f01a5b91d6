package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProductFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  [4]string
		missing []string
	}{
		{
			name:   "all fields present",
			fields: [4]string{"Shampoo", "Gentle shampoo", "9.99", "grooming"},
		},
		{
			name:    "all fields empty",
			fields:  [4]string{"", "", "", ""},
			missing: []string{"name", "description", "price", "category"},
		},
		{
			name:    "whitespace only is missing",
			fields:  [4]string{"  ", "desc", "1", "cat"},
			missing: []string{"name"},
		},
		{
			name:    "price missing",
			fields:  [4]string{"Shampoo", "desc", "", "cat"},
			missing: []string{"price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validateProductFields(tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3])
			assert.Equal(t, len(tt.missing) == 0, res.OK())
			assert.Equal(t, tt.missing, res.MissingFields)
		})
	}
}

func TestImageResolvable(t *testing.T) {
	assert.True(t, imageResolvable(&ProductImage{Data: []byte{1}}, ""))
	assert.True(t, imageResolvable(nil, "https://cdn.example.com/a.png"))
	assert.False(t, imageResolvable(nil, "   "))
	assert.False(t, imageResolvable(&ProductImage{}, ""))
	assert.False(t, imageResolvable(nil, ""))
}
