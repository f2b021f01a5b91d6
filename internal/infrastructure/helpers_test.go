package infrastructure

import (
	"testing"

	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
	}{
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"image/png", "png"},
		{"image/webp", "webp"},
	}

	for _, tt := range tests {
		ext, err := GetExtensionFromMIME(tt.mime)
		require.NoError(t, err)
		assert.Equal(t, tt.ext, ext)
	}
}

func TestGetExtensionFromMIME_Unsupported(t *testing.T) {
	_, err := GetExtensionFromMIME("application/pdf")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)

	_, err = GetExtensionFromMIME("")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}
