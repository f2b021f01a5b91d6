package usecase

import "strings"

// validateProductFields проверяет четыре обязательных текстовых поля товара.
// Используется одной и той же функцией для добавления и редактирования.
func validateProductFields(name, description, price, category string) ValidationResult {
	var missing []string

	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(price) == "" {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(category) == "" {
		missing = append(missing, "category")
	}

	return ValidationResult{MissingFields: missing}
}

// imageResolvable сообщает, можно ли получить изображение товара:
// либо выбран сырой файл, либо введён непустой URL.
func imageResolvable(image *ProductImage, imageURL string) bool {
	if image != nil && len(image.Data) > 0 {
		return true
	}

	return strings.TrimSpace(imageURL) != ""
}
