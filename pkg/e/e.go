package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Ошибки каталога
	ErrProductNotFound    = fmt.Errorf("product not found")
	ErrEngineStopped      = fmt.Errorf("catalog engine is stopped")
	ErrNoPendingAction    = fmt.Errorf("no pending confirmation")
	ErrUnknownScopingMode = fmt.Errorf("unknown scoping mode")

	// 400 Bad Request
	ErrMissingFields        = fmt.Errorf("required fields are missing")
	ErrImageRequired        = fmt.Errorf("image file or image url is required")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrEmptyPrompt          = fmt.Errorf("prompt is empty")

	// 401/403
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrNotAdmin     = fmt.Errorf("identity is not allowed to mutate the catalog")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
