package usecase

import "context"

// ImagesInfra загружает изображения товаров в объектное хранилище
// и возвращает публичный URL. Очистка используется как компенсация
// при падении операции после успешной загрузки.
type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupImages(keys []string)
}

// MessageProducer публикует события изменения каталога во внешний брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, productID string, payload []byte) error
}

// TipsInfra — клиент внешнего AI-сервиса дополнения текста.
// Один запрос — один ответ, без ретраев.
type TipsInfra interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
