package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/happy-paws/catalog-backend/internal/domain"
)

// CATALOG USECASE

// ScopingMode определяет модель разбиения коллекции товаров.
type ScopingMode string

const (
	// ScopeGlobal — единая общая коллекция products.
	ScopeGlobal ScopingMode = "global"
	// ScopePerUser — коллекция на каждого администратора:
	// artifacts/{namespace}/users/{userID}/products.
	ScopePerUser ScopingMode = "per-user"
)

// Scope привязывает движок каталога к конкретному пути коллекции.
type Scope struct {
	Mode      ScopingMode
	Namespace string
	UserID    string
}

// Collection возвращает путь коллекции документов для данного scope.
func (s Scope) Collection() string {
	if s.Mode == ScopePerUser {
		return fmt.Sprintf("artifacts/%s/users/%s/products", s.Namespace, s.UserID)
	}

	return "products"
}

// Key возвращает ключ, под которым движок хранится в реестре.
func (s Scope) Key() string {
	if s.Mode == ScopePerUser {
		return s.UserID
	}

	return "global"
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// AddProductReq — запрос на добавление нового товара.
// Изображение задаётся либо сырым файлом (Image), либо готовым URL (ImageURL).
type AddProductReq struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       *ProductImage
	ImageURL    string
}

// EditProductReq — запрос на изменение существующего товара.
// Если Image задан, новый файл загружается и ImageURL перезаписывается.
type EditProductReq struct {
	ID          string
	Name        string
	Description string
	Price       string
	Category    string
	ImageURL    string
	Image       *ProductImage
}

// PendingConfirmationView — представление ожидающего подтверждения для слоя представления.
type PendingConfirmationView struct {
	Message   string
	HasAction bool
}

// ValidationResult — структурированный итог проверки обязательных полей.
type ValidationResult struct {
	MissingFields []string
}

func (v ValidationResult) OK() bool {
	return len(v.MissingFields) == 0
}

func (v ValidationResult) String() string {
	return strings.Join(v.MissingFields, ", ")
}

// STOREFRONT USECASE

// ProductView — DTO товара для публичной витрины.
type ProductView struct {
	ID          string
	Name        string
	Description string
	Price       string
	Category    string
	ImageURL    string
}

// CARE TIPS USECASE

// CareTipsReq — вопрос пользователя к сервису советов по уходу.
type CareTipsReq struct {
	Prompt string
}

// CareTipsRes — ответ сервиса советов.
type CareTipsRes struct {
	Text string
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку изображения товара.
type UploadImageReq struct {
	ProductName string
	Image       ProductImage
}

// UploadImageRes — результат загрузки: публичный URL и ключ объекта в S3.
type UploadImageRes struct {
	URL       string
	ObjectKey string
}

// OUTBOX

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	OutboxEventProductUpserted OutboxEventType = "product_upserted"
	OutboxEventProductDeleted  OutboxEventType = "product_deleted"
)

// OutboxEvent — запись transactional outbox, публикуемая в Kafka фоновым воркером.
type OutboxEvent struct {
	ID        int64
	EventID   string
	EventType OutboxEventType
	ProductID string
	Payload   []byte
	Status    OutboxStatus
	CreatedAt time.Time
}

// ProductChangeEvent — полезная нагрузка события изменения каталога (JSON в Kafka).
type ProductChangeEvent struct {
	EventID        string          `json:"event_id"`
	EventTimestamp int64           `json:"event_timestamp"`
	Operation      OutboxEventType `json:"operation"`
	Collection     string          `json:"collection"`
	ProductID      string          `json:"product_id"`
	Product        *ProductPayload `json:"product,omitempty"`
}

// ProductPayload — данные товара внутри события изменения.
type ProductPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

// MAPPERS

func NewAddProductReq(name, description, price, category string, image *ProductImage, imageURL string) *AddProductReq {
	return &AddProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       image,
		ImageURL:    imageURL,
	}
}

func NewEditProductReq(id, name, description, price, category, imageURL string, image *ProductImage) *EditProductReq {
	return &EditProductReq{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		ImageURL:    imageURL,
		Image:       image,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImageReq(productName string, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		ProductName: productName,
		Image:       image,
	}
}

func NewUploadImageRes(url string, objectKey string) *UploadImageRes {
	return &UploadImageRes{
		URL:       url,
		ObjectKey: objectKey,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    OutboxStatusPending,
	}
}

func NewProductView(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}

func NewProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}

	return views
}

func NewProductPayload(p *domain.Product) *ProductPayload {
	return &ProductPayload{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}
