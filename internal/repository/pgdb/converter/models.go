package converter

import "time"

// ProductFieldsModel — JSONB-содержимое документа товара.
// Имена полей совпадают с форматом документов каталога.
type ProductFieldsModel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID        int64     `db:"id"`
	EventID   string    `db:"event_id"`
	EventType string    `db:"event_type"`
	ProductID string    `db:"product_id"`
	Payload   []byte    `db:"payload"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
