package converter

// ProductViewRedisModel — кэшируемое представление товара витрины.
type ProductViewRedisModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}
