package domain

// Product описывает товар каталога
type Product struct {
	ID          string // присваивается хранилищем документов при создании
	Name        string
	Description string
	Price       string // сырой ввод администратора, валюта не разбирается
	Category    string
	ImageURL    string
}

func NewProduct(name, description, price, category, imageURL string) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		ImageURL:    imageURL,
	}
}
