package domain

// Product is one catalog item. Products are immutable once the catalog is loaded.
type Product struct {
	Name        string  `json:"name" validate:"required,notblank"`
	SKU         string  `json:"sku" validate:"required,notblank"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url" validate:"required,url"`
}
