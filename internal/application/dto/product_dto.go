package dto

import "time"

// CreateProductRequest entrada para crear un producto del catálogo. El stock inicia en 0:
// solo las recepciones y ajustes lo modifican.
type CreateProductRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=100"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	MinStock int64  `json:"min_stock" validate:"gte=0"`
}

// ProductResponse salida de producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	MinStock    int64     `json:"min_stock"`
	StockActual int64     `json:"stock_actual"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
