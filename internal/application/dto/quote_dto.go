package dto

import (
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Selection ruta de navegación categoría → subcategoría → producto. Vacío = sin selección.
type Selection struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Product     string `json:"product"`
}

// SelectionView selección vigente. Found=false si el último nombre pedido no existe en el catálogo.
type SelectionView struct {
	Selection
	Found bool `json:"found"`
}

// AddItemRequest agrega un producto del catálogo. Sin cod se usa la selección actual.
type AddItemRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Cod         string `json:"cod"`
	Quantity    int    `json:"quantity"`
}

// AddManualItemRequest línea fuera del catálogo con precio libre.
type AddManualItemRequest struct {
	Product      entity.Product  `json:"product"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Quantity     int             `json:"quantity"`
}

// UpdateItemRequest cambios parciales de una línea; los campos nil conservan el valor anterior.
type UpdateItemRequest struct {
	PricePerUnit *decimal.Decimal `json:"pricePerUnit"`
	Quantity     *int             `json:"quantity"`
}

// UpdateQuantityRequest nueva cantidad (>= 1).
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HeaderRequest encabezado de la oferta.
type HeaderRequest struct {
	Title          string `json:"title"`
	Beneficiary    string `json:"beneficiary"`
	HideLinePrices *bool  `json:"hideLinePrices"`
}

// QuoteResponse oferta activa con su total y la selección vigente.
type QuoteResponse struct {
	Quote     entity.Quote    `json:"quote"`
	Total     decimal.Decimal `json:"total"`
	Selection Selection       `json:"selection"`
}
