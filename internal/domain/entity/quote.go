package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuoteID id del documento de oferta activa cuando no se indica otro.
const DefaultQuoteID = "current"

// RenderMode modo de presentación de la oferta.
type RenderMode string

const (
	RenderClient   RenderMode = "client"   // para el cliente: precios de venta
	RenderInternal RenderMode = "internal" // uso interno: precio base, adaos y margen
)

// ParseRenderMode valida el modo; vacío equivale a client.
func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(s) {
	case "", RenderClient:
		return RenderClient, nil
	case RenderInternal:
		return RenderInternal, nil
	default:
		return "", fmt.Errorf("modo de oferta desconocido: %q", s)
	}
}

// QuoteItem línea de oferta. Total == PricePerUnit * Quantity se recalcula en cada mutación.
type QuoteItem struct {
	ID              string          `json:"id"`
	CategoryName    string          `json:"categoryName"`
	SubcategoryName string          `json:"subcategoryName"`
	ProductDetails  Product         `json:"productDetails"` // copia del producto al momento de agregarlo
	Adaos           decimal.Decimal `json:"adaos"`
	Manual          bool            `json:"manual,omitempty"`
	PricePerUnit    decimal.Decimal `json:"pricePerUnit"`
	Quantity        int             `json:"quantity"`
	Total           decimal.Decimal `json:"total"`
}

// Quote oferta activa de la sesión.
type Quote struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Beneficiary    string      `json:"beneficiary"`
	HideLinePrices bool        `json:"hideLinePrices,omitempty"`
	Items          []QuoteItem `json:"items"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NewQuote oferta vacía.
func NewQuote(id string, now time.Time) Quote {
	if id == "" {
		id = DefaultQuoteID
	}
	return Quote{ID: id, Items: []QuoteItem{}, CreatedAt: now, UpdatedAt: now}
}

// Total suma de los totales de línea.
func (q Quote) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range q.Items {
		sum = sum.Add(it.Total)
	}
	return sum
}

// ItemIndex posición de la línea o -1.
func (q Quote) ItemIndex(id string) int {
	for i, it := range q.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone copia profunda de la oferta.
func (q Quote) Clone() Quote {
	out := q
	out.Items = make([]QuoteItem, len(q.Items))
	for i, it := range q.Items {
		it.ProductDetails = it.ProductDetails.Clone()
		out.Items[i] = it
	}
	return out
}

// QuoteSummary resumen para listados de ofertas guardadas.
type QuoteSummary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Beneficiary string          `json:"beneficiary"`
	Items       int             `json:"items"`
	Total       decimal.Decimal `json:"total"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Summary construye el resumen de la oferta.
func (q Quote) Summary() QuoteSummary {
	return QuoteSummary{
		ID:          q.ID,
		Title:       q.Title,
		Beneficiary: q.Beneficiary,
		Items:       len(q.Items),
		Total:       q.Total(),
		UpdatedAt:   q.UpdatedAt,
	}
}
