// Package quote implementa la composición de ofertas: precios con adaos, líneas y totales.
// Cada operación recibe una oferta y devuelve una copia nueva; la original no se modifica.
package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// UnitPrice precio unitario de venta: pret * (1 + adaos/100).
func UnitPrice(pret, adaos decimal.Decimal) decimal.Decimal {
	return pret.Mul(decimal.NewFromInt(1).Add(adaos.Div(hundred)))
}

// LineTotal pricePerUnit * quantity.
func LineTotal(pricePerUnit decimal.Decimal, quantity int) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// ItemPatch cambios parciales de una línea; nil conserva el valor anterior.
type ItemPatch struct {
	PricePerUnit *decimal.Decimal
	Quantity     *int
}

// Composer aplica las operaciones sobre ofertas. Los ids de línea nunca se derivan del cod:
// el mismo producto puede aparecer en varias líneas.
type Composer struct {
	newID func() string
	now   func() time.Time
}

// NewComposer construye el compositor. nil usa uuid y time.Now.
func NewComposer(newID func() string, now func() time.Time) *Composer {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &Composer{newID: newID, now: now}
}

// AddItem agrega un producto del catálogo con el adaos de su subcategoría.
func (c *Composer) AddItem(q entity.Quote, product entity.Product, categoryName string, sub entity.Subcategory, quantity int) (entity.Quote, error) {
	if err := validateQuantity(quantity); err != nil {
		return q, err
	}
	if product.Pret.IsNegative() || sub.Adaos.IsNegative() {
		return q, fmt.Errorf("%w: precio o adaos negativo", domain.ErrInvalidInput)
	}
	ppu := UnitPrice(product.Pret, sub.Adaos)
	item := entity.QuoteItem{
		ID:              c.newID(),
		CategoryName:    categoryName,
		SubcategoryName: sub.Name,
		ProductDetails:  product.Clone(),
		Adaos:           sub.Adaos,
		PricePerUnit:    ppu,
		Quantity:        quantity,
		Total:           LineTotal(ppu, quantity),
	}
	return c.appendItem(q, item), nil
}

// AddManualItem agrega una línea con datos introducidos por el usuario (sin catálogo ni adaos).
// Si details no trae pret, se toma pricePerUnit como precio base.
func (c *Composer) AddManualItem(q entity.Quote, details entity.Product, pricePerUnit decimal.Decimal, quantity int) (entity.Quote, error) {
	if err := validateQuantity(quantity); err != nil {
		return q, err
	}
	if pricePerUnit.IsNegative() || details.Pret.IsNegative() {
		return q, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(details.Description()) == "" {
		return q, fmt.Errorf("%w: la línea manual necesita cod o denumire", domain.ErrInvalidInput)
	}
	snapshot := details.Clone()
	if snapshot.Pret.IsZero() {
		snapshot.Pret = pricePerUnit
	}
	item := entity.QuoteItem{
		ID:             c.newID(),
		ProductDetails: snapshot,
		Adaos:          decimal.Zero,
		Manual:         true,
		PricePerUnit:   pricePerUnit,
		Quantity:       quantity,
		Total:          LineTotal(pricePerUnit, quantity),
	}
	return c.appendItem(q, item), nil
}

// UpdateQuantity cambia la cantidad (>= 1) y recalcula el total.
func (c *Composer) UpdateQuantity(q entity.Quote, itemID string, quantity int) (entity.Quote, error) {
	return c.UpdateItem(q, itemID, ItemPatch{Quantity: &quantity})
}

// UpdateItem aplica los campos presentes en patch y recalcula el total con los valores resultantes.
func (c *Composer) UpdateItem(q entity.Quote, itemID string, patch ItemPatch) (entity.Quote, error) {
	i := q.ItemIndex(itemID)
	if i < 0 {
		return q, domain.ErrItemNotFound
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return q, err
		}
	}
	if patch.PricePerUnit != nil && patch.PricePerUnit.IsNegative() {
		return q, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	out := q.Clone()
	item := &out.Items[i]
	if patch.PricePerUnit != nil {
		item.PricePerUnit = *patch.PricePerUnit
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	item.Total = LineTotal(item.PricePerUnit, item.Quantity)
	out.UpdatedAt = c.now()
	return out, nil
}

// RemoveItem elimina la línea. Si el id no existe devuelve la oferta sin cambios.
func (c *Composer) RemoveItem(q entity.Quote, itemID string) entity.Quote {
	i := q.ItemIndex(itemID)
	if i < 0 {
		return q
	}
	out := q.Clone()
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	out.UpdatedAt = c.now()
	return out
}

// SetHeader actualiza título y beneficiario.
func (c *Composer) SetHeader(q entity.Quote, title, beneficiary string) entity.Quote {
	out := q.Clone()
	out.Title = strings.TrimSpace(title)
	out.Beneficiary = strings.TrimSpace(beneficiary)
	out.UpdatedAt = c.now()
	return out
}

// SetHideLinePrices controla si la vista client muestra precios por línea.
func (c *Composer) SetHideLinePrices(q entity.Quote, hide bool) entity.Quote {
	out := q.Clone()
	out.HideLinePrices = hide
	out.UpdatedAt = c.now()
	return out
}

// New oferta vacía con id nuevo.
func (c *Composer) New() entity.Quote {
	return entity.NewQuote(c.newID(), c.now())
}

func (c *Composer) appendItem(q entity.Quote, item entity.QuoteItem) entity.Quote {
	out := q.Clone()
	out.Items = append(out.Items, item)
	out.UpdatedAt = c.now()
	return out
}

func validateQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
	}
	return nil
}
