package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// Attribute par clave/valor ya formateado para imprimir.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RenderedLine línea lista para mostrar. Los punteros nil no se muestran en el modo pedido.
type RenderedLine struct {
	Index       int              `json:"index"`
	ID          string           `json:"id"`
	Cod         string           `json:"cod"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Subcategory string           `json:"subcategory,omitempty"`
	Attributes  []Attribute      `json:"attributes,omitempty"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	BasePrice   *decimal.Decimal `json:"base_price,omitempty"`
	Adaos       *decimal.Decimal `json:"adaos,omitempty"`
	Margin      *decimal.Decimal `json:"margin,omitempty"`
}

// Rendered oferta completa en un modo de presentación.
type Rendered struct {
	QuoteID     string            `json:"quote_id"`
	Title       string            `json:"title"`
	Beneficiary string            `json:"beneficiary"`
	Mode        entity.RenderMode `json:"mode"`
	Lines       []RenderedLine    `json:"lines"`
	GrandTotal  decimal.Decimal   `json:"grand_total"`
	CostTotal   *decimal.Decimal  `json:"cost_total,omitempty"`
	MarginTotal *decimal.Decimal  `json:"margin_total,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Render construye la vista de la oferta.
//   - client: cod, descripción, atributos, cantidad, precio unitario y total
//     (los precios por línea se omiten si la oferta tiene HideLinePrices).
//   - internal: además precio base, adaos y margen por línea, y totales de costo y margen.
func Render(q entity.Quote, mode entity.RenderMode, at time.Time) Rendered {
	out := Rendered{
		QuoteID:     q.ID,
		Title:       q.Title,
		Beneficiary: q.Beneficiary,
		Mode:        mode,
		Lines:       make([]RenderedLine, 0, len(q.Items)),
		GrandTotal:  q.Total(),
		GeneratedAt: at,
	}
	internal := mode == entity.RenderInternal
	showPrices := internal || !q.HideLinePrices

	cost, margin := decimal.Zero, decimal.Zero
	for i, it := range q.Items {
		line := RenderedLine{
			Index:       i + 1,
			ID:          it.ID,
			Cod:         it.ProductDetails.Cod,
			Description: it.ProductDetails.Description(),
			Category:    it.CategoryName,
			Subcategory: it.SubcategoryName,
			Attributes:  attributes(it.ProductDetails),
			Quantity:    it.Quantity,
		}
		if showPrices {
			line.UnitPrice = ptr(it.PricePerUnit)
			line.Total = ptr(it.Total)
		}
		if internal {
			base := it.ProductDetails.Pret
			lineCost := LineTotal(base, it.Quantity)
			lineMargin := it.Total.Sub(lineCost)
			line.BasePrice = ptr(base)
			line.Adaos = ptr(it.Adaos)
			line.Margin = ptr(lineMargin)
			cost = cost.Add(lineCost)
			margin = margin.Add(lineMargin)
		}
		out.Lines = append(out.Lines, line)
	}
	if internal {
		out.CostTotal = ptr(cost)
		out.MarginTotal = ptr(margin)
	}
	return out
}

// descriptionAttrs atributos que ya se muestran como descripción.
var descriptionAttrs = map[string]struct{}{
	"denumire": {}, "nume": {}, "name": {}, "descriere": {}, "description": {},
}

func attributes(p entity.Product) []Attribute {
	var out []Attribute
	for _, k := range p.AttributeKeys() {
		if _, skip := descriptionAttrs[k]; skip {
			continue
		}
		out = append(out, Attribute{Key: k, Value: p.Attributes[k].String()})
	}
	return out
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
