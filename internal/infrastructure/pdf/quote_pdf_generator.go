// Package pdf genera la oferta de precio imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa             │  OFERTĂ DE PREȚ + Fecha      │
//	│  Título + Beneficiario                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA client:   Nr | Cod | Descriere | Cant | P.Unit | Total│
//	│  TABLA internal: ... | P.Bază | Adaos | P.Unit | Total | Marjă│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total (internal: Cost + Marjă)                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/quote"
	"github.com/jhoicas/Ofertare-api/pkg/money"
)

var _ ports.QuotePDFGenerator = (*QuotePDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 94, Green: 60, Blue: 35}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// QuotePDFGenerator implementa ports.QuotePDFGenerator usando Maroto v2.
type QuotePDFGenerator struct{}

// NewQuotePDFGenerator construye el generador.
func NewQuotePDFGenerator() *QuotePDFGenerator { return &QuotePDFGenerator{} }

// column celda de la tabla: ancho en la grilla de 12 y valor por línea.
type column struct {
	label string
	size  int
	align align.Type
	value func(l quote.RenderedLine) string
}

// Generate genera el PDF y devuelve sus bytes.
func (g *QuotePDFGenerator) Generate(doc quote.Rendered, companyName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(nonEmpty(doc.Title, "Ofertă de preț"), true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, companyName))
	m.AddRows(beneficiaryRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	cols := columnsFor(doc)
	m.AddRows(tableHeaderRow(cols))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	for _, l := range doc.Lines {
		m.AddRows(lineRow(cols, l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdf.GetBytes(), nil
}

// ── Columnas por modo ─────────────────────────────────────────────────────────

func columnsFor(doc quote.Rendered) []column {
	nr := column{"Nr.", 1, align.Center, func(l quote.RenderedLine) string { return fmt.Sprint(l.Index) }}
	cod := column{"Cod", 2, align.Left, func(l quote.RenderedLine) string { return l.Cod }}
	qty := column{"Cant.", 1, align.Center, func(l quote.RenderedLine) string { return fmt.Sprint(l.Quantity) }}
	unit := column{"Preț unitar", 2, align.Right, func(l quote.RenderedLine) string { return amount(l.UnitPrice) }}
	total := column{"Total", 2, align.Right, func(l quote.RenderedLine) string { return amount(l.Total) }}
	desc := func(size int) column {
		return column{"Descriere", size, align.Left, func(l quote.RenderedLine) string { return l.Description }}
	}

	switch {
	case doc.Mode == entity.RenderInternal:
		cod.size = 1
		unit.size = 1
		total.size = 1
		return []column{
			nr, cod, desc(3), qty,
			{"Preț bază", 1, align.Right, func(l quote.RenderedLine) string { return amount(l.BasePrice) }},
			{"Adaos", 1, align.Center, func(l quote.RenderedLine) string { return percent(l.Adaos) }},
			unit, total,
			{"Marjă", 2, align.Right, func(l quote.RenderedLine) string { return amount(l.Margin) }},
		}
	case !hasLinePrices(doc):
		return []column{nr, cod, desc(7), {qty.label, 2, align.Center, qty.value}}
	default:
		return []column{nr, cod, desc(4), qty, unit, total}
	}
}

func hasLinePrices(doc quote.Rendered) bool {
	for _, l := range doc.Lines {
		if l.UnitPrice != nil {
			return true
		}
	}
	return len(doc.Lines) == 0
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc quote.Rendered, companyName string) core.Row {
	title := "OFERTĂ DE PREȚ"
	if doc.Mode == entity.RenderInternal {
		title = "OFERTĂ (USO INTERN)"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Data: "+doc.GeneratedAt.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func beneficiaryRow(doc quote.Rendered) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(nonEmpty(doc.Title, "Ofertă"), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 1,
			}),
			text.New("Beneficiar: "+nonEmpty(doc.Beneficiary, "-"), props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(out...)
}

// lineRow una fila por línea; los atributos se imprimen bajo la descripción.
func lineRow(cols []column, l quote.RenderedLine) core.Row {
	attrs := attributesText(l.Attributes)
	height := 7.0
	if attrs != "" {
		height = 11
	}
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cell := col.New(c.size).Add(text.New(c.value(l), props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		}))
		if c.label == "Descriere" && attrs != "" {
			cell.Add(text.New(attrs, props.Text{Size: 6.5, Color: colorGray, Top: 5.5, Left: 1}))
		}
		out = append(out, cell)
	}
	return row.New(height).Add(out...)
}

func totalsRow(doc quote.Rendered) core.Row {
	labels := []core.Component{}
	values := []core.Component{}
	add := func(label string, d decimal.Decimal, grand bool) {
		top := float64(len(labels)) * 6
		p := props.Text{Size: 9, Align: align.Right, Top: top, Right: 1}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		labels = append(labels, text.New(label, lp))
		values = append(values, text.New(money.Format(d), p))
	}
	if doc.CostTotal != nil {
		add("Cost total:", *doc.CostTotal, false)
	}
	if doc.MarginTotal != nil {
		add("Marjă totală:", *doc.MarginTotal, false)
	}
	add("TOTAL:", doc.GrandTotal, true)

	return row.New(float64(len(labels))*6 + 4).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func amount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return money.Amount(*d)
}

func percent(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return money.Percent(*d)
}

func attributesText(attrs []quote.Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Key+": "+a.Value)
	}
	return strings.Join(parts, "; ")
}
