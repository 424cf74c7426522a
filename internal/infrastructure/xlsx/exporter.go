package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/quote"
)

var _ ports.QuoteSpreadsheetExporter = (*QuoteExporter)(nil)

const sheetName = "Oferta"

// QuoteExporter genera la oferta como hoja de cálculo con los mismos datos que el PDF.
type QuoteExporter struct{}

// NewQuoteExporter construye el exportador.
func NewQuoteExporter() *QuoteExporter { return &QuoteExporter{} }

type xcol struct {
	header string
	width  float64
	value  func(l quote.RenderedLine) any
}

func dec(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.Round(2).InexactFloat64()
}

func columns(doc quote.Rendered) []xcol {
	cols := []xcol{
		{"Nr.", 5, func(l quote.RenderedLine) any { return l.Index }},
		{"Cod", 14, func(l quote.RenderedLine) any { return l.Cod }},
		{"Descriere", 40, func(l quote.RenderedLine) any { return l.Description }},
		{"Cant.", 8, func(l quote.RenderedLine) any { return l.Quantity }},
	}
	if doc.Mode == entity.RenderInternal {
		cols = append(cols,
			xcol{"Categorie", 18, func(l quote.RenderedLine) any { return l.Category }},
			xcol{"Subcategorie", 18, func(l quote.RenderedLine) any { return l.Subcategory }},
			xcol{"Preț bază", 12, func(l quote.RenderedLine) any { return dec(l.BasePrice) }},
			xcol{"Adaos %", 9, func(l quote.RenderedLine) any { return dec(l.Adaos) }},
		)
	}
	if doc.Mode == entity.RenderInternal || hasLinePrices(doc) {
		cols = append(cols,
			xcol{"Preț unitar", 12, func(l quote.RenderedLine) any { return dec(l.UnitPrice) }},
			xcol{"Total", 14, func(l quote.RenderedLine) any { return dec(l.Total) }},
		)
	}
	if doc.Mode == entity.RenderInternal {
		cols = append(cols, xcol{"Marjă", 12, func(l quote.RenderedLine) any { return dec(l.Margin) }})
	}
	return cols
}

func hasLinePrices(doc quote.Rendered) bool {
	for _, l := range doc.Lines {
		if l.UnitPrice != nil {
			return true
		}
	}
	return len(doc.Lines) == 0
}

// Export devuelve el .xlsx en bytes.
func (e *QuoteExporter) Export(doc quote.Rendered, companyName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	header := [][]any{
		{companyName},
		{doc.Title},
		{"Beneficiar", doc.Beneficiary},
		{"Data", doc.GeneratedAt.Format("02.01.2006")},
	}
	for i, r := range header {
		if err := f.SetSheetRow(sheetName, cellName(1, i+1), &r); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
	}

	cols := columns(doc)
	tableRow := len(header) + 2
	titles := make([]any, len(cols))
	for i, c := range cols {
		titles[i] = c.header
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, colName, colName, c.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(sheetName, cellName(1, tableRow), &titles); err != nil {
		return nil, fmt.Errorf("xlsx: títulos: %w", err)
	}
	_ = f.SetCellStyle(sheetName, cellName(1, tableRow), cellName(len(cols), tableRow), bold)

	r := tableRow
	for _, l := range doc.Lines {
		r++
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = c.value(l)
		}
		if err := f.SetSheetRow(sheetName, cellName(1, r), &values); err != nil {
			return nil, fmt.Errorf("xlsx: línea %d: %w", l.Index, err)
		}
	}
	if r > tableRow {
		_ = f.SetCellStyle(sheetName, cellName(5, tableRow+1), cellName(len(cols), r), money)
	}

	totals := [][]any{}
	if doc.CostTotal != nil {
		totals = append(totals, []any{"Cost total", dec(doc.CostTotal)})
	}
	if doc.MarginTotal != nil {
		totals = append(totals, []any{"Marjă totală", dec(doc.MarginTotal)})
	}
	totals = append(totals, []any{"TOTAL", dec(&doc.GrandTotal)})
	labelCol := len(cols) - 1
	if labelCol < 1 {
		labelCol = 1
	}
	r++
	for _, t := range totals {
		r++
		if err := f.SetSheetRow(sheetName, cellName(labelCol, r), &t); err != nil {
			return nil, fmt.Errorf("xlsx: totales: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cellName(labelCol, r), cellName(labelCol, r), bold)
		_ = f.SetCellStyle(sheetName, cellName(labelCol+1, r), cellName(labelCol+1, r), money)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
