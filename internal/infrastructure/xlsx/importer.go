// Package xlsx exporta ofertas a Excel e importa listas de precios desde Excel.
package xlsx

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/pkg/slug"
)

var _ ports.CatalogSpreadsheetImporter = (*CatalogImporter)(nil)

// CatalogImporter lee la primera hoja: fila de encabezado obligatoria con columnas Cod y Preț;
// el resto de columnas se importan como atributos del producto.
type CatalogImporter struct{}

// NewCatalogImporter construye el importador.
func NewCatalogImporter() *CatalogImporter { return &CatalogImporter{} }

// Parse devuelve los productos en el orden de las filas. Las filas sin cod se ignoran.
func (i *CatalogImporter) Parse(data []byte) ([]entity.Product, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: archivo Excel inválido: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}

	codCol, pretCol := -1, -1
	attrCols := map[int]string{}
	for idx, h := range rows[0] {
		switch key := slug.Make(h); key {
		case "":
			continue
		case entity.KeyCod:
			codCol = idx
		case entity.KeyPret:
			pretCol = idx
		default:
			attrCols[idx] = strings.ToLower(strings.TrimSpace(h))
		}
	}
	if codCol < 0 || pretCol < 0 {
		return nil, fmt.Errorf("%w: el encabezado debe tener las columnas Cod y Preț", domain.ErrInvalidInput)
	}

	products := make([]entity.Product, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cod := strings.TrimSpace(cell(row, codCol))
		if cod == "" {
			continue
		}
		pret, err := parsePrice(cell(row, pretCol))
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d: preț inválido %q", domain.ErrInvalidInput, n+2, cell(row, pretCol))
		}
		p := entity.Product{Cod: cod, Pret: pret}
		for idx, key := range attrCols {
			raw := strings.TrimSpace(cell(row, idx))
			if raw == "" {
				continue
			}
			if p.Attributes == nil {
				p.Attributes = map[string]entity.AttrValue{}
			}
			p.Attributes[key] = entity.ParseAttr(raw)
		}
		products = append(products, p)
	}
	return products, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// thousandsDots "1.234", "12.345.678": puntos como separador de miles sin parte decimal.
var thousandsDots = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parsePrice acepta "1234.5", "1234,5", "1.234,50" y "1.234" (formato rumano).
// Un punto seguido de exactamente tres dígitos y sin coma es separador de miles.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "lei"))
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case thousandsDots.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio negativo")
	}
	return d, nil
}
