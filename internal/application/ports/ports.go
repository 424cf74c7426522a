package ports

import (
	"context"
	"io"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/quote"
)

// RemoteCatalogFetcher puerto de salida hacia la API de productos de FeroShop.
// Cualquier fallo de red o HTTP se devuelve envuelto en domain.ErrRemoteFetch.
type RemoteCatalogFetcher interface {
	Fetch(ctx context.Context) (*entity.RemoteCatalog, error)
}

// ImageUpload archivo a subir.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Folder      string // vacío = carpeta por defecto del adaptador
}

// ImageUploader puerto de salida hacia el servicio de imágenes.
// progress recibe porcentajes crecientes 0..100; puede ser nil.
type ImageUploader interface {
	Upload(ctx context.Context, in ImageUpload, progress func(percent int)) (secureURL string, err error)
}

// QuotePDFGenerator genera el PDF de una oferta ya renderizada.
type QuotePDFGenerator interface {
	Generate(doc quote.Rendered, companyName string) ([]byte, error)
}

// QuoteSpreadsheetExporter genera el .xlsx de una oferta ya renderizada.
type QuoteSpreadsheetExporter interface {
	Export(doc quote.Rendered, companyName string) ([]byte, error)
}

// CatalogSpreadsheetImporter lee una lista de precios (.xlsx) como productos.
type CatalogSpreadsheetImporter interface {
	Parse(data []byte) ([]entity.Product, error)
}
