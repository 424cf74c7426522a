package feroshop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa RemoteCatalogFetcher.
var _ ports.RemoteCatalogFetcher = (*Client)(nil)

// maxBody límite de lectura de la respuesta (el catálogo completo viene en un solo documento).
const maxBody = 32 << 20

// Client adaptador de la API de productos de FeroShop sobre net/http.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient construye el cliente. path se concatena a baseURL ("/api/products").
func NewClient(baseURL, path string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if path == "" {
		path = "/api/products"
	}
	return &Client{
		url:        strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch descarga {categories, products}. Los campos desconocidos se toleran y se conservan.
func (c *Client) Fetch(ctx context.Context) (*entity.RemoteCatalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrRemoteFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrRemoteFetch, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrRemoteFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrRemoteFetch, resp.StatusCode)
	}

	var doc entity.RemoteCatalog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: respuesta inválida: %v", domain.ErrRemoteFetch, err)
	}
	if doc.Categories == nil {
		doc.Categories = []entity.RemoteCategory{}
	}
	if doc.Products == nil {
		doc.Products = []entity.RemoteProduct{}
	}
	return &doc, nil
}
