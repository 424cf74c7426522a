// Package quote coordina la sesión de trabajo de cada usuario: la selección en el catálogo
// (categoría → subcategoría → producto) y la oferta activa.
package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	domainquote "github.com/jhoicas/Ofertare-api/internal/domain/quote"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
	"github.com/jhoicas/Ofertare-api/pkg/pagination"
)

// CatalogReader lectura del catálogo del usuario (catalog.CatalogUseCase).
type CatalogReader interface {
	Database(ctx context.Context, userID string) (entity.Database, error)
}

// Deps colaboradores del coordinador. PDF y XLSX son opcionales.
type Deps struct {
	Catalog     CatalogReader
	Drafts      repository.DraftRepository // local: borrador de la oferta activa en cada cambio
	Quotes      repository.QuoteRepository // local + espejo: sólo guardado explícito
	Composer    *domainquote.Composer
	PDF         ports.QuotePDFGenerator
	XLSX        ports.QuoteSpreadsheetExporter
	CompanyName string
	PageSize    int
	Now         func() time.Time
	Log         *logger.Logger
}

type session struct {
	sel   dto.Selection
	found bool
	quote entity.Quote
}

// Coordinator mantiene una sesión por usuario detrás de un mutex. Cada mutación de la oferta
// guarda el borrador en local (best-effort); Save la persiste a través del espejo.
type Coordinator struct {
	deps Deps
	log  *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCoordinator construye el coordinador.
func NewCoordinator(d Deps) *Coordinator {
	if d.Composer == nil {
		d.Composer = domainquote.NewComposer(nil, nil)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.PageSize <= 0 {
		d.PageSize = pagination.DefaultPageSize
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Coordinator{deps: d, log: d.Log.Component("quote"), sessions: make(map[string]*session)}
}

// session devuelve (o carga) la sesión del usuario. Debe llamarse con c.mu tomado.
// Se retoma el borrador local (reinicio del proceso con la sesión aún válida); si no hay,
// una oferta vacía "current".
func (c *Coordinator) session(ctx context.Context, userID string) (*session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if s, ok := c.sessions[userID]; ok {
		return s, nil
	}
	draft, err := c.deps.Drafts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cargar borrador: %w", err)
	}
	s := &session{found: true}
	if draft != nil {
		s.quote = *draft
	} else {
		s.quote = entity.NewQuote(entity.DefaultQuoteID, c.deps.Now())
	}
	c.sessions[userID] = s
	return s, nil
}

func response(s *session) dto.QuoteResponse {
	return dto.QuoteResponse{Quote: s.quote.Clone(), Total: s.quote.Total(), Selection: s.sel}
}

// mutate aplica fn a la oferta activa. Si fn falla la oferta no cambia.
func (c *Coordinator) mutate(ctx context.Context, userID string, fn func(q entity.Quote) (entity.Quote, error)) (dto.QuoteResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	next, err := fn(s.quote)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	s.quote = next
	c.autosave(ctx, userID, next)
	return response(s), nil
}

func (c *Coordinator) autosave(ctx context.Context, userID string, q entity.Quote) {
	if err := c.deps.Drafts.Save(ctx, userID, q); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Str("quote_id", q.ID).Msg("no se pudo guardar el borrador")
	}
}

// ─── Consulta ────────────────────────────────────────────────────────────────

// Quote oferta activa.
func (c *Coordinator) Quote(ctx context.Context, userID string) (dto.QuoteResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	return response(s), nil
}

// Items líneas de la oferta paginadas. size <= 0 usa el tamaño configurado.
func (c *Coordinator) Items(ctx context.Context, userID string, page, size int) (pagination.Page[entity.QuoteItem], error) {
	if size <= 0 {
		size = c.deps.PageSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return pagination.Page[entity.QuoteItem]{}, err
	}
	return pagination.Paginate(s.quote.Clone().Items, size, page), nil
}

// Render vista de la oferta activa en el modo pedido.
func (c *Coordinator) Render(ctx context.Context, userID string, mode entity.RenderMode) (domainquote.Rendered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return domainquote.Rendered{}, err
	}
	return domainquote.Render(s.quote, mode, c.deps.Now()), nil
}

// ExportPDF oferta activa como PDF.
func (c *Coordinator) ExportPDF(ctx context.Context, userID string, mode entity.RenderMode) ([]byte, error) {
	if c.deps.PDF == nil {
		return nil, fmt.Errorf("%w: exportación PDF no disponible", domain.ErrInvalidInput)
	}
	doc, err := c.Render(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	return c.deps.PDF.Generate(doc, c.deps.CompanyName)
}

// ExportXLSX oferta activa como hoja de cálculo.
func (c *Coordinator) ExportXLSX(ctx context.Context, userID string, mode entity.RenderMode) ([]byte, error) {
	if c.deps.XLSX == nil {
		return nil, fmt.Errorf("%w: exportación Excel no disponible", domain.ErrInvalidInput)
	}
	doc, err := c.Render(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	return c.deps.XLSX.Export(doc, c.deps.CompanyName)
}

// ─── Selección ───────────────────────────────────────────────────────────────

// Selection selección vigente.
func (c *Coordinator) Selection(ctx context.Context, userID string) (dto.SelectionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return dto.SelectionView{}, err
	}
	return dto.SelectionView{Selection: s.sel, Found: s.found}, nil
}

// Select aplica la ruta completa en orden y se detiene en el primer nombre que no existe.
func (c *Coordinator) Select(ctx context.Context, userID string, sel dto.Selection) (dto.SelectionView, error) {
	return c.selecting(ctx, userID, func(db entity.Database, s *session) {
		selectCategory(db, s, sel.Category)
		if s.found && sel.Subcategory != "" {
			selectSubcategory(db, s, sel.Subcategory)
		}
		if s.found && sel.Product != "" {
			selectProduct(db, s, sel.Product)
		}
	})
}

// SelectCategory selecciona una categoría; "" limpia la selección. Limpia subcategoría y producto.
func (c *Coordinator) SelectCategory(ctx context.Context, userID, name string) (dto.SelectionView, error) {
	return c.selecting(ctx, userID, func(db entity.Database, s *session) { selectCategory(db, s, name) })
}

// SelectSubcategory selecciona una subcategoría de la categoría elegida; limpia el producto.
func (c *Coordinator) SelectSubcategory(ctx context.Context, userID, name string) (dto.SelectionView, error) {
	return c.selecting(ctx, userID, func(db entity.Database, s *session) { selectSubcategory(db, s, name) })
}

// SelectProduct selecciona un producto de la subcategoría elegida.
func (c *Coordinator) SelectProduct(ctx context.Context, userID, cod string) (dto.SelectionView, error) {
	return c.selecting(ctx, userID, func(db entity.Database, s *session) { selectProduct(db, s, cod) })
}

func (c *Coordinator) selecting(ctx context.Context, userID string, fn func(entity.Database, *session)) (dto.SelectionView, error) {
	db, err := c.deps.Catalog.Database(ctx, userID)
	if err != nil {
		return dto.SelectionView{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return dto.SelectionView{}, err
	}
	fn(db, s)
	return dto.SelectionView{Selection: s.sel, Found: s.found}, nil
}

func selectCategory(db entity.Database, s *session, name string) {
	s.sel = dto.Selection{}
	s.found = true
	if name == "" {
		return
	}
	if _, ok := db.FindCategory(name); !ok {
		s.found = false
		return
	}
	s.sel.Category = name
}

func selectSubcategory(db entity.Database, s *session, name string) {
	s.sel.Subcategory, s.sel.Product = "", ""
	s.found = true
	if name == "" {
		return
	}
	c, ok := db.FindCategory(s.sel.Category)
	if !ok {
		s.sel.Category = ""
		s.found = false
		return
	}
	if _, ok := c.FindSubcategory(name); !ok {
		s.found = false
		return
	}
	s.sel.Subcategory = name
}

func selectProduct(db entity.Database, s *session, cod string) {
	s.sel.Product = ""
	s.found = true
	if cod == "" {
		return
	}
	if _, _, err := lookup(db, s.sel.Category, s.sel.Subcategory, cod); err != nil {
		s.found = false
		return
	}
	s.sel.Product = cod
}

func lookup(db entity.Database, category, subcategory, cod string) (entity.Product, entity.Subcategory, error) {
	c, ok := db.FindCategory(category)
	if !ok {
		return entity.Product{}, entity.Subcategory{}, domain.ErrCategoryNotFound
	}
	sub, ok := c.FindSubcategory(subcategory)
	if !ok {
		return entity.Product{}, entity.Subcategory{}, domain.ErrSubcategoryNotFound
	}
	p, ok := sub.FindProduct(cod)
	if !ok {
		return entity.Product{}, entity.Subcategory{}, domain.ErrProductNotFound
	}
	return p, sub, nil
}

// ─── Composición ─────────────────────────────────────────────────────────────

// AddItem agrega un producto del catálogo con el adaos de su subcategoría.
// Sin cod se usa la selección vigente.
func (c *Coordinator) AddItem(ctx context.Context, userID string, in dto.AddItemRequest) (dto.QuoteResponse, error) {
	if in.Cod == "" {
		return c.AddSelected(ctx, userID, in.Quantity)
	}
	db, err := c.deps.Catalog.Database(ctx, userID)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	product, sub, err := lookup(db, in.Category, in.Subcategory, in.Cod)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.AddItem(q, product, in.Category, sub, in.Quantity)
	})
}

// AddSelected agrega el producto seleccionado.
func (c *Coordinator) AddSelected(ctx context.Context, userID string, quantity int) (dto.QuoteResponse, error) {
	db, err := c.deps.Catalog.Database(ctx, userID)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		s := c.sessions[userID]
		if s.sel.Product == "" {
			return q, fmt.Errorf("%w: no hay producto seleccionado", domain.ErrInvalidInput)
		}
		product, sub, err := lookup(db, s.sel.Category, s.sel.Subcategory, s.sel.Product)
		if err != nil {
			return q, err
		}
		return c.deps.Composer.AddItem(q, product, s.sel.Category, sub, quantity)
	})
}

// AddManualItem agrega una línea con precio libre.
func (c *Coordinator) AddManualItem(ctx context.Context, userID string, in dto.AddManualItemRequest) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.AddManualItem(q, in.Product, in.PricePerUnit, in.Quantity)
	})
}

// UpdateQuantity cambia la cantidad de una línea (>= 1).
func (c *Coordinator) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.UpdateQuantity(q, itemID, quantity)
	})
}

// UpdateItem cambia precio y/o cantidad de una línea.
func (c *Coordinator) UpdateItem(ctx context.Context, userID, itemID string, in dto.UpdateItemRequest) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.UpdateItem(q, itemID, domainquote.ItemPatch{PricePerUnit: in.PricePerUnit, Quantity: in.Quantity})
	})
}

// RemoveItem quita una línea; un id inexistente no es error.
func (c *Coordinator) RemoveItem(ctx context.Context, userID, itemID string) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.RemoveItem(q, itemID), nil
	})
}

// SetHeader actualiza título, beneficiario y, si viene, la ocultación de precios por línea.
func (c *Coordinator) SetHeader(ctx context.Context, userID string, in dto.HeaderRequest) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		q = c.deps.Composer.SetHeader(q, in.Title, in.Beneficiary)
		if in.HideLinePrices != nil {
			q = c.deps.Composer.SetHideLinePrices(q, *in.HideLinePrices)
		}
		return q, nil
	})
}

// SetHideLinePrices controla los precios por línea en la vista client.
func (c *Coordinator) SetHideLinePrices(ctx context.Context, userID string, hide bool) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(q entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.SetHideLinePrices(q, hide), nil
	})
}

// ─── Ciclo de vida ───────────────────────────────────────────────────────────

// Save persiste la oferta activa a través del espejo.
func (c *Coordinator) Save(ctx context.Context, userID string) (entity.QuoteSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.session(ctx, userID)
	if err != nil {
		return entity.QuoteSummary{}, err
	}
	if err := c.deps.Quotes.Save(ctx, userID, s.quote); err != nil {
		return entity.QuoteSummary{}, err
	}
	c.log.Info().Str("user_id", userID).Str("quote_id", s.quote.ID).Int("items", len(s.quote.Items)).Msg("oferta guardada")
	return s.quote.Summary(), nil
}

// NewQuote reemplaza la oferta activa por una vacía. La anterior sólo persiste si se guardó con Save.
func (c *Coordinator) NewQuote(ctx context.Context, userID string) (dto.QuoteResponse, error) {
	return c.mutate(ctx, userID, func(entity.Quote) (entity.Quote, error) {
		return c.deps.Composer.New(), nil
	})
}

// SavedQuotes resúmenes de las ofertas guardadas, la más reciente primero.
func (c *Coordinator) SavedQuotes(ctx context.Context, userID string) ([]entity.QuoteSummary, error) {
	list, err := c.deps.Quotes.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.QuoteSummary, 0, len(list))
	for _, q := range list {
		out = append(out, q.Summary())
	}
	return out, nil
}

// OpenQuote activa una oferta guardada.
func (c *Coordinator) OpenQuote(ctx context.Context, userID, quoteID string) (dto.QuoteResponse, error) {
	q, err := c.deps.Quotes.Load(ctx, userID, quoteID)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	if q == nil {
		return dto.QuoteResponse{}, fmt.Errorf("%w: oferta %q", domain.ErrNotFound, quoteID)
	}
	opened := *q
	return c.mutate(ctx, userID, func(entity.Quote) (entity.Quote, error) {
		return opened, nil
	})
}

// DeleteQuote borra una oferta guardada. Si era la activa, se empieza una vacía.
func (c *Coordinator) DeleteQuote(ctx context.Context, userID, quoteID string) error {
	if err := c.deps.Quotes.Delete(ctx, userID, quoteID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[userID]; ok && s.quote.ID == quoteID {
		s.quote = c.deps.Composer.New()
		c.autosave(ctx, userID, s.quote)
	}
	return nil
}

// Reset descarta la oferta activa y su borrador al cerrar sesión. Las ofertas guardadas se conservan.
func (c *Coordinator) Reset(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
	if err := c.deps.Drafts.Delete(context.Background(), userID); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo descartar el borrador")
	}
}
