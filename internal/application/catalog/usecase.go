// Package catalog casos de uso del catálogo del usuario: navegación, edición, importación
// y copias de seguridad.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	domaincatalog "github.com/jhoicas/Ofertare-api/internal/domain/catalog"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
	"github.com/jhoicas/Ofertare-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Migrator espejo remoto (mirror.Store).
type Migrator interface {
	Enabled() bool
	Migrate(ctx context.Context, userID string) error
}

// CatalogUseCase opera sobre el catálogo de un usuario. Las ediciones de un mismo usuario se serializan.
type CatalogUseCase struct {
	store    repository.DatabaseRepository
	backups  repository.BackupRepository
	migrator Migrator
	importer ports.CatalogSpreadsheetImporter
	log      *logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCatalogUseCase construye el caso de uso. migrator e importer pueden ser nil.
func NewCatalogUseCase(store repository.DatabaseRepository, backups repository.BackupRepository, migrator Migrator, importer ports.CatalogSpreadsheetImporter, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{
		store:    store,
		backups:  backups,
		migrator: migrator,
		importer: importer,
		log:      log.Component("catalog"),
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (uc *CatalogUseCase) lock(userID string) func() {
	uc.mu.Lock()
	l, ok := uc.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[userID] = l
	}
	uc.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Database catálogo completo; vacío si el usuario todavía no tiene uno.
func (uc *CatalogUseCase) Database(ctx context.Context, userID string) (entity.Database, error) {
	db, err := uc.store.Load(ctx, userID)
	if err != nil {
		return entity.Database{}, err
	}
	if db == nil {
		return entity.Database{Categories: []entity.Category{}}, nil
	}
	return *db, nil
}

// Categories listado paginado en orden de inserción.
func (uc *CatalogUseCase) Categories(ctx context.Context, userID string, page, size int) (pagination.Page[dto.CategorySummary], error) {
	db, err := uc.Database(ctx, userID)
	if err != nil {
		return pagination.Page[dto.CategorySummary]{}, err
	}
	items := make([]dto.CategorySummary, 0, len(db.Categories))
	for _, c := range db.Categories {
		items = append(items, dto.CategorySummary{Name: c.Name, Subcategories: len(c.Subcategories)})
	}
	return pagination.Paginate(items, size, page), nil
}

// Category detalle por nombre exacto. Si no existe devuelve Found=false, no un error.
func (uc *CatalogUseCase) Category(ctx context.Context, userID, name string) (dto.CategoryView, error) {
	db, err := uc.Database(ctx, userID)
	if err != nil {
		return dto.CategoryView{}, err
	}
	view := dto.CategoryView{Name: name, Subcategories: []dto.SubcategorySummary{}}
	c, ok := db.FindCategory(name)
	if !ok {
		return view, nil
	}
	view.Found = true
	for _, s := range c.Subcategories {
		view.Subcategories = append(view.Subcategories, dto.SubcategorySummary{Name: s.Name, Adaos: s.Adaos, Products: len(s.Products)})
	}
	return view, nil
}

// Products productos paginados de una subcategoría; Found=false si la ruta no existe.
func (uc *CatalogUseCase) Products(ctx context.Context, userID, category, subcategory string, page, size int) (dto.ProductsView, error) {
	db, err := uc.Database(ctx, userID)
	if err != nil {
		return dto.ProductsView{}, err
	}
	view := dto.ProductsView{Category: category, Subcategory: subcategory, Page: pagination.Paginate([]entity.Product{}, size, page)}
	c, ok := db.FindCategory(category)
	if !ok {
		return view, nil
	}
	s, ok := c.FindSubcategory(subcategory)
	if !ok {
		return view, nil
	}
	view.Found = true
	view.Adaos = s.Adaos
	view.Page = pagination.Paginate(s.Products, size, page)
	return view, nil
}

// AddCategory agrega una categoría vacía.
func (uc *CatalogUseCase) AddCategory(ctx context.Context, userID, name string) (entity.Database, error) {
	return uc.edit(ctx, userID, func(db entity.Database) (entity.Database, error) {
		return domaincatalog.AddCategory(db, name)
	})
}

// RemoveCategory elimina la categoría y todo su contenido.
func (uc *CatalogUseCase) RemoveCategory(ctx context.Context, userID, name string) (entity.Database, error) {
	return uc.edit(ctx, userID, func(db entity.Database) (entity.Database, error) {
		return domaincatalog.RemoveCategory(db, name), nil
	})
}

// AddSubcategory agrega una subcategoría con su adaos.
func (uc *CatalogUseCase) AddSubcategory(ctx context.Context, userID, category, name string, adaos decimal.Decimal) (entity.Database, error) {
	return uc.edit(ctx, userID, func(db entity.Database) (entity.Database, error) {
		return domaincatalog.AddSubcategory(db, category, name, adaos)
	})
}

// UpsertProducts agrega o reemplaza (por cod) productos de una subcategoría.
func (uc *CatalogUseCase) UpsertProducts(ctx context.Context, userID, category, subcategory string, products []entity.Product) (entity.Database, error) {
	if len(products) == 0 {
		return entity.Database{}, fmt.Errorf("%w: no se enviaron productos", domain.ErrInvalidInput)
	}
	return uc.edit(ctx, userID, func(db entity.Database) (entity.Database, error) {
		return domaincatalog.UpsertProducts(db, category, subcategory, products...)
	})
}

// RemoveProduct elimina un producto por cod.
func (uc *CatalogUseCase) RemoveProduct(ctx context.Context, userID, category, subcategory, cod string) (entity.Database, error) {
	return uc.edit(ctx, userID, func(db entity.Database) (entity.Database, error) {
		return domaincatalog.RemoveProduct(db, category, subcategory, cod)
	})
}

// ReplaceDatabase reemplaza el catálogo completo (importación JSON) tras validarlo.
func (uc *CatalogUseCase) ReplaceDatabase(ctx context.Context, userID string, db entity.Database) (entity.Database, error) {
	if db.Categories == nil {
		db.Categories = []entity.Category{}
	}
	if err := domaincatalog.ValidateDatabase(db); err != nil {
		return entity.Database{}, err
	}
	return uc.edit(ctx, userID, func(entity.Database) (entity.Database, error) {
		return db.Clone(), nil
	})
}

// ImportExcel importa una lista de precios .xlsx en la subcategoría indicada. Devuelve la cantidad de productos.
func (uc *CatalogUseCase) ImportExcel(ctx context.Context, userID, category, subcategory string, data []byte) (int, error) {
	if uc.importer == nil {
		return 0, fmt.Errorf("%w: importación de Excel no disponible", domain.ErrInvalidInput)
	}
	products, err := uc.importer.Parse(data)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, fmt.Errorf("%w: la hoja no contiene productos", domain.ErrInvalidInput)
	}
	if _, err := uc.UpsertProducts(ctx, userID, category, subcategory, products); err != nil {
		return 0, err
	}
	uc.log.Info().Str("user_id", userID).Str("category", category).Str("subcategory", subcategory).Int("products", len(products)).Msg("lista de precios importada")
	return len(products), nil
}

// Backups copias disponibles, la más antigua primero.
func (uc *CatalogUseCase) Backups(ctx context.Context, userID string) ([]dto.BackupSummary, error) {
	list, err := uc.backups.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BackupSummary, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BackupSummary{
			Timestamp:  b.CreatedAt.UnixMilli(),
			CreatedAt:  b.CreatedAt,
			Categories: len(b.Database.Categories),
		})
	}
	return out, nil
}

// RestoreBackup reemplaza el catálogo con la copia indicada. El catálogo actual queda a su vez respaldado.
func (uc *CatalogUseCase) RestoreBackup(ctx context.Context, userID string, timestamp int64) (entity.Database, error) {
	b, err := uc.backups.Get(ctx, userID, timestamp)
	if err != nil {
		return entity.Database{}, err
	}
	if b == nil {
		return entity.Database{}, fmt.Errorf("%w: copia de seguridad %d", domain.ErrNotFound, timestamp)
	}
	restored := b.Database.Clone()
	return uc.edit(ctx, userID, func(entity.Database) (entity.Database, error) {
		return restored, nil
	})
}

// MigrateRemote copia los datos locales al espejo remoto.
func (uc *CatalogUseCase) MigrateRemote(ctx context.Context, userID string) error {
	if uc.migrator == nil || !uc.migrator.Enabled() {
		return domain.ErrRemoteDisabled
	}
	unlock := uc.lock(userID)
	defer unlock()
	return uc.migrator.Migrate(ctx, userID)
}

// edit carga, aplica fn y guarda respaldando la versión anterior. Si fn falla no se escribe nada.
func (uc *CatalogUseCase) edit(ctx context.Context, userID string, fn func(entity.Database) (entity.Database, error)) (entity.Database, error) {
	if strings.TrimSpace(userID) == "" {
		return entity.Database{}, domain.ErrUnauthorized
	}
	unlock := uc.lock(userID)
	defer unlock()

	prev, err := uc.store.Load(ctx, userID)
	if err != nil {
		return entity.Database{}, err
	}
	current := entity.Database{Categories: []entity.Category{}}
	if prev != nil {
		current = *prev
	}
	next, err := fn(current)
	if err != nil {
		return entity.Database{}, err
	}
	if prev != nil {
		if err := uc.backups.Create(ctx, userID, entity.Backup{CreatedAt: uc.now().UTC(), Database: *prev}); err != nil {
			// sin copia de seguridad la edición sigue adelante
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo crear la copia de seguridad")
		}
	}
	if err := uc.store.Save(ctx, userID, next); err != nil {
		return entity.Database{}, err
	}
	return next, nil
}
