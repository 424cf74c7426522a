package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/application/catalog"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/mirror"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

type fakeImporter struct {
	products []entity.Product
	err      error
}

func (f fakeImporter) Parse([]byte) ([]entity.Product, error) { return f.products, f.err }

func newUseCase(t *testing.T, importer fakeImporter) (*catalog.CatalogUseCase, *mirror.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := mirror.New(mirror.Local{
		Catalogs: sqlite.NewDatabaseRepository(store),
		Quotes:   sqlite.NewQuoteRepository(store),
		State:    sqlite.NewMirrorStateRepository(store),
	}, nil, logger.Nop())
	uc := catalog.NewCatalogUseCase(m, sqlite.NewBackupRepository(store, 10), m, importer, logger.Nop())
	return uc, m
}

func product(cod string, pret int64) entity.Product {
	return entity.Product{Cod: cod, Pret: decimal.NewFromInt(pret), Attributes: map[string]entity.AttrValue{}}
}

// ─── Navegación ──────────────────────────────────────────────────────────────

func TestCategory_NoEncontradaEsVistaDeRespaldo(t *testing.T) {
	uc, _ := newUseCase(t, fakeImporter{})
	view, err := uc.Category(context.Background(), "u1", "Dormitor")
	require.NoError(t, err)
	assert.False(t, view.Found)
	assert.Equal(t, "Dormitor", view.Name)
	assert.Empty(t, view.Subcategories)
}

func TestCategories_OrdenDeInsercionYPaginacion(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	for _, n := range []string{"Living", "Bucătărie", "Dormitor"} {
		_, err := uc.AddCategory(ctx, "u1", n)
		require.NoError(t, err)
	}
	page, err := uc.Categories(ctx, "u1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dormitor", page.Items[0].Name)

	page, err = uc.Categories(ctx, "u1", 99, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
}

func TestProducts_SubcategoriaYUpsert(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	_, err := uc.AddCategory(ctx, "u1", "Living")
	require.NoError(t, err)
	_, err = uc.AddSubcategory(ctx, "u1", "Living", "Mese", decimal.NewFromInt(20))
	require.NoError(t, err)
	_, err = uc.UpsertProducts(ctx, "u1", "Living", "Mese", []entity.Product{product("M1", 100), product("M2", 200)})
	require.NoError(t, err)
	_, err = uc.UpsertProducts(ctx, "u1", "Living", "Mese", []entity.Product{product("M1", 150)})
	require.NoError(t, err)

	view, err := uc.Products(ctx, "u1", "Living", "Mese", 1, 10)
	require.NoError(t, err)
	assert.True(t, view.Found)
	assert.True(t, decimal.NewFromInt(20).Equal(view.Adaos))
	require.Len(t, view.Page.Items, 2)
	assert.Equal(t, "M1", view.Page.Items[0].Cod)
	assert.True(t, decimal.NewFromInt(150).Equal(view.Page.Items[0].Pret))

	missing, err := uc.Products(ctx, "u1", "Living", "Scaune", 1, 10)
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Empty(t, missing.Page.Items)
}

func TestAddCategory_DuplicadaNoModifica(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	_, err := uc.AddCategory(ctx, "u1", "Living")
	require.NoError(t, err)
	_, err = uc.AddCategory(ctx, "u1", "Living")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	db, err := uc.Database(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, db.Categories, 1)
}

func TestAddSubcategory_AdaosNegativo(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	_, err := uc.AddCategory(ctx, "u1", "Living")
	require.NoError(t, err)
	_, err = uc.AddSubcategory(ctx, "u1", "Living", "Mese", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Importación y copias ────────────────────────────────────────────────────

func TestImportExcel(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{products: []entity.Product{product("A1", 10), product("A2", 20)}})
	_, err := uc.AddCategory(ctx, "u1", "Accesorii")
	require.NoError(t, err)
	_, err = uc.AddSubcategory(ctx, "u1", "Accesorii", "Mânere", decimal.Zero)
	require.NoError(t, err)

	n, err := uc.ImportExcel(ctx, "u1", "Accesorii", "Mânere", []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = uc.ImportExcel(ctx, "u1", "Accesorii", "Lipsă", []byte("xlsx"))
	assert.ErrorIs(t, err, domain.ErrSubcategoryNotFound)
}

func TestImportExcel_HojaVacia(t *testing.T) {
	uc, _ := newUseCase(t, fakeImporter{})
	_, err := uc.ImportExcel(context.Background(), "u1", "A", "B", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBackups_RestaurarVersionAnterior(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	_, err := uc.AddCategory(ctx, "u1", "Living")
	require.NoError(t, err)

	backups, err := uc.Backups(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, backups, "el primer guardado no tiene versión anterior")

	_, err = uc.AddCategory(ctx, "u1", "Dormitor")
	require.NoError(t, err)
	backups, err = uc.Backups(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, 1, backups[0].Categories)

	db, err := uc.RestoreBackup(ctx, "u1", backups[0].Timestamp)
	require.NoError(t, err)
	assert.Equal(t, []string{"Living"}, db.CategoryNames())

	_, err = uc.RestoreBackup(ctx, "u1", 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceDatabase_Validacion(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, fakeImporter{})
	bad := entity.Database{Categories: []entity.Category{{Name: "A"}, {Name: "A"}}}
	_, err := uc.ReplaceDatabase(ctx, "u1", bad)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	good := entity.Database{Categories: []entity.Category{{Name: "A"}, {Name: "B"}}}
	db, err := uc.ReplaceDatabase(ctx, "u1", good)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, db.CategoryNames())
}

func TestMigrateRemote_SinEspejo(t *testing.T) {
	uc, _ := newUseCase(t, fakeImporter{})
	err := uc.MigrateRemote(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrRemoteDisabled)
}
