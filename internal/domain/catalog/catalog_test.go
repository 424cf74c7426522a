package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/catalog"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

func baseDB(t *testing.T) entity.Database {
	t.Helper()
	db, err := catalog.AddCategory(entity.Database{}, "Bucătărie")
	require.NoError(t, err)
	db, err = catalog.AddSubcategory(db, "Bucătărie", "Mese", decimal.NewFromInt(20))
	require.NoError(t, err)
	return db
}

func TestAddCategory_ValidaYRechazaDuplicados(t *testing.T) {
	db := baseDB(t)

	_, err := catalog.AddCategory(db, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = catalog.AddCategory(db, "Bucătărie")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	next, err := catalog.AddCategory(db, "Living")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bucătărie", "Living"}, next.CategoryNames(), "orden de inserción")
	assert.Len(t, db.Categories, 1, "la entrada no se modifica")
}

func TestAddSubcategory_AdaosNegativo(t *testing.T) {
	db := baseDB(t)

	_, err := catalog.AddSubcategory(db, "Bucătărie", "Scaune", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = catalog.AddSubcategory(db, "Nu există", "Scaune", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestUpsertProducts_ReemplazaPorCod(t *testing.T) {
	db := baseDB(t)
	p1 := entity.Product{Cod: "M1", Pret: decimal.NewFromInt(100)}
	p2 := entity.Product{Cod: "M2", Pret: decimal.NewFromInt(200)}

	db, err := catalog.UpsertProducts(db, "Bucătărie", "Mese", p1, p2)
	require.NoError(t, err)

	p1b := entity.Product{Cod: "M1", Pret: decimal.NewFromInt(150)}
	db, err = catalog.UpsertProducts(db, "Bucătărie", "Mese", p1b)
	require.NoError(t, err)

	sub := db.Categories[0].Subcategories[0]
	require.Len(t, sub.Products, 2)
	assert.Equal(t, "M1", sub.Products[0].Cod)
	assert.True(t, sub.Products[0].Pret.Equal(decimal.NewFromInt(150)))

	db, err = catalog.RemoveProduct(db, "Bucătărie", "Mese", "M1")
	require.NoError(t, err)
	assert.Len(t, db.Categories[0].Subcategories[0].Products, 1)

	_, err = catalog.RemoveProduct(db, "Bucătărie", "Nu", "M1")
	assert.ErrorIs(t, err, domain.ErrSubcategoryNotFound)
}

func TestValidateProduct(t *testing.T) {
	assert.ErrorIs(t, catalog.ValidateProduct(entity.Product{Cod: ""}), domain.ErrInvalidInput)
	assert.ErrorIs(t, catalog.ValidateProduct(entity.Product{Cod: "A", Pret: decimal.NewFromInt(-5)}), domain.ErrInvalidInput)
	assert.NoError(t, catalog.ValidateProduct(entity.Product{Cod: "A", Pret: decimal.Zero}))
}

func TestValidateDatabase_CategoriaRepetida(t *testing.T) {
	db := entity.Database{Categories: []entity.Category{{Name: "A"}, {Name: "A"}}}

	assert.ErrorIs(t, catalog.ValidateDatabase(db), domain.ErrDuplicate)
}
