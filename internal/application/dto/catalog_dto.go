package dto

import (
	"time"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CategorySummary fila del listado de categorías.
type CategorySummary struct {
	Name          string `json:"name"`
	Subcategories int    `json:"subcategories"`
}

// SubcategorySummary fila del listado de subcategorías de una categoría.
type SubcategorySummary struct {
	Name     string          `json:"name"`
	Adaos    decimal.Decimal `json:"adaos"`
	Products int             `json:"products"`
}

// CategoryView detalle de una categoría. Found=false es la vista "categoría no encontrada".
type CategoryView struct {
	Found         bool                 `json:"found"`
	Name          string               `json:"name"`
	Subcategories []SubcategorySummary `json:"subcategories"`
}

// ProductsView productos paginados de una subcategoría.
type ProductsView struct {
	Found       bool                            `json:"found"`
	Category    string                          `json:"category"`
	Subcategory string                          `json:"subcategory"`
	Adaos       decimal.Decimal                 `json:"adaos"`
	Page        pagination.Page[entity.Product] `json:"page"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CreateSubcategoryRequest alta de subcategoría con su adaos (%).
type CreateSubcategoryRequest struct {
	Name  string          `json:"name"`
	Adaos decimal.Decimal `json:"adaos"`
}

// UpsertProductsRequest alta o reemplazo (por cod) de productos.
type UpsertProductsRequest struct {
	Products []entity.Product `json:"products"`
}

// ImportResult resultado de importar una lista de precios.
type ImportResult struct {
	Imported int `json:"imported"`
}

// BackupSummary copia de seguridad disponible para restaurar.
type BackupSummary struct {
	Timestamp  int64     `json:"timestamp"` // milisegundos Unix; identifica la copia
	CreatedAt  time.Time `json:"created_at"`
	Categories int       `json:"categories"`
}

// MigrationResponse estado del espejo remoto tras migrar.
type MigrationResponse struct {
	Migrated bool `json:"migrated"`
}
