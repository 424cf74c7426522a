// Package catalog contiene las reglas de edición del catálogo (servicio de dominio).
// Todas las operaciones devuelven una copia nueva de Database; la entrada nunca se modifica.
package catalog

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateCategoryName nombre no vacío.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: el nombre de la categoría es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateSubcategory nombre no vacío y adaos >= 0.
func ValidateSubcategory(name string, adaos decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: el nombre de la subcategoría es obligatorio", domain.ErrInvalidInput)
	}
	if adaos.IsNegative() {
		return fmt.Errorf("%w: el adaos no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateProduct cod obligatorio, pret >= 0 y sin claves reservadas en los atributos.
func ValidateProduct(p entity.Product) error {
	if strings.TrimSpace(p.Cod) == "" {
		return fmt.Errorf("%w: el cod del producto es obligatorio", domain.ErrInvalidInput)
	}
	if p.Pret.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	for k, v := range p.Attributes {
		if k == entity.KeyCod || k == entity.KeyPret || strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: clave de atributo no permitida %q", domain.ErrInvalidInput, k)
		}
		if v.Kind() == 0 {
			return fmt.Errorf("%w: atributo %q sin valor", domain.ErrInvalidInput, k)
		}
	}
	return nil
}

// ValidateDatabase valida el catálogo completo (importaciones): nombres únicos y productos válidos.
func ValidateDatabase(db entity.Database) error {
	seen := make(map[string]struct{}, len(db.Categories))
	for _, c := range db.Categories {
		if err := ValidateCategoryName(c.Name); err != nil {
			return err
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: categoría repetida %q", domain.ErrDuplicate, c.Name)
		}
		seen[c.Name] = struct{}{}
		subs := make(map[string]struct{}, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if err := ValidateSubcategory(s.Name, s.Adaos); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			if _, dup := subs[s.Name]; dup {
				return fmt.Errorf("%w: subcategoría repetida %q en %q", domain.ErrDuplicate, s.Name, c.Name)
			}
			subs[s.Name] = struct{}{}
			for _, p := range s.Products {
				if err := ValidateProduct(p); err != nil {
					return fmt.Errorf("%s/%s: %w", c.Name, s.Name, err)
				}
			}
		}
	}
	return nil
}

// AddCategory agrega una categoría vacía al final.
func AddCategory(db entity.Database, name string) (entity.Database, error) {
	name = strings.TrimSpace(name)
	if err := ValidateCategoryName(name); err != nil {
		return db, err
	}
	if db.CategoryIndex(name) >= 0 {
		return db, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, name)
	}
	out := db.Clone()
	out.Categories = append(out.Categories, entity.Category{Name: name, Subcategories: []entity.Subcategory{}})
	return out, nil
}

// RemoveCategory elimina la categoría; no hace nada si no existe.
func RemoveCategory(db entity.Database, name string) entity.Database {
	i := db.CategoryIndex(name)
	if i < 0 {
		return db
	}
	out := db.Clone()
	out.Categories = append(out.Categories[:i], out.Categories[i+1:]...)
	return out
}

// AddSubcategory agrega una subcategoría vacía al final de la categoría.
func AddSubcategory(db entity.Database, category, name string, adaos decimal.Decimal) (entity.Database, error) {
	name = strings.TrimSpace(name)
	if err := ValidateSubcategory(name, adaos); err != nil {
		return db, err
	}
	ci := db.CategoryIndex(category)
	if ci < 0 {
		return db, domain.ErrCategoryNotFound
	}
	if _, ok := db.Categories[ci].FindSubcategory(name); ok {
		return db, fmt.Errorf("%w: la subcategoría %q ya existe", domain.ErrDuplicate, name)
	}
	out := db.Clone()
	cat := &out.Categories[ci]
	cat.Subcategories = append(cat.Subcategories, entity.Subcategory{Name: name, Adaos: adaos, Products: []entity.Product{}})
	return out, nil
}

// UpsertProducts reemplaza por cod los productos existentes y agrega los nuevos al final.
func UpsertProducts(db entity.Database, category, subcategory string, products ...entity.Product) (entity.Database, error) {
	for _, p := range products {
		if err := ValidateProduct(p); err != nil {
			return db, err
		}
	}
	ci, si, err := locate(db, category, subcategory)
	if err != nil {
		return db, err
	}
	out := db.Clone()
	sub := &out.Categories[ci].Subcategories[si]
	for _, p := range products {
		replaced := false
		for i := range sub.Products {
			if sub.Products[i].Cod == p.Cod {
				sub.Products[i] = p.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			sub.Products = append(sub.Products, p.Clone())
		}
	}
	return out, nil
}

// RemoveProduct elimina el producto por cod; no hace nada si no existe.
func RemoveProduct(db entity.Database, category, subcategory, cod string) (entity.Database, error) {
	ci, si, err := locate(db, category, subcategory)
	if err != nil {
		return db, err
	}
	out := db.Clone()
	sub := &out.Categories[ci].Subcategories[si]
	for i := range sub.Products {
		if sub.Products[i].Cod == cod {
			sub.Products = append(sub.Products[:i], sub.Products[i+1:]...)
			break
		}
	}
	return out, nil
}

func locate(db entity.Database, category, subcategory string) (int, int, error) {
	ci := db.CategoryIndex(category)
	if ci < 0 {
		return 0, 0, domain.ErrCategoryNotFound
	}
	for si, s := range db.Categories[ci].Subcategories {
		if s.Name == subcategory {
			return ci, si, nil
		}
	}
	return 0, 0, domain.ErrSubcategoryNotFound
}
