package entity

import "github.com/shopspring/decimal"

// Subcategory agrupa productos que comparten el mismo adaos (recargo porcentual).
type Subcategory struct {
	Name     string          `json:"name"`
	Adaos    decimal.Decimal `json:"adaos"`
	Products []Product       `json:"products"`
}

// FindProduct busca un producto por cod (coincidencia exacta).
func (s Subcategory) FindProduct(cod string) (Product, bool) {
	for _, p := range s.Products {
		if p.Cod == cod {
			return p, true
		}
	}
	return Product{}, false
}

// Category categoría de primer nivel; Name es la clave única.
type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// FindSubcategory busca una subcategoría por nombre exacto.
func (c Category) FindSubcategory(name string) (Subcategory, bool) {
	for _, s := range c.Subcategories {
		if s.Name == name {
			return s, true
		}
	}
	return Subcategory{}, false
}

// Database raíz del catálogo de un usuario. El orden de Categories es el de inserción.
type Database struct {
	Categories []Category `json:"categories"`
}

// FindCategory busca una categoría por nombre exacto.
func (d Database) FindCategory(name string) (Category, bool) {
	if i := d.CategoryIndex(name); i >= 0 {
		return d.Categories[i], true
	}
	return Category{}, false
}

// CategoryIndex posición de la categoría o -1.
func (d Database) CategoryIndex(name string) int {
	for i, c := range d.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// CategoryNames nombres en orden de inserción.
func (d Database) CategoryNames() []string {
	names := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Clone copia profunda: las ediciones sobre la copia no afectan al original.
func (d Database) Clone() Database {
	out := Database{Categories: make([]Category, len(d.Categories))}
	for i, c := range d.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// Clone copia profunda de la categoría.
func (c Category) Clone() Category {
	out := Category{Name: c.Name, Subcategories: make([]Subcategory, len(c.Subcategories))}
	for i, s := range c.Subcategories {
		out.Subcategories[i] = s.Clone()
	}
	return out
}

// Clone copia profunda de la subcategoría.
func (s Subcategory) Clone() Subcategory {
	out := Subcategory{Name: s.Name, Adaos: s.Adaos, Products: make([]Product, len(s.Products))}
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	return out
}
