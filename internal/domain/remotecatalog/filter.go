// Package remotecatalog filtra el catálogo de FeroShop por categorías permitidas.
package remotecatalog

import (
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/pkg/slug"
)

// DefaultAllowedSlugs categorías visibles si no se configura otra lista.
var DefaultAllowedSlugs = []string{"accesorii"}

func allowList(allowed []string) map[string]struct{} {
	if len(allowed) == 0 {
		allowed = DefaultAllowedSlugs
	}
	return slug.Set(allowed)
}

// Categories categorías cuyo slug está en la lista permitida, en el orden del documento.
func Categories(doc entity.RemoteCatalog, allowed []string) []entity.RemoteCategory {
	set := allowList(allowed)
	out := make([]entity.RemoteCategory, 0)
	for _, c := range doc.Categories {
		if _, ok := set[slug.Make(c.Slug)]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Filter primero reúne los ids de las categorías permitidas y luego conserva los productos
// cuyo categoryId pertenece a ese conjunto, anotando categorySlug con el slug de la categoría.
// Productos de categorías desconocidas se descartan.
func Filter(doc entity.RemoteCatalog, allowed []string) []entity.RemoteProduct {
	slugByID := make(map[entity.FlexID]string)
	for _, c := range Categories(doc, allowed) {
		slugByID[c.ID] = c.Slug
	}
	out := make([]entity.RemoteProduct, 0)
	for _, p := range doc.Products {
		s, ok := slugByID[p.CategoryID]
		if !ok {
			continue
		}
		p.CategorySlug = s
		out = append(out, p)
	}
	return out
}
