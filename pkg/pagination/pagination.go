// Package pagination implementa la paginación en memoria usada por los listados del catálogo,
// de la oferta y del catálogo remoto.
package pagination

// DefaultPageSize tamaño de página cuando el cliente no envía uno válido.
const DefaultPageSize = 12

// Page resultado de paginar una secuencia.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// TotalPages devuelve ceil(n/size). size <= 0 usa DefaultPageSize.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage ajusta page al rango [1, totalPages]; con 0 páginas devuelve 1.
// Las peticiones fuera de rango se ajustan, nunca fallan.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate devuelve la porción items[(page-1)*size : page*size] con la página ya ajustada.
// El slice devuelto comparte memoria con items; los llamadores no deben modificarlo.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(items)
	total := TotalPages(n, size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	current := items[start:end]
	if current == nil {
		current = []T{}
	}
	return Page[T]{
		Items:      current,
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalItems: n,
	}
}
