package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrCategoryNotFound    = errors.New("categoría no encontrada")
	ErrSubcategoryNotFound = errors.New("subcategoría no encontrada")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrItemNotFound        = errors.New("línea de oferta no encontrada")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrRemoteFetch         = errors.New("error al consultar el catálogo remoto")
	ErrUploadFailed        = errors.New("error al subir la imagen")
	ErrRemoteDisabled      = errors.New("espejo remoto no configurado")
	ErrMirrorWrite         = errors.New("error al escribir en el espejo remoto")
)

// IsNotFound indica si err es alguna de las condiciones de "no encontrado".
// Estas condiciones se resuelven con una vista de respaldo, no con un fallo.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrSubcategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrItemNotFound)
}
