package repository

import (
	"context"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// QuoteRepository ofertas guardadas por usuario, indexadas por id (por defecto "current").
type QuoteRepository interface {
	Load(ctx context.Context, userID, quoteID string) (*entity.Quote, error)
	Save(ctx context.Context, userID string, q entity.Quote) error
	// List devuelve todas las ofertas del usuario, la modificada más recientemente primero.
	List(ctx context.Context, userID string) ([]entity.Quote, error)
	Delete(ctx context.Context, userID, quoteID string) error
}

// DraftRepository borrador de la oferta activa, uno por usuario. No aparece entre las guardadas.
type DraftRepository interface {
	// Load devuelve nil, nil si no hay borrador.
	Load(ctx context.Context, userID string) (*entity.Quote, error)
	Save(ctx context.Context, userID string, q entity.Quote) error
	Delete(ctx context.Context, userID string) error
}
