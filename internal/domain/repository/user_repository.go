package repository

import (
	"context"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca por email normalizado; devuelve nil, nil si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// SessionRepository sesiones emitidas. Un token sólo es válido mientras su sesión no esté revocada.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	Revoke(ctx context.Context, sessionID string) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
	// CountActive sesiones del usuario no revocadas ni vencidas.
	CountActive(ctx context.Context, userID string) (int, error)
}
