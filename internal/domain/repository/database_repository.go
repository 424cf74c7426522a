package repository

import (
	"context"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// DatabaseRepository persiste el catálogo completo de un usuario.
// Load devuelve nil, nil cuando el usuario todavía no tiene catálogo guardado.
type DatabaseRepository interface {
	Load(ctx context.Context, userID string) (*entity.Database, error)
	Save(ctx context.Context, userID string, db entity.Database) error
}

// BackupRepository copias de seguridad del catálogo, de la más antigua a la más reciente.
type BackupRepository interface {
	// Create agrega la copia y descarta las más antiguas por encima del límite configurado.
	Create(ctx context.Context, userID string, b entity.Backup) error
	List(ctx context.Context, userID string) ([]entity.Backup, error)
	// Get busca por marca de tiempo exacta (UnixMilli); nil, nil si no existe.
	Get(ctx context.Context, userID string, createdAtMillis int64) (*entity.Backup, error)
}

// MirrorStateRepository recuerda si los datos locales del usuario ya se copiaron al espejo remoto.
type MirrorStateRepository interface {
	IsMigrated(ctx context.Context, userID string) (bool, error)
	MarkMigrated(ctx context.Context, userID string) error
}
