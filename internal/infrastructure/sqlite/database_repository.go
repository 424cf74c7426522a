package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

var (
	_ repository.DatabaseRepository    = (*DatabaseRepo)(nil)
	_ repository.BackupRepository      = (*BackupRepo)(nil)
	_ repository.MirrorStateRepository = (*MirrorStateRepo)(nil)
)

// DatabaseRepo catálogo del usuario en la clave furnitureDB:<uid>.
type DatabaseRepo struct {
	store *Store
}

// NewDatabaseRepository construye el repositorio local de catálogos.
func NewDatabaseRepository(store *Store) *DatabaseRepo {
	return &DatabaseRepo{store: store}
}

// Load devuelve nil, nil si el usuario no tiene catálogo.
func (r *DatabaseRepo) Load(ctx context.Context, userID string) (*entity.Database, error) {
	var db entity.Database
	ok, err := getJSON(ctx, r.store.db, databaseKey(userID), &db)
	if err != nil || !ok {
		return nil, err
	}
	return &db, nil
}

// Save sobrescribe el catálogo.
func (r *DatabaseRepo) Save(ctx context.Context, userID string, db entity.Database) error {
	if db.Categories == nil {
		db.Categories = []entity.Category{}
	}
	return putJSON(ctx, r.store.db, databaseKey(userID), db)
}

// BackupRepo lista rotativa de copias en furnitureDB_backups:<uid>.
type BackupRepo struct {
	store *Store
	limit int
}

// NewBackupRepository construye el repositorio de copias. limit <= 0 usa 10.
func NewBackupRepository(store *Store, limit int) *BackupRepo {
	if limit <= 0 {
		limit = 10
	}
	return &BackupRepo{store: store, limit: limit}
}

// Create agrega la copia al final y descarta desde el principio hasta quedar en el límite.
// La marca de tiempo se redondea al milisegundo y crece estrictamente, así Get nunca es ambiguo.
func (r *BackupRepo) Create(ctx context.Context, userID string, b entity.Backup) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		var list []entity.Backup
		if _, err := getJSON(ctx, tx, backupsKey(userID), &list); err != nil {
			return err
		}
		created := b.CreatedAt.UTC().Truncate(time.Millisecond)
		if n := len(list); n > 0 {
			if last := list[n-1].CreatedAt.UTC().Truncate(time.Millisecond); !created.After(last) {
				created = last.Add(time.Millisecond)
			}
		}
		list = append(list, entity.Backup{CreatedAt: created, Database: b.Database.Clone()})
		if over := len(list) - r.limit; over > 0 {
			list = list[over:]
		}
		return putJSON(ctx, tx, backupsKey(userID), list)
	})
}

// List copias de la más antigua a la más reciente.
func (r *BackupRepo) List(ctx context.Context, userID string) ([]entity.Backup, error) {
	list := []entity.Backup{}
	if _, err := getJSON(ctx, r.store.db, backupsKey(userID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get busca la copia con esa marca de tiempo en milisegundos.
func (r *BackupRepo) Get(ctx context.Context, userID string, createdAtMillis int64) (*entity.Backup, error) {
	list, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CreatedAt.UnixMilli() == createdAtMillis {
			return &list[i], nil
		}
	}
	return nil, nil
}

// MirrorStateRepo marca remoteMigrated:<uid>.
type MirrorStateRepo struct {
	store *Store
}

// NewMirrorStateRepository construye el repositorio del estado de migración.
func NewMirrorStateRepository(store *Store) *MirrorStateRepo {
	return &MirrorStateRepo{store: store}
}

type migratedFlag struct {
	Migrated bool      `json:"migrated"`
	At       time.Time `json:"at"`
}

// IsMigrated indica si los datos del usuario ya se copiaron al espejo remoto.
func (r *MirrorStateRepo) IsMigrated(ctx context.Context, userID string) (bool, error) {
	var f migratedFlag
	ok, err := getJSON(ctx, r.store.db, migratedKey(userID), &f)
	if err != nil || !ok {
		return false, err
	}
	return f.Migrated, nil
}

// MarkMigrated registra la migración.
func (r *MirrorStateRepo) MarkMigrated(ctx context.Context, userID string) error {
	return putJSON(ctx, r.store.db, migratedKey(userID), migratedFlag{Migrated: true, At: time.Now().UTC()})
}
