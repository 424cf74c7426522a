// Package sqlite almacenamiento local: un KV con la misma disposición de claves que el
// localStorage del navegador (catálogo, ofertas, copias, estado de migración) más usuarios y sesiones.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Prefijos de clave del KV.
const (
	keyDatabase = "furnitureDB:"
	keyQuote    = "furnitureQuote:"
	keyDraft    = "furnitureQuoteDraft:"
	keyBackups  = "furnitureDB_backups:"
	keyMigrated = "remoteMigrated:"
)

func databaseKey(uid string) string       { return keyDatabase + uid }
func quotePrefix(uid string) string       { return keyQuote + uid + ":" }
func quoteKey(uid, quoteID string) string { return quotePrefix(uid) + quoteID }
func draftKey(uid string) string          { return keyDraft + uid }
func backupsKey(uid string) string        { return keyBackups + uid }
func migratedKey(uid string) string       { return keyMigrated + uid }

// Store conexión al archivo SQLite local.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) el archivo y aplica el esquema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("la ruta de la base local no puede estar vacía")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base local: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un único escritor evita "database is locked" bajo concurrencia.
	db.SetMaxOpenConns(1)
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close cierra la conexión.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL,
	revoked_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("crear esquema local: %w", err)
	}
	return nil
}

// queryer es común a *sql.DB y *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getJSON decodifica la clave en v. Devuelve false si la clave no existe.
func getJSON(ctx context.Context, q queryer, key string, v any) (bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("leer %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decodificar %s: %w", key, err)
	}
	return true, nil
}

func putJSON(ctx context.Context, q queryer, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("codificar %s: %w", key, err)
	}
	_, err = q.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("escribir %s: %w", key, err)
	}
	return nil
}

func deleteKey(ctx context.Context, q queryer, key string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("borrar %s: %w", key, err)
	}
	return nil
}

// withTx ejecuta fn en una transacción y hace Commit o Rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation verifica si un error es una violación de UNIQUE/PRIMARY KEY.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
