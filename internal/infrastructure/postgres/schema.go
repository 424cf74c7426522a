package postgres

import (
	"context"
	"fmt"
)

// schema árbol de documentos por usuario: catálogo (categorías por nombre) y ofertas por id.
const schema = `
CREATE TABLE IF NOT EXISTS mirror_catalogs (
	user_id    TEXT PRIMARY KEY,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS mirror_categories (
	user_id       TEXT    NOT NULL REFERENCES mirror_catalogs(user_id) ON DELETE CASCADE,
	name          TEXT    NOT NULL,
	position      INTEGER NOT NULL,
	subcategories JSONB   NOT NULL DEFAULT '[]'::jsonb,
	PRIMARY KEY (user_id, name)
);
CREATE TABLE IF NOT EXISTS mirror_quotes (
	user_id    TEXT        NOT NULL,
	quote_id   TEXT        NOT NULL,
	title      TEXT        NOT NULL DEFAULT '',
	total      NUMERIC     NOT NULL DEFAULT 0,
	document   JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, quote_id)
);
CREATE INDEX IF NOT EXISTS idx_mirror_quotes_user_updated ON mirror_quotes (user_id, updated_at DESC);
`

// EnsureSchema crea las tablas del espejo si no existen.
func EnsureSchema(ctx context.Context, db Querier) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema del espejo: %w", err)
	}
	return nil
}
