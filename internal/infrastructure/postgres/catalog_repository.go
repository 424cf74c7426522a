package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

var _ repository.DatabaseRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogo remoto: una fila por categoría (user_id, name) con position para el orden.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepository construye el adaptador del catálogo remoto.
func NewCatalogRepository(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Load devuelve nil, nil si el usuario nunca guardó su catálogo en el espejo.
func (r *CatalogRepo) Load(ctx context.Context, userID string) (*entity.Database, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT true FROM mirror_catalogs WHERE user_id = $1`, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, subcategories FROM mirror_categories
		WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	db := entity.Database{Categories: []entity.Category{}}
	for rows.Next() {
		var (
			c   entity.Category
			raw []byte
		)
		if err := rows.Scan(&c.Name, &raw); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if err := json.Unmarshal(raw, &c.Subcategories); err != nil {
			return nil, fmt.Errorf("decode subcategories %q: %w", c.Name, err)
		}
		db.Categories = append(db.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &db, nil
}

// Save reemplaza todas las categorías del usuario en una sola transacción.
func (r *CatalogRepo) Save(ctx context.Context, userID string, db entity.Database) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO mirror_catalogs (user_id, updated_at) VALUES ($1, now())
			ON CONFLICT (user_id) DO UPDATE SET updated_at = now()`, userID); err != nil {
			return fmt.Errorf("upsert catalog: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM mirror_categories WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		for i, c := range db.Categories {
			subs := c.Subcategories
			if subs == nil {
				subs = []entity.Subcategory{}
			}
			raw, err := json.Marshal(subs)
			if err != nil {
				return fmt.Errorf("encode subcategories %q: %w", c.Name, err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO mirror_categories (user_id, name, position, subcategories)
				VALUES ($1, $2, $3, $4)`, userID, c.Name, i, raw); err != nil {
				return fmt.Errorf("insert category %q: %w", c.Name, err)
			}
		}
		return nil
	})
}
