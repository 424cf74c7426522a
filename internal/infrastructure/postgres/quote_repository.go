package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo ofertas remotas (user_id, quote_id); el documento completo va en JSONB.
type QuoteRepo struct {
	db Querier
}

// NewQuoteRepository construye el adaptador de ofertas remotas.
func NewQuoteRepository(db Querier) *QuoteRepo {
	return &QuoteRepo{db: db}
}

// Load devuelve nil, nil si la oferta no existe.
func (r *QuoteRepo) Load(ctx context.Context, userID, quoteID string) (*entity.Quote, error) {
	if quoteID == "" {
		quoteID = entity.DefaultQuoteID
	}
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT document FROM mirror_quotes WHERE user_id = $1 AND quote_id = $2`, userID, quoteID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return decodeQuote(raw)
}

// Save inserta o reemplaza la oferta.
func (r *QuoteRepo) Save(ctx context.Context, userID string, q entity.Quote) error {
	if q.ID == "" {
		q.ID = entity.DefaultQuoteID
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO mirror_quotes (user_id, quote_id, title, total, document, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, quote_id) DO UPDATE SET
			title = excluded.title, total = excluded.total,
			document = excluded.document, updated_at = excluded.updated_at`,
		userID, q.ID, q.Title, q.Total(), raw, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert quote: %w", err)
	}
	return nil
}

// List ofertas del usuario, la más reciente primero.
func (r *QuoteRepo) List(ctx context.Context, userID string) ([]entity.Quote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT document FROM mirror_quotes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	out := []entity.Quote{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q, err := decodeQuote(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// Delete elimina la oferta; no falla si no existe.
func (r *QuoteRepo) Delete(ctx context.Context, userID, quoteID string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM mirror_quotes WHERE user_id = $1 AND quote_id = $2`, userID, quoteID); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// Totals suma de los totales de las ofertas guardadas del usuario (columna NUMERIC).
func (r *QuoteRepo) Totals(ctx context.Context, userID string) (count int, sum decimal.Decimal, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT count(*), COALESCE(sum(total), 0) FROM mirror_quotes WHERE user_id = $1`, userID,
	).Scan(&count, &sum)
	if err != nil {
		return 0, sum, fmt.Errorf("quote totals: %w", err)
	}
	return count, sum, nil
}

func decodeQuote(raw []byte) (*entity.Quote, error) {
	var q entity.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if q.Items == nil {
		q.Items = []entity.QuoteItem{}
	}
	return &q, nil
}
