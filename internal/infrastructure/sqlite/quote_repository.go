package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo ofertas en furnitureQuote:<uid>:<quoteId>.
type QuoteRepo struct {
	store *Store
}

// NewQuoteRepository construye el repositorio local de ofertas.
func NewQuoteRepository(store *Store) *QuoteRepo {
	return &QuoteRepo{store: store}
}

// Load devuelve nil, nil si la oferta no existe.
func (r *QuoteRepo) Load(ctx context.Context, userID, quoteID string) (*entity.Quote, error) {
	if quoteID == "" {
		quoteID = entity.DefaultQuoteID
	}
	var q entity.Quote
	ok, err := getJSON(ctx, r.store.db, quoteKey(userID, quoteID), &q)
	if err != nil || !ok {
		return nil, err
	}
	if q.Items == nil {
		q.Items = []entity.QuoteItem{}
	}
	return &q, nil
}

// Save sobrescribe la oferta con su id.
func (r *QuoteRepo) Save(ctx context.Context, userID string, q entity.Quote) error {
	if q.ID == "" {
		q.ID = entity.DefaultQuoteID
	}
	return putJSON(ctx, r.store.db, quoteKey(userID, q.ID), q)
}

// List ofertas del usuario, la más reciente primero.
func (r *QuoteRepo) List(ctx context.Context, userID string) ([]entity.Quote, error) {
	prefix := quotePrefix(userID)
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("listar ofertas: %w", err)
	}
	defer rows.Close()

	out := []entity.Quote{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan oferta: %w", err)
		}
		var q entity.Quote
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", key, err)
		}
		if q.ID == "" {
			q.ID = strings.TrimPrefix(key, prefix)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Delete elimina la oferta; no falla si no existe.
func (r *QuoteRepo) Delete(ctx context.Context, userID, quoteID string) error {
	return deleteKey(ctx, r.store.db, quoteKey(userID, quoteID))
}

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo borrador de la oferta activa en furnitureQuoteDraft:<uid>. Queda fuera del prefijo
// furnitureQuote:<uid>: así que List de QuoteRepo no lo ve.
type DraftRepo struct {
	store *Store
}

// NewDraftRepository construye el repositorio de borradores.
func NewDraftRepository(store *Store) *DraftRepo {
	return &DraftRepo{store: store}
}

// Load devuelve nil, nil si el usuario no tiene borrador.
func (r *DraftRepo) Load(ctx context.Context, userID string) (*entity.Quote, error) {
	var q entity.Quote
	ok, err := getJSON(ctx, r.store.db, draftKey(userID), &q)
	if err != nil || !ok {
		return nil, err
	}
	if q.Items == nil {
		q.Items = []entity.QuoteItem{}
	}
	return &q, nil
}

// Save sobrescribe el borrador.
func (r *DraftRepo) Save(ctx context.Context, userID string, q entity.Quote) error {
	return putJSON(ctx, r.store.db, draftKey(userID), q)
}

// Delete descarta el borrador; no falla si no existe.
func (r *DraftRepo) Delete(ctx context.Context, userID string) error {
	return deleteKey(ctx, r.store.db, draftKey(userID))
}
