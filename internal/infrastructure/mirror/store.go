// Package mirror combina el almacenamiento local con el espejo remoto opcional.
//
// Hasta que los datos de un usuario se migran, la copia local es la autoritativa.
// Después de MarkMigrated las lecturas van primero al remoto y caen a la copia local
// si el remoto falla o no tiene nada. Las escrituras siempre van primero a local y luego,
// si el usuario ya migró, al remoto en modo best-effort (los fallos se registran, no se devuelven).
package mirror

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/repository"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

var (
	_ repository.DatabaseRepository = (*Store)(nil)
	_ repository.QuoteRepository    = (*QuoteStore)(nil)
)

// TxRunner ejecuta fn con repos remotos atados a una misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(catalogs repository.DatabaseRepository, quotes repository.QuoteRepository) error) error
}

// Local repos del almacenamiento local.
type Local struct {
	Catalogs repository.DatabaseRepository
	Quotes   repository.QuoteRepository
	State    repository.MirrorStateRepository
}

// Remote repos del espejo remoto. Tx es opcional; sin él la migración no es atómica.
type Remote struct {
	Catalogs repository.DatabaseRepository
	Quotes   repository.QuoteRepository
	Tx       TxRunner
}

// Store catálogo con espejo. Quotes() expone las ofertas con la misma política.
type Store struct {
	local  Local
	remote *Remote
	log    *logger.Logger
}

// New construye el store. remote nil deshabilita el espejo.
func New(local Local, remote *Remote, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{local: local, remote: remote, log: log.Component("mirror")}
}

// Enabled indica si hay espejo remoto configurado.
func (s *Store) Enabled() bool { return s.remote != nil }

// Quotes repositorio de ofertas con la misma precedencia.
func (s *Store) Quotes() *QuoteStore { return &QuoteStore{s: s} }

// IsMigrated indica si el remoto ya es autoritativo para el usuario.
func (s *Store) IsMigrated(ctx context.Context, userID string) (bool, error) {
	return s.local.State.IsMigrated(ctx, userID)
}

func (s *Store) remoteActive(ctx context.Context, userID string) bool {
	if s.remote == nil {
		return false
	}
	ok, err := s.local.State.IsMigrated(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo leer el estado de migración; se usa la copia local")
		return false
	}
	return ok
}

// Load catálogo del usuario según la precedencia descrita en el paquete.
func (s *Store) Load(ctx context.Context, userID string) (*entity.Database, error) {
	if s.remoteActive(ctx, userID) {
		db, err := s.remote.Catalogs.Load(ctx, userID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Msg("lectura remota del catálogo falló; se usa la copia local")
		case db != nil:
			return db, nil
		}
	}
	return s.local.Catalogs.Load(ctx, userID)
}

// Save escribe local y luego, best-effort, remoto.
func (s *Store) Save(ctx context.Context, userID string, db entity.Database) error {
	if err := s.local.Catalogs.Save(ctx, userID, db); err != nil {
		return err
	}
	if s.remoteActive(ctx, userID) {
		if err := s.remote.Catalogs.Save(ctx, userID, db); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("escritura remota del catálogo falló")
		}
	}
	return nil
}

// Migrate copia el catálogo y las ofertas locales al remoto y marca al usuario como migrado.
// Volver a migrar sobrescribe el remoto con la copia local.
func (s *Store) Migrate(ctx context.Context, userID string) error {
	if s.remote == nil {
		return domain.ErrRemoteDisabled
	}
	db, err := s.local.Catalogs.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("leer catálogo local: %w", err)
	}
	quotes, err := s.local.Quotes.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("leer ofertas locales: %w", err)
	}

	copyAll := func(catalogs repository.DatabaseRepository, qs repository.QuoteRepository) error {
		if db != nil {
			if err := catalogs.Save(ctx, userID, *db); err != nil {
				return err
			}
		}
		for _, q := range quotes {
			if err := qs.Save(ctx, userID, q); err != nil {
				return err
			}
		}
		return nil
	}
	if s.remote.Tx != nil {
		err = s.remote.Tx.Run(ctx, copyAll)
	} else {
		err = copyAll(s.remote.Catalogs, s.remote.Quotes)
	}
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("migración al espejo remoto falló")
		return fmt.Errorf("%w: %v", domain.ErrMirrorWrite, err)
	}
	if err := s.local.State.MarkMigrated(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Int("quotes", len(quotes)).Bool("catalog", db != nil).Msg("datos migrados al espejo remoto")
	return nil
}

// QuoteStore ofertas con espejo.
type QuoteStore struct {
	s *Store
}

// Load oferta por id según la precedencia del paquete.
func (q *QuoteStore) Load(ctx context.Context, userID, quoteID string) (*entity.Quote, error) {
	s := q.s
	if s.remoteActive(ctx, userID) {
		got, err := s.remote.Quotes.Load(ctx, userID, quoteID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Str("quote_id", quoteID).Msg("lectura remota de la oferta falló; se usa la copia local")
		case got != nil:
			return got, nil
		}
	}
	return s.local.Quotes.Load(ctx, userID, quoteID)
}

// Save escribe local y luego, best-effort, remoto.
func (q *QuoteStore) Save(ctx context.Context, userID string, quote entity.Quote) error {
	s := q.s
	if err := s.local.Quotes.Save(ctx, userID, quote); err != nil {
		return err
	}
	if s.remoteActive(ctx, userID) {
		if err := s.remote.Quotes.Save(ctx, userID, quote); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Str("quote_id", quote.ID).Msg("escritura remota de la oferta falló")
		}
	}
	return nil
}

// List ofertas guardadas; después de migrar se prefiere la lista remota si no está vacía.
func (q *QuoteStore) List(ctx context.Context, userID string) ([]entity.Quote, error) {
	s := q.s
	if s.remoteActive(ctx, userID) {
		list, err := s.remote.Quotes.List(ctx, userID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Msg("listado remoto de ofertas falló; se usa la copia local")
		case len(list) > 0:
			return list, nil
		}
	}
	return s.local.Quotes.List(ctx, userID)
}

// Delete borra local y luego, best-effort, remoto.
func (q *QuoteStore) Delete(ctx context.Context, userID, quoteID string) error {
	s := q.s
	if err := s.local.Quotes.Delete(ctx, userID, quoteID); err != nil {
		return err
	}
	if s.remoteActive(ctx, userID) {
		if err := s.remote.Quotes.Delete(ctx, userID, quoteID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Str("quote_id", quoteID).Msg("borrado remoto de la oferta falló")
		}
	}
	return nil
}
