package mirror_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/mirror"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

// ─── Fakes en memoria ────────────────────────────────────────────────────────

var errDown = errors.New("remoto caído")

type memCatalogs struct {
	data map[string]entity.Database
	fail bool
}

func newMemCatalogs() *memCatalogs { return &memCatalogs{data: map[string]entity.Database{}} }

func (m *memCatalogs) Load(_ context.Context, uid string) (*entity.Database, error) {
	if m.fail {
		return nil, errDown
	}
	db, ok := m.data[uid]
	if !ok {
		return nil, nil
	}
	return &db, nil
}

func (m *memCatalogs) Save(_ context.Context, uid string, db entity.Database) error {
	if m.fail {
		return errDown
	}
	m.data[uid] = db
	return nil
}

type memQuotes struct {
	data map[string]entity.Quote
	fail bool
}

func newMemQuotes() *memQuotes { return &memQuotes{data: map[string]entity.Quote{}} }

func (m *memQuotes) Load(_ context.Context, uid, id string) (*entity.Quote, error) {
	if m.fail {
		return nil, errDown
	}
	q, ok := m.data[uid+"/"+id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memQuotes) Save(_ context.Context, uid string, q entity.Quote) error {
	if m.fail {
		return errDown
	}
	m.data[uid+"/"+q.ID] = q
	return nil
}

func (m *memQuotes) List(_ context.Context, uid string) ([]entity.Quote, error) {
	if m.fail {
		return nil, errDown
	}
	out := []entity.Quote{}
	for k, q := range m.data {
		if len(k) > len(uid) && k[:len(uid)+1] == uid+"/" {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memQuotes) Delete(_ context.Context, uid, id string) error {
	if m.fail {
		return errDown
	}
	delete(m.data, uid+"/"+id)
	return nil
}

type memState map[string]bool

func (m memState) IsMigrated(_ context.Context, uid string) (bool, error) { return m[uid], nil }
func (m memState) MarkMigrated(_ context.Context, uid string) error       { m[uid] = true; return nil }

type fixture struct {
	localDB, remoteDB *memCatalogs
	localQ, remoteQ   *memQuotes
	state             memState
	store             *mirror.Store
}

func newFixture(withRemote bool) *fixture {
	f := &fixture{
		localDB: newMemCatalogs(), remoteDB: newMemCatalogs(),
		localQ: newMemQuotes(), remoteQ: newMemQuotes(),
		state: memState{},
	}
	var remote *mirror.Remote
	if withRemote {
		remote = &mirror.Remote{Catalogs: f.remoteDB, Quotes: f.remoteQ}
	}
	f.store = mirror.New(mirror.Local{Catalogs: f.localDB, Quotes: f.localQ, State: f.state}, remote, logger.Nop())
	return f
}

func named(n string) entity.Database {
	return entity.Database{Categories: []entity.Category{{Name: n}}}
}

// ─── Precedencia ─────────────────────────────────────────────────────────────

func TestStore_AntesDeMigrarSoloLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	require.NoError(t, f.store.Save(ctx, "u1", named("local")))
	assert.Empty(t, f.remoteDB.data, "sin migrar no se escribe en remoto")

	f.remoteDB.data["u1"] = named("remoto")
	got, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "local", got.Categories[0].Name)
}

func TestStore_MigrarYLeerRemoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	require.NoError(t, f.store.Save(ctx, "u1", named("Living")))
	require.NoError(t, f.store.Quotes().Save(ctx, "u1", entity.NewQuote("", time.Now())))

	require.NoError(t, f.store.Migrate(ctx, "u1"))
	assert.Equal(t, "Living", f.remoteDB.data["u1"].Categories[0].Name)
	assert.Contains(t, f.remoteQ.data, "u1/"+entity.DefaultQuoteID)

	f.remoteDB.data["u1"] = named("editado en otro dispositivo")
	got, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "editado en otro dispositivo", got.Categories[0].Name, "tras migrar manda el remoto")

	require.NoError(t, f.store.Save(ctx, "u1", named("nuevo")))
	assert.Equal(t, "nuevo", f.localDB.data["u1"].Categories[0].Name)
	assert.Equal(t, "nuevo", f.remoteDB.data["u1"].Categories[0].Name)
}

func TestStore_RemotoCaidoEsBestEffort(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	require.NoError(t, f.store.Save(ctx, "u1", named("a")))
	require.NoError(t, f.store.Migrate(ctx, "u1"))

	f.remoteDB.fail = true
	f.remoteQ.fail = true
	require.NoError(t, f.store.Save(ctx, "u1", named("b")), "el fallo remoto no se propaga")
	got, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Categories[0].Name, "se cae a la copia local")

	require.NoError(t, f.store.Quotes().Save(ctx, "u1", entity.NewQuote("q2", time.Now())))
	list, err := f.store.Quotes().List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_SinRemoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)
	assert.False(t, f.store.Enabled())
	assert.ErrorIs(t, f.store.Migrate(ctx, "u1"), domain.ErrRemoteDisabled)

	got, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_MigracionFallida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)
	require.NoError(t, f.store.Save(ctx, "u1", named("a")))
	f.remoteDB.fail = true

	err := f.store.Migrate(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrMirrorWrite)
	migrated, _ := f.store.IsMigrated(ctx, "u1")
	assert.False(t, migrated)
}
