package remotecatalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/application/remotecatalog"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

type fakeFetcher struct {
	doc *entity.RemoteCatalog
	err error
}

func (f fakeFetcher) Fetch(context.Context) (*entity.RemoteCatalog, error) { return f.doc, f.err }

func document(t *testing.T) *entity.RemoteCatalog {
	t.Helper()
	raw := `{
		"categories": [{"id": 1, "slug": "accesorii"}, {"id": "2", "slug": "mobila"}],
		"products": [
			{"id": 10, "categoryId": 1, "name": "Mâner"},
			{"id": 11, "categoryId": 2, "name": "Dulap"},
			{"id": 12, "categoryId": "1", "name": "Balama"}
		]
	}`
	var doc entity.RemoteCatalog
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestProducts_FiltraYPagina(t *testing.T) {
	uc := remotecatalog.NewUseCase(fakeFetcher{doc: document(t)}, nil, logger.Nop())
	out, err := uc.Products(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	assert.Equal(t, 2, out.Page.TotalItems)
	require.Len(t, out.Page.Items, 1)
	assert.Equal(t, "accesorii", out.Page.Items[0].CategorySlug)
}

func TestProducts_ErrorRemoto(t *testing.T) {
	uc := remotecatalog.NewUseCase(fakeFetcher{err: errors.New("dial tcp: refused")}, nil, logger.Nop())
	_, err := uc.Products(context.Background(), 1, 10)
	assert.ErrorIs(t, err, domain.ErrRemoteFetch)
}
