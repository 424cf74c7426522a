package feroshop_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/feroshop"
)

func TestFetch_Decodifica(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"categories":[{"id":1,"slug":"accesorii"}],"products":[{"id":"p1","categoryId":1,"stock":3}],"version":2}`))
	}))
	defer srv.Close()

	doc, err := feroshop.NewClient(srv.URL+"/", "api/products", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1)
	require.Len(t, doc.Products, 1)

	var stock int
	assert.True(t, doc.Products[0].Field("stock", &stock))
	assert.Equal(t, 3, stock)
}

func TestFetch_ErroresRemotos(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"http 500": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"json roto": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"categories":`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := feroshop.NewClient(srv.URL, "", time.Second).Fetch(context.Background())
			assert.ErrorIs(t, err, domain.ErrRemoteFetch)
		})
	}
}

func TestFetch_SinServidor(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := feroshop.NewClient(url, "", time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteFetch)
}
