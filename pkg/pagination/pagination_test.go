package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/pkg/pagination"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_PaginaIntermedia(t *testing.T) {
	p := pagination.Paginate(seq(25), 10, 2)

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalItems)
	assert.Equal(t, seq(20)[10:], p.Items)
}

func TestPaginate_UltimaPaginaIncompleta(t *testing.T) {
	p := pagination.Paginate(seq(25), 10, 3)

	assert.Equal(t, []int{21, 22, 23, 24, 25}, p.Items)
}

func TestPaginate_SecuenciaVacia(t *testing.T) {
	p := pagination.Paginate([]string{}, 5, 4)

	assert.Equal(t, 1, p.Page, "sin páginas la página actual es 1")
	assert.Equal(t, 0, p.TotalPages)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

func TestPaginate_TamanoInvalidoUsaDefault(t *testing.T) {
	p := pagination.Paginate(seq(30), 0, 1)

	assert.Equal(t, pagination.DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, pagination.DefaultPageSize)
}

// Para cualquier N y S, una página fuera de rango queda en 1 o en ceil(N/S), y el número de
// elementos es min(S, N-(page-1)*S).
func TestPaginate_ClampFueraDeRango(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for s := 1; s <= 7; s++ {
			total := (n + s - 1) / s
			for _, requested := range []int{-3, 0, total + 1, total + 10} {
				p := pagination.Paginate(seq(n), s, requested)

				if requested < 1 || total == 0 {
					assert.Equal(t, 1, p.Page, "n=%d s=%d req=%d", n, s, requested)
				} else {
					assert.Equal(t, total, p.Page, "n=%d s=%d req=%d", n, s, requested)
				}

				want := n - (p.Page-1)*s
				if want > s {
					want = s
				}
				if want < 0 {
					want = 0
				}
				assert.Len(t, p.Items, want, "n=%d s=%d req=%d", n, s, requested)
			}
		}
	}
}
