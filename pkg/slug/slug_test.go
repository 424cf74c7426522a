package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ofertare-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"accesorii":              "accesorii",
		"Accesorii Mobilă":       "accesorii-mobila",
		"  Mese & Scaune  ":      "mese-scaune",
		"Dulapuri-ȘIFONIERE":     "dulapuri-sifoniere",
		"Țesături / tapițerie 2": "tesaturi-tapiterie-2",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "entrada %q", in)
	}
}

func TestSet_DescartaVacios(t *testing.T) {
	set := slug.Set([]string{"Accesorii", "", "  ", "mobilă"})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "accesorii")
	assert.Contains(t, set, "mobila")
}
