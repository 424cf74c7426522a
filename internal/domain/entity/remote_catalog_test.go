package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

func TestRemoteCatalog_ToleraCamposDesconocidos(t *testing.T) {
	doc := `{
		"categories": [{"id": 1, "slug": "accesorii", "name": "Accesorii", "parent": null, "order": 3}],
		"products": [{"id": "p-9", "categoryId": 1, "title": "Mâner", "price": 12.5, "tags": ["inox"]}],
		"meta": {"page": 1}
	}`
	var c entity.RemoteCatalog
	require.NoError(t, json.Unmarshal([]byte(doc), &c))

	require.Len(t, c.Categories, 1)
	assert.Equal(t, entity.FlexID("1"), c.Categories[0].ID)
	assert.Equal(t, "accesorii", c.Categories[0].Slug)
	assert.Contains(t, c.Categories[0].Extra, "order")

	require.Len(t, c.Products, 1)
	p := c.Products[0]
	assert.Equal(t, entity.FlexID("1"), p.CategoryID)
	var title string
	assert.True(t, p.Field("title", &title))
	assert.Equal(t, "Mâner", title)

	p.CategorySlug = "accesorii"
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p-9","categoryId":"1","categorySlug":"accesorii","title":"Mâner","price":12.5,"tags":["inox"]}`, string(out))
}
