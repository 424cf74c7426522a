package quote_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/internal/domain/quote"
)

func TestRender_ClientOcultaDesglose(t *testing.T) {
	c := newComposer()
	p, sub := masa()
	q, err := c.AddItem(c.SetHeader(c.New(), "Ofertă", "Ion"), p, "Bucătărie", sub, 2)
	require.NoError(t, err)

	r := quote.Render(q, entity.RenderClient, fixedNow)
	require.Len(t, r.Lines, 1)
	line := r.Lines[0]
	assert.Equal(t, 1, line.Index)
	assert.Equal(t, "Masă extensibilă", line.Description)
	assert.Equal(t, []quote.Attribute{{Key: "latime", Value: "90"}}, line.Attributes)
	require.NotNil(t, line.UnitPrice)
	assert.True(t, decimal.NewFromInt(120).Equal(*line.UnitPrice))
	assert.Nil(t, line.BasePrice)
	assert.Nil(t, line.Margin)
	assert.Nil(t, r.CostTotal)
	assert.True(t, decimal.NewFromInt(240).Equal(r.GrandTotal))
}

func TestRender_ClientSinPreciosPorLinea(t *testing.T) {
	c := newComposer()
	p, sub := masa()
	q, err := c.AddItem(c.New(), p, "Bucătărie", sub, 1)
	require.NoError(t, err)
	q = c.SetHideLinePrices(q, true)

	r := quote.Render(q, entity.RenderClient, fixedNow)
	assert.Nil(t, r.Lines[0].UnitPrice)
	assert.Nil(t, r.Lines[0].Total)
	assert.True(t, decimal.NewFromInt(120).Equal(r.GrandTotal), "el total general siempre se muestra")

	internal := quote.Render(q, entity.RenderInternal, fixedNow)
	assert.NotNil(t, internal.Lines[0].UnitPrice, "internal ignora HideLinePrices")
}

func TestRender_InternalMargen(t *testing.T) {
	c := newComposer()
	p, sub := masa()
	q, err := c.AddItem(c.New(), p, "Bucătărie", sub, 3)
	require.NoError(t, err)
	q, err = c.AddManualItem(q, entity.Product{Cod: "TR"}, decimal.NewFromInt(50), 1)
	require.NoError(t, err)

	r := quote.Render(q, entity.RenderInternal, fixedNow)
	require.Len(t, r.Lines, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(*r.Lines[0].BasePrice))
	assert.True(t, decimal.NewFromInt(20).Equal(*r.Lines[0].Adaos))
	assert.True(t, decimal.NewFromInt(60).Equal(*r.Lines[0].Margin))
	assert.True(t, r.Lines[1].Margin.IsZero())

	assert.True(t, decimal.NewFromInt(350).Equal(*r.CostTotal))
	assert.True(t, decimal.NewFromInt(60).Equal(*r.MarginTotal))
	assert.True(t, decimal.NewFromInt(410).Equal(r.GrandTotal))
}
