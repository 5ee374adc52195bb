package instock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/id"
	"restock/internal/core/types"
)

func TestInStockEntry_Total(t *testing.T) {
	e := NewInStockEntry(id.New(), "SAW")
	e.AddItem(id.New(), 3, types.MustMoney("12.50"))
	e.AddItem(id.New(), 2, types.MustMoney("0.99"))

	assert.True(t, e.Total().Equal(types.MustMoney("39.48")))
}

func TestInStockEntry_Validate(t *testing.T) {
	ctx := context.Background()

	e := NewInStockEntry(id.New(), "SAW")
	require.Error(t, e.Validate(ctx), "no items")

	e.AddItem(id.New(), 5, types.MustMoney("1.00"))
	require.NoError(t, e.Validate(ctx))

	e.Items[0].Qty = 0
	require.Error(t, e.Validate(ctx), "zero qty")

	e.Items[0].Qty = 5
	e.Items[0].Price = types.MustMoney("-1")
	require.Error(t, e.Validate(ctx), "negative price")
}
