package returnorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"restock/internal/core/id"
)

func TestReturnOrder_Validate(t *testing.T) {
	ctx := context.Background()

	r := NewReturnOrder(id.New(), "SAW")
	require.Error(t, r.Validate(ctx), "no items")

	r.AddItem(id.New(), 2, ReasonDamaged, "crushed box")
	require.NoError(t, r.Validate(ctx))

	r.AddItem(id.New(), 1, Reason("lost"), "")
	require.Error(t, r.Validate(ctx), "unknown reason")

	r.Items = r.Items[:1]
	r.Items[0].Qty = -1
	require.Error(t, r.Validate(ctx), "negative qty")
}
