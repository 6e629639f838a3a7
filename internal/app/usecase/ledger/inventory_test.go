package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/storage/memory"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
)

func seedProduct(t *testing.T, store *memory.Storage, productID entity.ProductID, stock, sold int) {
	t.Helper()

	err := store.CreateProduct(context.Background(), entity.Product{
		ID:      productID,
		ShopID:  "shop-a",
		Name:    "product " + productID.String(),
		Stock:   stock,
		SoldOut: sold,
	})
	require.NoError(t, err)
}

func TestDeltaInverse(t *testing.T) {
	delta := Delta{ProductID: "p1", StockDelta: -5, SoldDelta: 5}
	inverse := delta.Inverse()

	assert.Equal(t, Delta{ProductID: "p1", StockDelta: 5, SoldDelta: -5}, inverse)
	assert.Equal(t, delta, inverse.Inverse())
}

func TestApplyDelta(t *testing.T) {
	type want struct {
		err   error
		stock int
		sold  int
	}
	tests := []struct {
		name       string
		startStock int
		startSold  int
		stockDelta int
		soldDelta  int

		want want
	}{
		{
			name:       "outbound movement",
			startStock: 10,
			stockDelta: -4,
			soldDelta:  4,

			want: want{stock: 6, sold: 4},
		},
		{
			name:       "inbound movement",
			startStock: 6,
			startSold:  4,
			stockDelta: 4,
			soldDelta:  -4,

			want: want{stock: 10, sold: 0},
		},
		{
			name:       "stock would go negative",
			startStock: 3,
			stockDelta: -4,
			soldDelta:  4,

			want: want{err: err_usecase.ErrInvalidQuantity, stock: 3, sold: 0},
		},
		{
			name:       "sold count would go negative",
			startStock: 10,
			startSold:  1,
			stockDelta: 2,
			soldDelta:  -2,

			want: want{err: err_usecase.ErrInvalidQuantity, stock: 10, sold: 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := memory.NewStorage()
			seedProduct(t, store, "p1", test.startStock, test.startSold)
			inventory := NewInventory(store)

			_, err := inventory.ApplyDelta(context.Background(), "p1", test.stockDelta, test.soldDelta)
			if test.want.err != nil {
				assert.ErrorIs(t, err, test.want.err)
			} else {
				assert.NoError(t, err)
			}

			product, err := store.GetProduct(context.Background(), "p1")
			require.NoError(t, err)
			assert.Equal(t, test.want.stock, product.Stock)
			assert.Equal(t, test.want.sold, product.SoldOut)
		})
	}
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	inventory := NewInventory(memory.NewStorage())

	_, err := inventory.ApplyDelta(context.Background(), "missing", -1, 1)
	assert.ErrorIs(t, err, err_usecase.ErrNotFound)
}

func TestApplySweep(t *testing.T) {
	store := memory.NewStorage()
	seedProduct(t, store, "p1", 10, 0)
	seedProduct(t, store, "p2", 8, 0)
	inventory := NewInventory(store)

	results, err := inventory.ApplySweep(context.Background(), []Delta{
		{ProductID: "p1", StockDelta: -2, SoldDelta: 2},
		{ProductID: "p2", StockDelta: -3, SoldDelta: 3},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.NoError(t, result.Err)
	}

	p1, _ := store.GetProduct(context.Background(), "p1")
	p2, _ := store.GetProduct(context.Background(), "p2")
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 5, p2.Stock)
}

func TestApplySweepCompensatesAppliedPrefix(t *testing.T) {
	store := memory.NewStorage()
	seedProduct(t, store, "p1", 10, 0)
	seedProduct(t, store, "p2", 1, 0)
	inventory := NewInventory(store)

	results, err := inventory.ApplySweep(context.Background(), []Delta{
		{ProductID: "p1", StockDelta: -2, SoldDelta: 2},
		{ProductID: "p2", StockDelta: -5, SoldDelta: 5},
	})
	assert.ErrorIs(t, err, err_usecase.ErrLedgerFailure)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)

	// p1 was applied then rolled back, p2 was never touched.
	p1, _ := store.GetProduct(context.Background(), "p1")
	p2, _ := store.GetProduct(context.Background(), "p2")
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 0, p1.SoldOut)
	assert.Equal(t, 1, p2.Stock)
}
