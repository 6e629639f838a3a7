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

func seedShop(t *testing.T, store *memory.Storage, shopID entity.ShopID, balance float64) {
	t.Helper()

	err := store.CreateShop(context.Background(), entity.Shop{
		ID:               shopID,
		Name:             "shop " + shopID.String(),
		Email:            shopID.String() + "@example.com",
		AvailableBalance: balance,
	})
	require.NoError(t, err)
}

func TestCreditNet(t *testing.T) {
	type want struct {
		err     error
		net     float64
		balance float64
	}
	tests := []struct {
		name         string
		startBalance float64
		gross        float64
		feeRate      float64

		want want
	}{
		{
			name:    "ten percent fee",
			gross:   100,
			feeRate: 0.10,

			want: want{net: 90, balance: 90},
		},
		{
			name:         "credit is additive",
			startBalance: 40,
			gross:        100,
			feeRate:      0.10,

			want: want{net: 90, balance: 130},
		},
		{
			name:    "zero fee",
			gross:   50,
			feeRate: 0,

			want: want{net: 50, balance: 50},
		},
		{
			name:    "negative gross rejected",
			gross:   -10,
			feeRate: 0.10,

			want: want{err: err_usecase.ErrInvalidQuantity},
		},
		{
			name:    "fee rate above one rejected",
			gross:   10,
			feeRate: 1.5,

			want: want{err: err_usecase.ErrInvalidQuantity},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := memory.NewStorage()
			seedShop(t, store, "shop-a", test.startBalance)
			balance := NewBalance(store)

			net, err := balance.CreditNet(context.Background(), "shop-a", test.gross, test.feeRate)
			if test.want.err != nil {
				assert.ErrorIs(t, err, test.want.err)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, test.want.net, net, 1e-9)

			shop, err := store.GetShop(context.Background(), "shop-a")
			require.NoError(t, err)
			assert.InDelta(t, test.want.balance, shop.AvailableBalance, 1e-9)
		})
	}
}

func TestCreditUnknownShop(t *testing.T) {
	balance := NewBalance(memory.NewStorage())

	err := balance.Credit(context.Background(), "missing", 10)
	assert.ErrorIs(t, err, err_usecase.ErrNotFound)
}

func TestNegativeCreditCompensates(t *testing.T) {
	store := memory.NewStorage()
	seedShop(t, store, "shop-a", 90)
	balance := NewBalance(store)

	require.NoError(t, balance.Credit(context.Background(), "shop-a", -90))

	shop, err := store.GetShop(context.Background(), "shop-a")
	require.NoError(t, err)
	assert.InDelta(t, 0, shop.AvailableBalance, 1e-9)
}
