package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

func TestCreateOrderRejectsDuplicate(t *testing.T) {
	store := NewStorage()
	order := entity.Order{ID: "order-1", Status: entity.StatusPlaced}

	require.NoError(t, store.CreateOrder(context.Background(), order))
	assert.ErrorIs(t, store.CreateOrder(context.Background(), order), err_storage.ErrOrderExists)
}

func TestUpdateOrderVersionCheck(t *testing.T) {
	store := NewStorage()
	require.NoError(t, store.CreateOrder(context.Background(), entity.Order{
		ID:     "order-1",
		Status: entity.StatusPlaced,
	}))

	first, err := store.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	second, err := store.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)

	first.Status = entity.StatusTransferredToDelivery
	require.NoError(t, store.UpdateOrder(context.Background(), first))

	// The second writer still holds the old version and must lose.
	second.Status = entity.StatusRefundRequested
	assert.ErrorIs(t, store.UpdateOrder(context.Background(), second), err_storage.ErrVersionConflict)

	current, err := store.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusTransferredToDelivery, current.Status)
	assert.Equal(t, 1, current.Version)
}

func TestUpdateOrderNotFound(t *testing.T) {
	store := NewStorage()

	err := store.UpdateOrder(context.Background(), entity.Order{ID: "missing"})
	assert.ErrorIs(t, err, err_storage.ErrOrderNotFound)
}

func TestApplyStockDeltaGuards(t *testing.T) {
	type want struct {
		err   error
		stock int
		sold  int
	}
	tests := []struct {
		name       string
		stockDelta int
		soldDelta  int

		want want
	}{
		{
			name:       "valid outbound",
			stockDelta: -3,
			soldDelta:  3,

			want: want{stock: 2, sold: 4},
		},
		{
			name:       "stock guard rejects whole delta",
			stockDelta: -6,
			soldDelta:  6,

			want: want{err: err_storage.ErrInsufficientStock, stock: 5, sold: 1},
		},
		{
			name:       "sold guard rejects whole delta",
			stockDelta: 2,
			soldDelta:  -2,

			want: want{err: err_storage.ErrNegativeSoldCount, stock: 5, sold: 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := NewStorage()
			require.NoError(t, store.CreateProduct(context.Background(), entity.Product{
				ID:      "p1",
				ShopID:  "shop-a",
				Stock:   5,
				SoldOut: 1,
			}))

			_, err := store.ApplyStockDelta(context.Background(), "p1", test.stockDelta, test.soldDelta)
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

func TestAddShopBalanceIsAdditive(t *testing.T) {
	store := NewStorage()
	require.NoError(t, store.CreateShop(context.Background(), entity.Shop{
		ID:               "shop-a",
		Email:            "a@example.com",
		AvailableBalance: 40,
	}))

	shop, err := store.AddShopBalance(context.Background(), "shop-a", 90)
	require.NoError(t, err)
	assert.InDelta(t, 130.0, shop.AvailableBalance, 1e-9)

	shop, err = store.AddShopBalance(context.Background(), "shop-a", -30)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, shop.AvailableBalance, 1e-9)

	_, err = store.AddShopBalance(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, err_storage.ErrShopNotFound)
}

func TestUpdateShopPreservesBalance(t *testing.T) {
	store := NewStorage()
	require.NoError(t, store.CreateShop(context.Background(), entity.Shop{
		ID:               "shop-a",
		Email:            "a@example.com",
		AvailableBalance: 75,
	}))

	shop, err := store.GetShop(context.Background(), "shop-a")
	require.NoError(t, err)

	shop.Name = "renamed"
	shop.AvailableBalance = 0
	require.NoError(t, store.UpdateShop(context.Background(), shop))

	current, err := store.GetShop(context.Background(), "shop-a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", current.Name)
	assert.InDelta(t, 75.0, current.AvailableBalance, 1e-9)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	store := NewStorage()
	require.NoError(t, store.CreateUser(context.Background(), entity.User{
		ID:    "user-1",
		Email: "a@example.com",
	}))

	err := store.CreateUser(context.Background(), entity.User{
		ID:    "user-2",
		Email: "a@example.com",
	})
	assert.ErrorIs(t, err, err_storage.ErrEmailExists)
}

func TestGetOrdersDeliveredFirst(t *testing.T) {
	store := NewStorage()
	now := time.Now().UTC()

	require.NoError(t, store.CreateOrder(context.Background(), entity.Order{
		ID:        "order-old-delivered",
		CreatedAt: now.Add(-3 * time.Hour),
	}))
	require.NoError(t, store.CreateOrder(context.Background(), entity.Order{
		ID:          "order-delivered",
		CreatedAt:   now.Add(-2 * time.Hour),
		DeliveredAt: now.Add(-1 * time.Hour),
	}))
	require.NoError(t, store.CreateOrder(context.Background(), entity.Order{
		ID:        "order-new",
		CreatedAt: now,
	}))

	orders, err := store.GetOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, entity.OrderID("order-delivered"), orders[0].ID)
	assert.Equal(t, entity.OrderID("order-new"), orders[1].ID)
	assert.Equal(t, entity.OrderID("order-old-delivered"), orders[2].ID)
}
