package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	"github.com/shopora/go-shop-backend/internal/app/storage/memory"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
	"github.com/shopora/go-shop-backend/internal/app/usecase/ledger"
)

const testFeeRate = 0.10

func newTestCoordinator(t *testing.T) (*Coordinator, *memory.Storage) {
	t.Helper()

	store := memory.NewStorage()
	coordinator := NewCoordinator(store, ledger.NewInventory(store), ledger.NewBalance(store), nil, testFeeRate)

	return coordinator, store
}

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

func seedProduct(t *testing.T, store *memory.Storage, productID entity.ProductID, shopID entity.ShopID, stock int) {
	t.Helper()

	err := store.CreateProduct(context.Background(), entity.Product{
		ID:     productID,
		ShopID: shopID,
		Name:   "product " + productID.String(),
		Stock:  stock,
	})
	require.NoError(t, err)
}

func placeOrder(t *testing.T, coordinator *Coordinator, cart []entity.CartLine) entity.Order {
	t.Helper()

	result, err := coordinator.CreateOrders(context.Background(), CreateOrdersInput{
		UserID: "user-1",
		Cart:   cart,
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	return result.Orders[0]
}

func TestCreateOrdersSplitsByShop(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	result, err := coordinator.CreateOrders(context.Background(), CreateOrdersInput{
		UserID: "user-1",
		Cart: []entity.CartLine{
			{ProductID: "p1", ShopID: "shop-a", Quantity: 2, DiscountPrice: 10},
			{ProductID: "p2", ShopID: "shop-b", Quantity: 1, DiscountPrice: 30},
			{ProductID: "p3", ShopID: "shop-a", Quantity: 1, DiscountPrice: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	assert.Empty(t, result.Failed)

	first, second := result.Orders[0], result.Orders[1]

	assert.Equal(t, entity.ShopID("shop-a"), first.ShopID)
	assert.Len(t, first.Cart, 2)
	assert.InDelta(t, 25.0, first.TotalPrice, 1e-9)

	assert.Equal(t, entity.ShopID("shop-b"), second.ShopID)
	assert.Len(t, second.Cart, 1)
	assert.InDelta(t, 30.0, second.TotalPrice, 1e-9)

	for _, placed := range result.Orders {
		assert.Equal(t, entity.StatusPlaced, placed.Status)
		assert.False(t, placed.StockCommitted)
		assert.NotEmpty(t, placed.ID)
	}
}

func TestCreateOrdersRejectsBadCarts(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	tests := []struct {
		name string
		cart []entity.CartLine
	}{
		{
			name: "empty cart",
			cart: nil,
		},
		{
			name: "zero quantity",
			cart: []entity.CartLine{{ProductID: "p1", ShopID: "shop-a", Quantity: 0}},
		},
		{
			name: "negative quantity",
			cart: []entity.CartLine{{ProductID: "p1", ShopID: "shop-a", Quantity: -3}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := coordinator.CreateOrders(context.Background(), CreateOrdersInput{
				UserID: "user-1",
				Cart:   test.cart,
			})
			assert.ErrorIs(t, err, err_usecase.ErrInvalidQuantity)
		})
	}
}

func TestAdvanceTransferCommitsStock(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedProduct(t, store, "p1", "shop-a", 10)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	updated, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusTransferredToDelivery, updated.Status)
	assert.True(t, updated.StockCommitted)

	product, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
	assert.Equal(t, 5, product.SoldOut)
}

func TestAdvanceRejectsRepeatedTransition(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedProduct(t, store, "p1", "shop-a", 10)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	_, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	require.NoError(t, err)

	// Same request again must not decrement stock a second time.
	_, err = coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	assert.ErrorIs(t, err, err_usecase.ErrInvalidTransition)

	product, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
	assert.Equal(t, 5, product.SoldOut)
}

func TestAdvanceRejectsUnknownStatus(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	_, err := coordinator.Advance(context.Background(), "order-x", entity.OrderStatus("SHIPPED"))
	assert.ErrorIs(t, err, err_usecase.ErrInvalidTransition)
}

func TestAdvanceOrderNotFound(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	_, err := coordinator.Advance(context.Background(), "missing", entity.StatusRefundRequested)
	assert.ErrorIs(t, err, err_usecase.ErrNotFound)
}

func TestAdvanceDeliveredCreditsNetAdditively(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedShop(t, store, "shop-a", 40)
	seedProduct(t, store, "p1", "shop-a", 10)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	_, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	require.NoError(t, err)

	delivered, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, delivered.Status)
	assert.False(t, delivered.DeliveredAt.IsZero())
	assert.Equal(t, entity.PaymentSucceeded, delivered.PaymentInfo.Status)

	// Total 100, fee 10%, net 90 on top of the existing 40.
	shop, err := store.GetShop(context.Background(), "shop-a")
	require.NoError(t, err)
	assert.InDelta(t, 130.0, shop.AvailableBalance, 1e-9)
}

func TestRefundLoopRestoresStock(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedShop(t, store, "shop-a", 0)
	seedProduct(t, store, "p1", "shop-a", 10)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	for _, status := range []entity.OrderStatus{
		entity.StatusTransferredToDelivery,
		entity.StatusDelivered,
		entity.StatusRefundRequested,
	} {
		_, err := coordinator.Advance(context.Background(), placed.ID, status)
		require.NoError(t, err)
	}

	refunded, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusRefundAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRefundAccepted, refunded.Status)
	assert.False(t, refunded.StockCommitted)
	assert.Equal(t, entity.PaymentRefunded, refunded.PaymentInfo.Status)

	product, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 0, product.SoldOut)
}

func TestRefundBeforeTransferSkipsInventory(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedProduct(t, store, "p1", "shop-a", 10)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	_, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusRefundRequested)
	require.NoError(t, err)

	refunded, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusRefundAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRefundAccepted, refunded.Status)

	// Stock was never decremented, so nothing comes back either.
	product, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 0, product.SoldOut)
}

func TestAdvanceInsufficientStockCompensatesSweep(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	seedProduct(t, store, "p1", "shop-a", 10)
	seedProduct(t, store, "p2", "shop-a", 1)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
		{ProductID: "p2", ShopID: "shop-a", Quantity: 3, DiscountPrice: 10},
	})

	_, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	assert.ErrorIs(t, err, err_usecase.ErrLedgerFailure)

	// The delta applied to p1 before p2 failed must be rolled back.
	p1, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 0, p1.SoldOut)

	p2, err := store.GetProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, 1, p2.Stock)

	// Order stays PLACED and the transition can be retried after restock.
	current, err := store.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPlaced, current.Status)
	assert.False(t, current.StockCommitted)
}

// conflictingOrderStore makes every UpdateOrder lose the version race.
type conflictingOrderStore struct {
	*memory.Storage
}

func (s *conflictingOrderStore) UpdateOrder(ctx context.Context, order entity.Order) error {
	return err_storage.ErrVersionConflict
}

func TestAdvanceVersionConflictCompensates(t *testing.T) {
	store := memory.NewStorage()
	seedShop(t, store, "shop-a", 0)
	seedProduct(t, store, "p1", "shop-a", 10)

	setup := NewCoordinator(store, ledger.NewInventory(store), ledger.NewBalance(store), nil, testFeeRate)
	placed := placeOrder(t, setup, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	conflicting := &conflictingOrderStore{Storage: store}
	coordinator := NewCoordinator(conflicting, ledger.NewInventory(store), ledger.NewBalance(store), nil, testFeeRate)

	_, err := coordinator.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	assert.ErrorIs(t, err, err_usecase.ErrConflict)

	// The losing transition must leave the inventory untouched.
	product, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 0, product.SoldOut)
}

// failingOrderStore fails every save without a recognizable cause.
type failingOrderStore struct {
	*memory.Storage
}

func (s *failingOrderStore) UpdateOrder(ctx context.Context, order entity.Order) error {
	return assert.AnError
}

func TestAdvanceSaveFailureCompensatesBalance(t *testing.T) {
	store := memory.NewStorage()
	seedShop(t, store, "shop-a", 40)
	seedProduct(t, store, "p1", "shop-a", 10)

	setup := NewCoordinator(store, ledger.NewInventory(store), ledger.NewBalance(store), nil, testFeeRate)
	placed := placeOrder(t, setup, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 5, DiscountPrice: 20},
	})

	_, err := setup.Advance(context.Background(), placed.ID, entity.StatusTransferredToDelivery)
	require.NoError(t, err)

	failing := &failingOrderStore{Storage: store}
	coordinator := NewCoordinator(failing, ledger.NewInventory(store), ledger.NewBalance(store), nil, testFeeRate)

	_, err = coordinator.Advance(context.Background(), placed.ID, entity.StatusDelivered)
	assert.ErrorIs(t, err, err_usecase.ErrPersistenceFailure)

	// The credited net amount is taken back when the save fails.
	shop, err := store.GetShop(context.Background(), "shop-a")
	require.NoError(t, err)
	assert.InDelta(t, 40.0, shop.AvailableBalance, 1e-9)
}

func TestMarkLineReviewed(t *testing.T) {
	coordinator, store := newTestCoordinator(t)

	placed := placeOrder(t, coordinator, []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 1, DiscountPrice: 5},
	})

	require.NoError(t, coordinator.MarkLineReviewed(context.Background(), placed.ID, "p1"))

	current, err := store.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.True(t, current.Cart[0].Reviewed)

	err = coordinator.MarkLineReviewed(context.Background(), placed.ID, "missing")
	assert.ErrorIs(t, err, err_usecase.ErrNotFound)

	err = coordinator.MarkLineReviewed(context.Background(), "missing", "p1")
	assert.ErrorIs(t, err, err_usecase.ErrNotFound)
}
