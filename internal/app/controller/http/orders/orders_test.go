package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/controller/http/orders/mock"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
	"github.com/shopora/go-shop-backend/internal/app/usecase/order"
)

func newRequest(method, target, body string, authCtx entity.AuthCtx) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(request.Context(), entity.AuthCtxKey{}, authCtx)

	return request.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func sellerCtx(shopID string) entity.AuthCtx {
	return entity.CreateAuthCtx(entity.UserID(shopID), entity.RoleSeller, http.StatusOK)
}

func userCtx(userID string) entity.AuthCtx {
	return entity.CreateAuthCtx(entity.UserID(userID), entity.RoleUser, http.StatusOK)
}

func TestUpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storage := mock.NewMockOrderProcessor(ctrl)
	users := mock.NewMockUserProcessor(ctrl)
	lifecycle := mock.NewMockLifecycle(ctrl)
	notifier := mock.NewMockNotifier(ctrl)

	controller := New(storage, users, lifecycle, notifier)

	stored := entity.Order{
		ID:     "order-1",
		UserID: "user-1",
		ShopID: "shop-a",
		Status: entity.StatusPlaced,
	}

	type want struct {
		statusCode int
	}
	tests := []struct {
		name       string
		advanceErr error

		want want
	}{
		{
			name: "successful transition",

			want: want{statusCode: http.StatusOK},
		},
		{
			name:       "unknown order",
			advanceErr: fmt.Errorf("order order-1: %w", err_usecase.ErrNotFound),

			want: want{statusCode: http.StatusNotFound},
		},
		{
			name:       "invalid transition",
			advanceErr: fmt.Errorf("order order-1: %w", err_usecase.ErrInvalidTransition),

			want: want{statusCode: http.StatusBadRequest},
		},
		{
			name:       "version conflict",
			advanceErr: fmt.Errorf("order order-1: %w", err_usecase.ErrConflict),

			want: want{statusCode: http.StatusConflict},
		},
		{
			name:       "ledger rejected",
			advanceErr: fmt.Errorf("order order-1: %w", err_usecase.ErrLedgerFailure),

			want: want{statusCode: http.StatusConflict},
		},
		{
			name:       "storage broke",
			advanceErr: fmt.Errorf("order order-1: %w", err_usecase.ErrPersistenceFailure),

			want: want{statusCode: http.StatusInternalServerError},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			storage.EXPECT().GetOrder(gomock.Any(), entity.OrderID("order-1")).Return(stored, nil)

			transferred := stored
			transferred.Status = entity.StatusTransferredToDelivery
			lifecycle.EXPECT().
				Advance(gomock.Any(), entity.OrderID("order-1"), entity.StatusTransferredToDelivery).
				Return(transferred, test.advanceErr)

			request := newRequest(http.MethodPut, "/api/v2/order/order-1/status",
				`{"status":"TRANSFERRED_TO_DELIVERY"}`, sellerCtx("shop-a"))
			request = withURLParam(request, "orderID", "order-1")
			writer := httptest.NewRecorder()

			controller.UpdateStatus()(writer, request)

			assert.Equal(t, test.want.statusCode, writer.Code)
		})
	}
}

func TestUpdateStatusForeignShop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storage := mock.NewMockOrderProcessor(ctrl)
	controller := New(storage, mock.NewMockUserProcessor(ctrl), mock.NewMockLifecycle(ctrl), mock.NewMockNotifier(ctrl))

	storage.EXPECT().GetOrder(gomock.Any(), entity.OrderID("order-1")).
		Return(entity.Order{ID: "order-1", ShopID: "shop-a"}, nil)

	request := newRequest(http.MethodPut, "/api/v2/order/order-1/status",
		`{"status":"TRANSFERRED_TO_DELIVERY"}`, sellerCtx("shop-b"))
	request = withURLParam(request, "orderID", "order-1")
	writer := httptest.NewRecorder()

	controller.UpdateStatus()(writer, request)

	assert.Equal(t, http.StatusForbidden, writer.Code)
}

func TestRequestRefundForeignUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storage := mock.NewMockOrderProcessor(ctrl)
	controller := New(storage, mock.NewMockUserProcessor(ctrl), mock.NewMockLifecycle(ctrl), mock.NewMockNotifier(ctrl))

	storage.EXPECT().GetOrder(gomock.Any(), entity.OrderID("order-1")).
		Return(entity.Order{ID: "order-1", UserID: "user-1"}, nil)

	request := newRequest(http.MethodPut, "/api/v2/order/order-1/refund", "", userCtx("user-2"))
	request = withURLParam(request, "orderID", "order-1")
	writer := httptest.NewRecorder()

	controller.RequestRefund()(writer, request)

	assert.Equal(t, http.StatusForbidden, writer.Code)
}

func TestCreateOrders(t *testing.T) {
	createBody := `{
		"cart": [
			{"product_id": "p1", "shop_id": "shop-a", "name": "widget", "quantity": 2, "discount_price": 10},
			{"product_id": "p2", "shop_id": "shop-b", "name": "gadget", "quantity": 1, "discount_price": 30}
		],
		"shipping_address": {"country": "US", "city": "NYC"},
		"payment_info": {"transaction_id": "tx-1", "method": "card"}
	}`

	placedOrders := entity.Orders{
		{ID: "order-1", UserID: "user-1", ShopID: "shop-a", Status: entity.StatusPlaced, TotalPrice: 20},
		{ID: "order-2", UserID: "user-1", ShopID: "shop-b", Status: entity.StatusPlaced, TotalPrice: 30},
	}

	t.Run("full success sends confirmation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := mock.NewMockUserProcessor(ctrl)
		lifecycle := mock.NewMockLifecycle(ctrl)
		notifier := mock.NewMockNotifier(ctrl)
		controller := New(mock.NewMockOrderProcessor(ctrl), users, lifecycle, notifier)

		lifecycle.EXPECT().CreateOrders(gomock.Any(), gomock.Any()).
			Return(order.CreateOrdersResult{Orders: placedOrders}, nil)
		users.EXPECT().GetUser(gomock.Any(), entity.UserID("user-1")).
			Return(entity.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"}, nil)
		notifier.EXPECT().SendOrderConfirmation("Alice", "alice@example.com", placedOrders).Return(nil)

		writer := httptest.NewRecorder()
		controller.Create()(writer, newRequest(http.MethodPost, "/api/v2/order", createBody, userCtx("user-1")))

		require.Equal(t, http.StatusCreated, writer.Code)

		var response model.CreateOrdersResponse
		require.NoError(t, json.NewDecoder(writer.Body).Decode(&response))
		assert.True(t, response.Success)
		assert.Len(t, response.Orders, 2)
		assert.Empty(t, response.FailedShops)
		assert.Empty(t, response.Warning)
	})

	t.Run("empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		lifecycle := mock.NewMockLifecycle(ctrl)
		controller := New(mock.NewMockOrderProcessor(ctrl), mock.NewMockUserProcessor(ctrl), lifecycle, mock.NewMockNotifier(ctrl))

		lifecycle.EXPECT().CreateOrders(gomock.Any(), gomock.Any()).
			Return(order.CreateOrdersResult{}, fmt.Errorf("cart is empty: %w", err_usecase.ErrInvalidQuantity))

		writer := httptest.NewRecorder()
		controller.Create()(writer, newRequest(http.MethodPost, "/api/v2/order", `{"cart":[]}`, userCtx("user-1")))

		assert.Equal(t, http.StatusBadRequest, writer.Code)
	})

	t.Run("partial failure keeps committed orders", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := mock.NewMockUserProcessor(ctrl)
		lifecycle := mock.NewMockLifecycle(ctrl)
		notifier := mock.NewMockNotifier(ctrl)
		controller := New(mock.NewMockOrderProcessor(ctrl), users, lifecycle, notifier)

		lifecycle.EXPECT().CreateOrders(gomock.Any(), gomock.Any()).
			Return(order.CreateOrdersResult{
				Orders: placedOrders[:1],
				Failed: []order.ShopFailure{{ShopID: "shop-b", Err: assert.AnError}},
			}, fmt.Errorf("1 of 2 shop orders not persisted: %w", err_usecase.ErrPersistenceFailure))
		users.EXPECT().GetUser(gomock.Any(), entity.UserID("user-1")).
			Return(entity.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"}, nil)
		notifier.EXPECT().SendOrderConfirmation("Alice", "alice@example.com", placedOrders[:1]).Return(nil)

		writer := httptest.NewRecorder()
		controller.Create()(writer, newRequest(http.MethodPost, "/api/v2/order", createBody, userCtx("user-1")))

		require.Equal(t, http.StatusMultiStatus, writer.Code)

		var response model.CreateOrdersResponse
		require.NoError(t, json.NewDecoder(writer.Body).Decode(&response))
		assert.False(t, response.Success)
		assert.Len(t, response.Orders, 1)
		require.Len(t, response.FailedShops, 1)
		assert.Equal(t, "shop-b", response.FailedShops[0].ShopID)
	})

	t.Run("mail failure only warns", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := mock.NewMockUserProcessor(ctrl)
		lifecycle := mock.NewMockLifecycle(ctrl)
		notifier := mock.NewMockNotifier(ctrl)
		controller := New(mock.NewMockOrderProcessor(ctrl), users, lifecycle, notifier)

		lifecycle.EXPECT().CreateOrders(gomock.Any(), gomock.Any()).
			Return(order.CreateOrdersResult{Orders: placedOrders}, nil)
		users.EXPECT().GetUser(gomock.Any(), entity.UserID("user-1")).
			Return(entity.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"}, nil)
		notifier.EXPECT().SendOrderConfirmation("Alice", "alice@example.com", placedOrders).
			Return(assert.AnError)

		writer := httptest.NewRecorder()
		controller.Create()(writer, newRequest(http.MethodPost, "/api/v2/order", createBody, userCtx("user-1")))

		require.Equal(t, http.StatusCreated, writer.Code)

		var response model.CreateOrdersResponse
		require.NoError(t, json.NewDecoder(writer.Body).Decode(&response))
		assert.True(t, response.Success)
		assert.NotEmpty(t, response.Warning)
	})
}

func TestGetUserOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storage := mock.NewMockOrderProcessor(ctrl)
	controller := New(storage, mock.NewMockUserProcessor(ctrl), mock.NewMockLifecycle(ctrl), mock.NewMockNotifier(ctrl))

	storage.EXPECT().GetUserOrders(gomock.Any(), entity.UserID("user-1")).
		Return(entity.Orders{{ID: "order-1", UserID: "user-1"}}, nil)

	writer := httptest.NewRecorder()
	controller.GetUserOrders()(writer, newRequest(http.MethodGet, "/api/v2/order", "", userCtx("user-1")))

	require.Equal(t, http.StatusOK, writer.Code)

	var response model.OrdersResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&response))
	assert.True(t, response.Success)
	require.Len(t, response.Orders, 1)
	assert.Equal(t, "order-1", response.Orders[0].ID)
}
