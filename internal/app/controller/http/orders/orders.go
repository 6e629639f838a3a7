package orders

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	httputils "github.com/shopora/go-shop-backend/internal/app/controller/http/utils"
	"github.com/shopora/go-shop-backend/internal/app/converter"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
	"github.com/shopora/go-shop-backend/internal/app/usecase/order"
)

type OrderProcessor interface {
	GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error)
	GetUserOrders(ctx context.Context, userID entity.UserID) (entity.Orders, error)
	GetShopOrders(ctx context.Context, shopID entity.ShopID) (entity.Orders, error)
	GetOrders(ctx context.Context) (entity.Orders, error)
}

type UserProcessor interface {
	GetUser(ctx context.Context, id entity.UserID) (entity.User, error)
}

// Lifecycle drives order creation and status transitions.
type Lifecycle interface {
	CreateOrders(ctx context.Context, input order.CreateOrdersInput) (order.CreateOrdersResult, error)
	Advance(ctx context.Context, orderID entity.OrderID, next entity.OrderStatus) (entity.Order, error)
}

type Notifier interface {
	SendOrderConfirmation(name, email string, orders entity.Orders) error
}

type Order struct {
	storage     OrderProcessor
	users       UserProcessor
	coordinator Lifecycle
	notifier    Notifier
}

func New(storage OrderProcessor, users UserProcessor, coordinator Lifecycle, notifier Notifier) Order {
	return Order{
		storage:     storage,
		users:       users,
		coordinator: coordinator,
		notifier:    notifier,
	}
}

// Create splits the cart by shop and persists one order per shop. A
// partial failure still answers with the orders that were committed.
func (o *Order) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.CreateOrderRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding create order request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		result, err := o.coordinator.CreateOrders(ctx, order.CreateOrdersInput{
			UserID:          authCtx.UserID,
			Cart:            converter.ConvertCreateOrderRequestToCart(request),
			ShippingAddress: request.ShippingAddress,
			PaymentInfo:     converter.ConvertPaymentInfoRequestToEntity(request.PaymentInfo),
		})
		if err != nil && len(result.Orders) == 0 {
			if errors.Is(err, err_usecase.ErrInvalidQuantity) {
				httputils.WriteError(w, http.StatusBadRequest, "cart is empty or contains non-positive quantities")
				return
			}

			zap.L().Error("error while creating orders", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		response := model.CreateOrdersResponse{
			Success: len(result.Failed) == 0,
			Orders:  converter.ConvertOrdersToPayload(result.Orders),
		}
		for _, failure := range result.Failed {
			response.FailedShops = append(response.FailedShops, model.ShopFailurePayload{
				ShopID: failure.ShopID.String(),
				Error:  "order could not be persisted",
			})
		}

		o.sendConfirmation(ctx, authCtx.UserID, result.Orders, &response)

		statusCode := http.StatusCreated
		if len(result.Failed) > 0 {
			statusCode = http.StatusMultiStatus
		}

		httputils.WriteJSON(w, statusCode, response)
	}
}

func (o *Order) GetUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		orders, err := o.storage.GetUserOrders(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while listing user orders", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.OrdersResponse{
			Success: true,
			Orders:  converter.ConvertOrdersToPayload(orders),
		})
	}
}

func (o *Order) GetShopOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		orders, err := o.storage.GetShopOrders(ctx, entity.ShopID(authCtx.UserID.String()))
		if err != nil {
			zap.L().Error("error while listing shop orders", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.OrdersResponse{
			Success: true,
			Orders:  converter.ConvertOrdersToPayload(orders),
		})
	}
}

// UpdateStatus lets the owning seller advance an order through the
// delivery path.
func (o *Order) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		orderID := entity.OrderID(chi.URLParam(r, "orderID"))
		if !orderID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "order id is required")
			return
		}

		var request model.UpdateOrderStatusRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding order status request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		if !o.ownedByShop(ctx, w, orderID, entity.ShopID(authCtx.UserID.String())) {
			return
		}

		o.advance(ctx, w, orderID, entity.OrderStatus(request.Status))
	}
}

// RequestRefund lets the buyer open a refund on their own order.
func (o *Order) RequestRefund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		orderID := entity.OrderID(chi.URLParam(r, "orderID"))
		if !orderID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "order id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		existing, err := o.storage.GetOrder(ctx, orderID)
		if err != nil {
			o.writeLoadError(w, err)
			return
		}
		if existing.UserID != authCtx.UserID {
			httputils.WriteError(w, http.StatusForbidden, "order belongs to another user")
			return
		}

		o.advance(ctx, w, orderID, entity.StatusRefundRequested)
	}
}

// AcceptRefund lets the owning seller settle a requested refund, which
// restores the order's stock.
func (o *Order) AcceptRefund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		orderID := entity.OrderID(chi.URLParam(r, "orderID"))
		if !orderID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "order id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		if !o.ownedByShop(ctx, w, orderID, entity.ShopID(authCtx.UserID.String())) {
			return
		}

		o.advance(ctx, w, orderID, entity.StatusRefundAccepted)
	}
}

// GetOrders serves every order for the admin dashboard, delivered
// orders first.
func (o *Order) GetOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		orders, err := o.storage.GetOrders(ctx)
		if err != nil {
			zap.L().Error("error while listing orders", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.OrdersResponse{
			Success: true,
			Orders:  converter.ConvertOrdersToPayload(orders),
		})
	}
}

func (o *Order) advance(ctx context.Context, w http.ResponseWriter, orderID entity.OrderID, next entity.OrderStatus) {
	updated, err := o.coordinator.Advance(ctx, orderID, next)
	if err != nil {
		switch {
		case errors.Is(err, err_usecase.ErrNotFound):
			httputils.WriteError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, err_usecase.ErrInvalidTransition):
			httputils.WriteError(w, http.StatusBadRequest, "requested status transition is not allowed")
		case errors.Is(err, err_usecase.ErrConflict):
			httputils.WriteError(w, http.StatusConflict, "order was modified concurrently, retry")
		case errors.Is(err, err_usecase.ErrLedgerFailure):
			httputils.WriteError(w, http.StatusConflict, "inventory or balance update was rejected")
		default:
			zap.L().Error("error while advancing order",
				zap.String("order_id", orderID.String()),
				zap.String("status", string(next)),
				zap.Error(err),
			)
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httputils.WriteJSON(w, http.StatusOK, model.OrderResponse{
		Success: true,
		Order:   converter.ConvertOrderToPayload(updated),
	})
}

func (o *Order) ownedByShop(ctx context.Context, w http.ResponseWriter, orderID entity.OrderID, shopID entity.ShopID) bool {
	existing, err := o.storage.GetOrder(ctx, orderID)
	if err != nil {
		o.writeLoadError(w, err)
		return false
	}

	if existing.ShopID != shopID {
		httputils.WriteError(w, http.StatusForbidden, "order belongs to another shop")
		return false
	}

	return true
}

func (o *Order) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, err_storage.ErrOrderNotFound) {
		httputils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}

	zap.L().Error("error while loading order", zap.Error(err))
	httputils.WriteError(w, http.StatusInternalServerError, "internal error")
}

func (o *Order) sendConfirmation(ctx context.Context, userID entity.UserID, orders entity.Orders, response *model.CreateOrdersResponse) {
	if len(orders) == 0 {
		return
	}

	user, err := o.users.GetUser(ctx, userID)
	if err != nil {
		zap.L().Warn("error while loading user for order confirmation", zap.Error(err))
		response.Warning = "orders placed, confirmation email could not be sent"
		return
	}

	if err := o.notifier.SendOrderConfirmation(user.Name, user.Email, orders); err != nil {
		zap.L().Warn("error while sending order confirmation", zap.Error(err))
		response.Warning = "orders placed, confirmation email could not be sent"
	}
}
