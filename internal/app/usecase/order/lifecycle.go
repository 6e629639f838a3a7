package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/metrics"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
	"github.com/shopora/go-shop-backend/internal/app/usecase/ledger"
	"go.uber.org/zap"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order entity.Order) error
	GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error)
	UpdateOrder(ctx context.Context, order entity.Order) error
}

// Coordinator drives the order lifecycle: it validates requested
// transitions, applies the ledger side effects each transition owes, and
// persists the order under an optimistic version check.
type Coordinator struct {
	orders    OrderStore
	inventory *ledger.Inventory
	balance   *ledger.Balance
	metrics   *metrics.Metrics
	feeRate   float64
}

func NewCoordinator(orders OrderStore, inventory *ledger.Inventory, balance *ledger.Balance, m *metrics.Metrics, feeRate float64) *Coordinator {
	return &Coordinator{
		orders:    orders,
		inventory: inventory,
		balance:   balance,
		metrics:   m,
		feeRate:   feeRate,
	}
}

type CreateOrdersInput struct {
	UserID          entity.UserID
	Cart            []entity.CartLine
	ShippingAddress entity.Address
	PaymentInfo     entity.PaymentInfo
}

type ShopFailure struct {
	ShopID entity.ShopID
	Err    error
}

// CreateOrdersResult reports which shop orders were persisted. Failed is
// empty on full success; a partial failure keeps the committed orders.
type CreateOrdersResult struct {
	Orders entity.Orders
	Failed []ShopFailure
}

// CreateOrders partitions the cart by shop and persists one order per
// shop. Persistence failures on later shops never roll back earlier shops;
// they are surfaced in the result instead.
func (c *Coordinator) CreateOrders(ctx context.Context, input CreateOrdersInput) (CreateOrdersResult, error) {
	result := CreateOrdersResult{}

	if len(input.Cart) == 0 {
		return result, fmt.Errorf("cart is empty: %w", err_usecase.ErrInvalidQuantity)
	}
	for _, line := range input.Cart {
		if line.Quantity <= 0 {
			return result, fmt.Errorf("line for product %s has non-positive quantity: %w", line.ProductID, err_usecase.ErrInvalidQuantity)
		}
	}

	now := time.Now().UTC()

	for _, cart := range PartitionCart(input.Cart) {
		order := entity.Order{
			ID:              entity.OrderID(uuid.NewString()),
			UserID:          input.UserID,
			ShopID:          cart.ShopID,
			Cart:            cart.Lines,
			ShippingAddress: input.ShippingAddress,
			TotalPrice:      cart.Total(),
			PaymentInfo:     input.PaymentInfo,
			Status:          entity.StatusPlaced,
			CreatedAt:       now,
		}

		if err := c.orders.CreateOrder(ctx, order); err != nil {
			zap.L().Error("error while persisting shop order",
				zap.String("shop_id", cart.ShopID.String()),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, ShopFailure{ShopID: cart.ShopID, Err: err})
			continue
		}

		c.metrics.OrderCreated()
		result.Orders = append(result.Orders, order)
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%d of %d shop orders not persisted: %w",
			len(result.Failed), len(result.Failed)+len(result.Orders), err_usecase.ErrPersistenceFailure)
	}

	return result, nil
}

// Advance moves the order to the requested status and applies the side
// effects the transition owes. Exactly one of two concurrent calls on the
// same order wins; the loser gets ErrConflict.
func (c *Coordinator) Advance(ctx context.Context, orderID entity.OrderID, next entity.OrderStatus) (entity.Order, error) {
	order, err := c.advance(ctx, orderID, next)
	if err != nil {
		c.metrics.Transition(string(next), "error")
		return entity.Order{}, err
	}

	c.metrics.Transition(string(next), "success")

	return order, nil
}

func (c *Coordinator) advance(ctx context.Context, orderID entity.OrderID, next entity.OrderStatus) (entity.Order, error) {
	if !next.Known() {
		return entity.Order{}, fmt.Errorf("unknown status %q: %w", next, err_usecase.ErrInvalidTransition)
	}

	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, err_storage.ErrOrderNotFound) {
			return entity.Order{}, fmt.Errorf("order %s: %w", orderID, err_usecase.ErrNotFound)
		}

		return entity.Order{}, fmt.Errorf("error while loading order %s: %w", orderID, err)
	}

	if !order.Status.CanTransitionTo(next) {
		return entity.Order{}, fmt.Errorf("order %s: %s -> %s: %w",
			orderID, order.Status, next, err_usecase.ErrInvalidTransition)
	}

	compensate, err := c.applySideEffects(ctx, &order, next)
	if err != nil {
		c.metrics.LedgerFailure()
		return entity.Order{}, err
	}

	order.Status = next

	if err := c.orders.UpdateOrder(ctx, order); err != nil {
		if compensate != nil {
			compensate(ctx)
		}

		if errors.Is(err, err_storage.ErrVersionConflict) {
			return entity.Order{}, fmt.Errorf("order %s: %w", orderID, err_usecase.ErrConflict)
		}

		zap.L().Error("order save failed after ledger side effects were applied",
			zap.String("order_id", orderID.String()),
			zap.String("status", string(next)),
			zap.Error(err),
		)

		return entity.Order{}, fmt.Errorf("order %s: %w: %w", orderID, err_usecase.ErrPersistenceFailure, err)
	}

	return order, nil
}

// applySideEffects performs the ledger work a transition owes and returns
// a compensation for the case where the final order save fails afterwards.
func (c *Coordinator) applySideEffects(ctx context.Context, order *entity.Order, next entity.OrderStatus) (func(context.Context), error) {
	switch next {
	case entity.StatusTransferredToDelivery:
		deltas := outboundDeltas(order.Cart)
		if _, err := c.inventory.ApplySweep(ctx, deltas); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		order.StockCommitted = true

		return func(ctx context.Context) { c.compensateSweep(ctx, deltas) }, nil

	case entity.StatusDelivered:
		order.DeliveredAt = time.Now().UTC()
		order.PaymentInfo.Status = entity.PaymentSucceeded

		net, err := c.balance.CreditNet(ctx, order.ShopID, order.TotalPrice, c.feeRate)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w: %w", order.ID, err_usecase.ErrLedgerFailure, err)
		}

		shopID := order.ShopID
		return func(ctx context.Context) {
			if err := c.balance.Credit(ctx, shopID, -net); err != nil {
				zap.L().Error("balance compensation failed, ledger left mutated",
					zap.String("shop_id", shopID.String()),
					zap.Float64("net", net),
					zap.Error(err),
				)
			}
		}, nil

	case entity.StatusRefundAccepted:
		if !order.StockCommitted {
			return nil, nil
		}

		deltas := inboundDeltas(order.Cart)
		if _, err := c.inventory.ApplySweep(ctx, deltas); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		order.StockCommitted = false
		order.PaymentInfo.Status = entity.PaymentRefunded

		return func(ctx context.Context) { c.compensateSweep(ctx, deltas) }, nil

	default:
		// REFUND_REQUESTED and any future pure status change.
		return nil, nil
	}
}

func (c *Coordinator) compensateSweep(ctx context.Context, applied []ledger.Delta) {
	inverse := make([]ledger.Delta, 0, len(applied))
	for _, delta := range applied {
		inverse = append(inverse, delta.Inverse())
	}

	if _, err := c.inventory.ApplySweep(ctx, inverse); err != nil {
		zap.L().Error("inventory sweep compensation failed, ledger left mutated", zap.Error(err))
	}
}

// MarkLineReviewed flags the order's cart line for the product once a
// review has been accepted.
func (c *Coordinator) MarkLineReviewed(ctx context.Context, orderID entity.OrderID, productID entity.ProductID) error {
	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, err_storage.ErrOrderNotFound) {
			return fmt.Errorf("order %s: %w", orderID, err_usecase.ErrNotFound)
		}

		return fmt.Errorf("error while loading order %s: %w", orderID, err)
	}

	if !order.MarkLineReviewed(productID) {
		return fmt.Errorf("order %s has no line for product %s: %w", orderID, productID, err_usecase.ErrNotFound)
	}

	if err := c.orders.UpdateOrder(ctx, order); err != nil {
		if errors.Is(err, err_storage.ErrVersionConflict) {
			return fmt.Errorf("order %s: %w", orderID, err_usecase.ErrConflict)
		}

		return fmt.Errorf("error while saving order %s: %w", orderID, err)
	}

	return nil
}

// outboundDeltas moves stock to the delivery partner: stock down, sold up.
func outboundDeltas(cart []entity.CartLine) []ledger.Delta {
	deltas := make([]ledger.Delta, 0, len(cart))
	for _, line := range cart {
		deltas = append(deltas, ledger.Delta{
			ProductID:  line.ProductID,
			StockDelta: -line.Quantity,
			SoldDelta:  line.Quantity,
		})
	}

	return deltas
}

// inboundDeltas is the exact inverse applied on refund acceptance.
func inboundDeltas(cart []entity.CartLine) []ledger.Delta {
	deltas := make([]ledger.Delta, 0, len(cart))
	for _, line := range cart {
		deltas = append(deltas, ledger.Delta{
			ProductID:  line.ProductID,
			StockDelta: line.Quantity,
			SoldDelta:  -line.Quantity,
		})
	}

	return deltas
}
