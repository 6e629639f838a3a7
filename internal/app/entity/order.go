package entity

import "time"

type OrderID string

func (id OrderID) String() string {
	return string(id)
}

func (id OrderID) Valid() bool {
	return len(id) != 0
}

type OrderStatus string

const (
	StatusPlaced                OrderStatus = `PLACED`
	StatusTransferredToDelivery OrderStatus = `TRANSFERRED_TO_DELIVERY`
	StatusDelivered             OrderStatus = `DELIVERED`
	StatusRefundRequested       OrderStatus = `REFUND_REQUESTED`
	StatusRefundAccepted        OrderStatus = `REFUND_ACCEPTED`
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = `PENDING`
	PaymentSucceeded PaymentStatus = `SUCCEEDED`
	PaymentRefunded  PaymentStatus = `REFUNDED`
)

type PaymentInfo struct {
	TransactionID string        `json:"transaction_id"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
}

// CartLine is a single cart position. Every line of a persisted order
// belongs to the order's shop; mixed-shop carts are split before orders
// are created.
type CartLine struct {
	ProductID     ProductID `json:"product_id"`
	ShopID        ShopID    `json:"shop_id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	DiscountPrice float64   `json:"discount_price"`
	Reviewed      bool      `json:"reviewed"`
}

type Orders []Order

type Order struct {
	ID              OrderID
	UserID          UserID
	ShopID          ShopID
	Cart            []CartLine
	ShippingAddress Address
	TotalPrice      float64
	PaymentInfo     PaymentInfo
	Status          OrderStatus

	// StockCommitted records whether the outbound inventory sweep has been
	// applied, so a refund reverses exactly what was decremented.
	StockCommitted bool

	// Version guards concurrent transitions on the same order.
	Version int

	CreatedAt   time.Time
	DeliveredAt time.Time
}

// transitions is the full lifecycle graph. Anything not listed here is
// rejected, including repeating the current status.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:                {StatusTransferredToDelivery, StatusRefundRequested},
	StatusTransferredToDelivery: {StatusDelivered},
	StatusDelivered:             {StatusRefundRequested},
	StatusRefundRequested:       {StatusRefundAccepted},
	StatusRefundAccepted:        {},
}

func (s OrderStatus) Known() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (o *Order) Clone() Order {
	clone := *o
	clone.Cart = append([]CartLine(nil), o.Cart...)

	return clone
}

// MarkLineReviewed flags the cart line for the given product after a
// review has been accepted. Returns false if the order has no such line.
func (o *Order) MarkLineReviewed(productID ProductID) bool {
	for i, line := range o.Cart {
		if line.ProductID == productID {
			o.Cart[i].Reviewed = true
			return true
		}
	}

	return false
}
