package model

import "github.com/shopora/go-shop-backend/internal/app/entity"

type CartLineRequest struct {
	ProductID     string  `json:"product_id"`
	ShopID        string  `json:"shop_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	DiscountPrice float64 `json:"discount_price"`
}

type PaymentInfoRequest struct {
	TransactionID string `json:"transaction_id"`
	Method        string `json:"method"`
}

type CreateOrderRequest struct {
	Cart            []CartLineRequest  `json:"cart"`
	ShippingAddress entity.Address     `json:"shipping_address"`
	PaymentInfo     PaymentInfoRequest `json:"payment_info"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderPayload struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	ShopID          string             `json:"shop_id"`
	Cart            []entity.CartLine  `json:"cart"`
	ShippingAddress entity.Address     `json:"shipping_address"`
	TotalPrice      float64            `json:"total_price"`
	PaymentInfo     entity.PaymentInfo `json:"payment_info"`
	Status          string             `json:"status"`
	CreatedAt       string             `json:"created_at"`
	DeliveredAt     string             `json:"delivered_at,omitempty"`
}

type ShopFailurePayload struct {
	ShopID string `json:"shop_id"`
	Error  string `json:"error"`
}

type CreateOrdersResponse struct {
	Success     bool                 `json:"success"`
	Orders      []OrderPayload       `json:"orders"`
	FailedShops []ShopFailurePayload `json:"failed_shops,omitempty"`
	Warning     string               `json:"warning,omitempty"`
}

type OrderResponse struct {
	Success bool         `json:"success"`
	Order   OrderPayload `json:"order"`
}

type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []OrderPayload `json:"orders"`
}
