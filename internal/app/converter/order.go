package converter

import (
	"github.com/golang-module/carbon/v2"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

func ConvertCreateOrderRequestToCart(request model.CreateOrderRequest) []entity.CartLine {
	cart := make([]entity.CartLine, 0, len(request.Cart))

	for _, line := range request.Cart {
		cart = append(cart, entity.CartLine{
			ProductID:     entity.ProductID(line.ProductID),
			ShopID:        entity.ShopID(line.ShopID),
			Name:          line.Name,
			Quantity:      line.Quantity,
			DiscountPrice: line.DiscountPrice,
		})
	}

	return cart
}

func ConvertPaymentInfoRequestToEntity(request model.PaymentInfoRequest) entity.PaymentInfo {
	return entity.PaymentInfo{
		TransactionID: request.TransactionID,
		Method:        request.Method,
		Status:        entity.PaymentPending,
	}
}

func ConvertOrderToPayload(order entity.Order) model.OrderPayload {
	payload := model.OrderPayload{
		ID:              order.ID.String(),
		UserID:          order.UserID.String(),
		ShopID:          order.ShopID.String(),
		Cart:            order.Cart,
		ShippingAddress: order.ShippingAddress,
		TotalPrice:      order.TotalPrice,
		PaymentInfo:     order.PaymentInfo,
		Status:          string(order.Status),
		CreatedAt:       carbon.CreateFromStdTime(order.CreatedAt).ToRfc3339String(),
	}

	if !order.DeliveredAt.IsZero() {
		payload.DeliveredAt = carbon.CreateFromStdTime(order.DeliveredAt).ToRfc3339String()
	}

	return payload
}

func ConvertOrdersToPayload(orders entity.Orders) []model.OrderPayload {
	payload := make([]model.OrderPayload, 0, len(orders))

	for _, order := range orders {
		payload = append(payload, ConvertOrderToPayload(order))
	}

	return payload
}
