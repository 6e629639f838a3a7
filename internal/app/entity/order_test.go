package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{
			name:    "placed to transferred",
			from:    StatusPlaced,
			to:      StatusTransferredToDelivery,
			allowed: true,
		},
		{
			name:    "placed to refund requested",
			from:    StatusPlaced,
			to:      StatusRefundRequested,
			allowed: true,
		},
		{
			name:    "transferred to delivered",
			from:    StatusTransferredToDelivery,
			to:      StatusDelivered,
			allowed: true,
		},
		{
			name:    "delivered to refund requested",
			from:    StatusDelivered,
			to:      StatusRefundRequested,
			allowed: true,
		},
		{
			name:    "refund requested to refund accepted",
			from:    StatusRefundRequested,
			to:      StatusRefundAccepted,
			allowed: true,
		},
		{
			name:    "same status is not a transition",
			from:    StatusPlaced,
			to:      StatusPlaced,
			allowed: false,
		},
		{
			name:    "placed cannot skip to delivered",
			from:    StatusPlaced,
			to:      StatusDelivered,
			allowed: false,
		},
		{
			name:    "delivered cannot go back to transferred",
			from:    StatusDelivered,
			to:      StatusTransferredToDelivery,
			allowed: false,
		},
		{
			name:    "refund accepted is terminal",
			from:    StatusRefundAccepted,
			to:      StatusPlaced,
			allowed: false,
		},
		{
			name:    "transferred cannot request refund",
			from:    StatusTransferredToDelivery,
			to:      StatusRefundRequested,
			allowed: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.allowed, test.from.CanTransitionTo(test.to))
		})
	}
}

func TestOrderStatusKnown(t *testing.T) {
	for _, status := range []OrderStatus{
		StatusPlaced,
		StatusTransferredToDelivery,
		StatusDelivered,
		StatusRefundRequested,
		StatusRefundAccepted,
	} {
		assert.True(t, status.Known(), string(status))
	}

	assert.False(t, OrderStatus("SHIPPED").Known())
	assert.False(t, OrderStatus("").Known())
}

func TestOrderClone(t *testing.T) {
	order := Order{
		ID:     "order-1",
		Status: StatusPlaced,
		Cart: []CartLine{
			{ProductID: "p1", Quantity: 2},
		},
	}

	clone := order.Clone()
	clone.Cart[0].Quantity = 99
	clone.Status = StatusDelivered

	assert.Equal(t, 2, order.Cart[0].Quantity)
	assert.Equal(t, StatusPlaced, order.Status)
}

func TestMarkLineReviewed(t *testing.T) {
	order := Order{
		Cart: []CartLine{
			{ProductID: "p1"},
			{ProductID: "p2"},
		},
	}

	assert.True(t, order.MarkLineReviewed("p2"))
	assert.False(t, order.Cart[0].Reviewed)
	assert.True(t, order.Cart[1].Reviewed)

	assert.False(t, order.MarkLineReviewed("missing"))
}
