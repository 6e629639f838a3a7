package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/entity"
)

func TestPartitionCart(t *testing.T) {
	type want struct {
		shopOrder []entity.ShopID
		lineCount []int
	}
	tests := []struct {
		name  string
		lines []entity.CartLine

		want want
	}{
		{
			name:  "empty cart",
			lines: nil,

			want: want{
				shopOrder: []entity.ShopID{},
				lineCount: []int{},
			},
		},
		{
			name: "single shop",
			lines: []entity.CartLine{
				{ProductID: "p1", ShopID: "shop-a"},
				{ProductID: "p2", ShopID: "shop-a"},
			},

			want: want{
				shopOrder: []entity.ShopID{"shop-a"},
				lineCount: []int{2},
			},
		},
		{
			name: "two shops interleaved keep first-seen order",
			lines: []entity.CartLine{
				{ProductID: "p1", ShopID: "shop-b"},
				{ProductID: "p2", ShopID: "shop-a"},
				{ProductID: "p3", ShopID: "shop-b"},
				{ProductID: "p4", ShopID: "shop-a"},
			},

			want: want{
				shopOrder: []entity.ShopID{"shop-b", "shop-a"},
				lineCount: []int{2, 2},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			carts := PartitionCart(test.lines)

			require.Len(t, carts, len(test.want.shopOrder))
			for i, cart := range carts {
				assert.Equal(t, test.want.shopOrder[i], cart.ShopID)
				assert.Len(t, cart.Lines, test.want.lineCount[i])

				for _, line := range cart.Lines {
					assert.Equal(t, cart.ShopID, line.ShopID)
				}
			}
		})
	}
}

func TestPartitionCartPreservesLineOrder(t *testing.T) {
	lines := []entity.CartLine{
		{ProductID: "p1", ShopID: "shop-a"},
		{ProductID: "p2", ShopID: "shop-b"},
		{ProductID: "p3", ShopID: "shop-a"},
	}

	carts := PartitionCart(lines)

	require.Len(t, carts, 2)
	assert.Equal(t, entity.ProductID("p1"), carts[0].Lines[0].ProductID)
	assert.Equal(t, entity.ProductID("p3"), carts[0].Lines[1].ProductID)
	assert.Equal(t, entity.ProductID("p2"), carts[1].Lines[0].ProductID)
}

func TestShopCartTotal(t *testing.T) {
	cart := ShopCart{
		ShopID: "shop-a",
		Lines: []entity.CartLine{
			{ProductID: "p1", Quantity: 2, DiscountPrice: 10.5},
			{ProductID: "p2", Quantity: 1, DiscountPrice: 4},
		},
	}

	assert.InDelta(t, 25.0, cart.Total(), 1e-9)
	assert.Zero(t, ShopCart{}.Total())
}
