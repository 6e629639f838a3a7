package order

import "github.com/shopora/go-shop-backend/internal/app/entity"

// ShopCart holds the cart lines of a single shop, in their original order.
type ShopCart struct {
	ShopID entity.ShopID
	Lines  []entity.CartLine
}

func (c ShopCart) Total() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.DiscountPrice * float64(line.Quantity)
	}

	return total
}

// PartitionCart splits a mixed cart into one group per shop. Line order is
// preserved within a group and groups come out in first-seen shop order.
func PartitionCart(lines []entity.CartLine) []ShopCart {
	carts := make([]ShopCart, 0)
	index := make(map[entity.ShopID]int)

	for _, line := range lines {
		i, seen := index[line.ShopID]
		if !seen {
			i = len(carts)
			index[line.ShopID] = i
			carts = append(carts, ShopCart{ShopID: line.ShopID})
		}

		carts[i].Lines = append(carts[i].Lines, line)
	}

	return carts
}
