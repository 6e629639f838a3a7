package memory

import (
	"context"
	"sort"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

func (s *Storage) CreateOrder(ctx context.Context, order entity.Order) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return err_storage.ErrOrderExists
	}

	s.orders[order.ID] = order.Clone()

	return nil
}

func (s *Storage) GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return entity.Order{}, err_storage.ErrOrderNotFound
	}

	return order.Clone(), nil
}

func (s *Storage) UpdateOrder(ctx context.Context, order entity.Order) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[order.ID]
	if !ok {
		return err_storage.ErrOrderNotFound
	}

	if existing.Version != order.Version {
		return err_storage.ErrVersionConflict
	}

	order.Version++
	s.orders[order.ID] = order.Clone()

	return nil
}

func (s *Storage) GetUserOrders(ctx context.Context, userID entity.UserID) (entity.Orders, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make(entity.Orders, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, order.Clone())
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (s *Storage) GetShopOrders(ctx context.Context, shopID entity.ShopID) (entity.Orders, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make(entity.Orders, 0)
	for _, order := range s.orders {
		if order.ShopID == shopID {
			orders = append(orders, order.Clone())
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (s *Storage) GetOrders(ctx context.Context) (entity.Orders, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make(entity.Orders, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order.Clone())
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].DeliveredAt.Equal(orders[j].DeliveredAt) {
			return orders[i].DeliveredAt.After(orders[j].DeliveredAt)
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}
