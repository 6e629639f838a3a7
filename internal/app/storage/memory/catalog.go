package memory

import (
	"context"
	"sort"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

func (s *Storage) CreateProduct(ctx context.Context, product entity.Product) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = cloneProduct(product)

	return nil
}

func (s *Storage) GetProduct(ctx context.Context, id entity.ProductID) (entity.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return entity.Product{}, err_storage.ErrProductNotFound
	}

	return cloneProduct(product), nil
}

func (s *Storage) UpdateProduct(ctx context.Context, product entity.Product) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return err_storage.ErrProductNotFound
	}

	// Stock and sold count are ledger-owned.
	product.Stock = existing.Stock
	product.SoldOut = existing.SoldOut
	s.products[product.ID] = cloneProduct(product)

	return nil
}

func (s *Storage) DeleteProduct(ctx context.Context, id entity.ProductID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return err_storage.ErrProductNotFound
	}

	delete(s.products, id)

	return nil
}

func (s *Storage) GetShopProducts(ctx context.Context, shopID entity.ShopID) (entity.Products, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make(entity.Products, 0)
	for _, product := range s.products {
		if product.ShopID == shopID {
			products = append(products, cloneProduct(product))
		}
	}

	sortProducts(products)

	return products, nil
}

func (s *Storage) GetProducts(ctx context.Context) (entity.Products, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make(entity.Products, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, cloneProduct(product))
	}

	sortProducts(products)

	return products, nil
}

// ApplyStockDelta holds the write lock for the whole check-and-set, so a
// concurrent sweep can never commit a negative stock or sold count.
func (s *Storage) ApplyStockDelta(ctx context.Context, id entity.ProductID, stockDelta, soldDelta int) (entity.Product, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return entity.Product{}, err_storage.ErrProductNotFound
	}

	if product.Stock+stockDelta < 0 {
		return entity.Product{}, err_storage.ErrInsufficientStock
	}
	if product.SoldOut+soldDelta < 0 {
		return entity.Product{}, err_storage.ErrNegativeSoldCount
	}

	product.Stock += stockDelta
	product.SoldOut += soldDelta
	s.products[id] = product

	return cloneProduct(product), nil
}

func sortProducts(products entity.Products) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

func (s *Storage) CreateEvent(ctx context.Context, event entity.Event) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[event.ID] = cloneEvent(event)

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id entity.EventID) (entity.Event, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return entity.Event{}, err_storage.ErrEventNotFound
	}

	return cloneEvent(event), nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id entity.EventID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return err_storage.ErrEventNotFound
	}

	delete(s.events, id)

	return nil
}

func (s *Storage) GetShopEvents(ctx context.Context, shopID entity.ShopID) (entity.Events, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make(entity.Events, 0)
	for _, event := range s.events {
		if event.ShopID == shopID {
			events = append(events, cloneEvent(event))
		}
	}

	sortEvents(events)

	return events, nil
}

func (s *Storage) GetEvents(ctx context.Context) (entity.Events, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make(entity.Events, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, cloneEvent(event))
	}

	sortEvents(events)

	return events, nil
}

func sortEvents(events entity.Events) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}
