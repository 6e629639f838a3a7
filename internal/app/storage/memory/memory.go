package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

// Storage is a mutex-guarded in-memory implementation of the storage
// contract, used by tests and local runs without postgres. Values are
// cloned on the way in and out so callers never share backing slices.
type Storage struct {
	mu sync.RWMutex

	users    map[entity.UserID]entity.User
	shops    map[entity.ShopID]entity.Shop
	products map[entity.ProductID]entity.Product
	events   map[entity.EventID]entity.Event
	orders   map[entity.OrderID]entity.Order
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[entity.UserID]entity.User),
		shops:    make(map[entity.ShopID]entity.Shop),
		products: make(map[entity.ProductID]entity.Product),
		events:   make(map[entity.EventID]entity.Event),
		orders:   make(map[entity.OrderID]entity.Order),
	}
}

func (s *Storage) Close() error {
	return nil
}

func cloneUser(user entity.User) entity.User {
	user.Addresses = append([]entity.Address(nil), user.Addresses...)
	return user
}

func cloneShop(shop entity.Shop) entity.Shop {
	if shop.WithdrawMethod != nil {
		method := *shop.WithdrawMethod
		shop.WithdrawMethod = &method
	}
	return shop
}

func cloneProduct(product entity.Product) entity.Product {
	product.Images = append([]entity.Image(nil), product.Images...)
	product.Reviews = append([]entity.Review(nil), product.Reviews...)
	return product
}

func cloneEvent(event entity.Event) entity.Event {
	event.Images = append([]entity.Image(nil), event.Images...)
	return event
}

func (s *Storage) CreateUser(ctx context.Context, user entity.User) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return err_storage.ErrEmailExists
		}
	}

	s.users[user.ID] = cloneUser(user)

	return nil
}

func (s *Storage) GetUser(ctx context.Context, id entity.UserID) (entity.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return entity.User{}, err_storage.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return entity.User{}, err_storage.ErrEmailNotFound
}

func (s *Storage) UpdateUser(ctx context.Context, user entity.User) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return err_storage.ErrUserNotFound
	}

	s.users[user.ID] = cloneUser(user)

	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id entity.UserID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return err_storage.ErrUserNotFound
	}

	delete(s.users, id)

	return nil
}

func (s *Storage) GetUsers(ctx context.Context) (entity.Users, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(entity.Users, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, cloneUser(user))
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (s *Storage) CreateShop(ctx context.Context, shop entity.Shop) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.shops {
		if existing.Email == shop.Email {
			return err_storage.ErrEmailExists
		}
	}

	s.shops[shop.ID] = cloneShop(shop)

	return nil
}

func (s *Storage) GetShop(ctx context.Context, id entity.ShopID) (entity.Shop, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.shops[id]
	if !ok {
		return entity.Shop{}, err_storage.ErrShopNotFound
	}

	return cloneShop(shop), nil
}

func (s *Storage) GetShopByEmail(ctx context.Context, email string) (entity.Shop, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shop := range s.shops {
		if shop.Email == email {
			return cloneShop(shop), nil
		}
	}

	return entity.Shop{}, err_storage.ErrEmailNotFound
}

func (s *Storage) UpdateShop(ctx context.Context, shop entity.Shop) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.shops[shop.ID]
	if !ok {
		return err_storage.ErrShopNotFound
	}

	// Balance is ledger-owned; profile updates must not clobber it.
	shop.AvailableBalance = existing.AvailableBalance
	s.shops[shop.ID] = cloneShop(shop)

	return nil
}

func (s *Storage) DeleteShop(ctx context.Context, id entity.ShopID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shops[id]; !ok {
		return err_storage.ErrShopNotFound
	}

	delete(s.shops, id)

	return nil
}

func (s *Storage) GetShops(ctx context.Context) (entity.Shops, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	shops := make(entity.Shops, 0, len(s.shops))
	for _, shop := range s.shops {
		shops = append(shops, cloneShop(shop))
	}

	sort.Slice(shops, func(i, j int) bool {
		return shops[i].CreatedAt.After(shops[j].CreatedAt)
	})

	return shops, nil
}

func (s *Storage) AddShopBalance(ctx context.Context, id entity.ShopID, amount float64) (entity.Shop, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.shops[id]
	if !ok {
		return entity.Shop{}, err_storage.ErrShopNotFound
	}

	shop.AvailableBalance += amount
	s.shops[id] = shop

	return cloneShop(shop), nil
}
