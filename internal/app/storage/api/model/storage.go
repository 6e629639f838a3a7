package model

import (
	"context"

	"github.com/shopora/go-shop-backend/internal/app/entity"
)

type UserStorage interface {
	CreateUser(ctx context.Context, user entity.User) error
	GetUser(ctx context.Context, id entity.UserID) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	UpdateUser(ctx context.Context, user entity.User) error
	DeleteUser(ctx context.Context, id entity.UserID) error
	GetUsers(ctx context.Context) (entity.Users, error)
}

type ShopStorage interface {
	CreateShop(ctx context.Context, shop entity.Shop) error
	GetShop(ctx context.Context, id entity.ShopID) (entity.Shop, error)
	GetShopByEmail(ctx context.Context, email string) (entity.Shop, error)
	UpdateShop(ctx context.Context, shop entity.Shop) error
	DeleteShop(ctx context.Context, id entity.ShopID) error
	GetShops(ctx context.Context) (entity.Shops, error)

	// AddShopBalance applies a signed, additive balance delta in one step.
	AddShopBalance(ctx context.Context, id entity.ShopID, amount float64) (entity.Shop, error)
}

type ProductStorage interface {
	CreateProduct(ctx context.Context, product entity.Product) error
	GetProduct(ctx context.Context, id entity.ProductID) (entity.Product, error)
	UpdateProduct(ctx context.Context, product entity.Product) error
	DeleteProduct(ctx context.Context, id entity.ProductID) error
	GetShopProducts(ctx context.Context, shopID entity.ShopID) (entity.Products, error)
	GetProducts(ctx context.Context) (entity.Products, error)

	// ApplyStockDelta applies both deltas atomically, rejecting the whole
	// update if the resulting stock or sold count would be negative.
	ApplyStockDelta(ctx context.Context, id entity.ProductID, stockDelta, soldDelta int) (entity.Product, error)
}

type EventStorage interface {
	CreateEvent(ctx context.Context, event entity.Event) error
	GetEvent(ctx context.Context, id entity.EventID) (entity.Event, error)
	DeleteEvent(ctx context.Context, id entity.EventID) error
	GetShopEvents(ctx context.Context, shopID entity.ShopID) (entity.Events, error)
	GetEvents(ctx context.Context) (entity.Events, error)
}

type OrderStorage interface {
	CreateOrder(ctx context.Context, order entity.Order) error
	GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error)

	// UpdateOrder persists the order only if the stored version still
	// matches order.Version, then bumps the version.
	UpdateOrder(ctx context.Context, order entity.Order) error

	GetUserOrders(ctx context.Context, userID entity.UserID) (entity.Orders, error)
	GetShopOrders(ctx context.Context, shopID entity.ShopID) (entity.Orders, error)
	GetOrders(ctx context.Context) (entity.Orders, error)
}

type Storage interface {
	Close() error

	UserStorage
	ShopStorage
	ProductStorage
	EventStorage
	OrderStorage
}
