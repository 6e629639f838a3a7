package storage

import "errors"

var (
	ErrEmailExists   = errors.New("given email already exists in storage")
	ErrUserNotFound  = errors.New("user with given id doesn't exist in storage")
	ErrShopNotFound  = errors.New("shop with given id doesn't exist in storage")
	ErrEmailNotFound = errors.New("given email doesn't exist in storage")

	ErrProductNotFound = errors.New("product with given id doesn't exist in storage")
	ErrEventNotFound   = errors.New("event with given id doesn't exist in storage")

	ErrOrderNotFound   = errors.New("order with given id doesn't exist in storage")
	ErrOrderExists     = errors.New("order with given id already exists in storage")
	ErrVersionConflict = errors.New("order was modified concurrently")

	ErrInsufficientStock = errors.New("stock delta would make product stock negative")
	ErrNegativeSoldCount = errors.New("sold delta would make product sold count negative")
)
