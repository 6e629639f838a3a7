package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
)

type BalanceStore interface {
	AddShopBalance(ctx context.Context, id entity.ShopID, amount float64) (entity.Shop, error)
}

// Balance owns seller available balances. Credits accumulate; a settled
// order adds to whatever the shop already earned.
type Balance struct {
	store BalanceStore
}

func NewBalance(store BalanceStore) *Balance {
	return &Balance{
		store: store,
	}
}

// CreditNet credits the shop with the gross amount minus the service fee
// and returns the credited net amount.
func (l *Balance) CreditNet(ctx context.Context, shopID entity.ShopID, gross, feeRate float64) (float64, error) {
	if gross < 0 {
		return 0, fmt.Errorf("gross amount %.2f is negative: %w", gross, err_usecase.ErrInvalidQuantity)
	}
	if feeRate < 0 || feeRate > 1 {
		return 0, fmt.Errorf("fee rate %.2f is out of range: %w", feeRate, err_usecase.ErrInvalidQuantity)
	}

	net := gross * (1 - feeRate)
	if err := l.Credit(ctx, shopID, net); err != nil {
		return 0, err
	}

	return net, nil
}

// Credit applies a signed additive delta to the shop balance. Negative
// amounts are used only to compensate an already-applied credit.
func (l *Balance) Credit(ctx context.Context, shopID entity.ShopID, amount float64) error {
	_, err := l.store.AddShopBalance(ctx, shopID, amount)
	if err != nil {
		if errors.Is(err, err_storage.ErrShopNotFound) {
			return fmt.Errorf("shop %s: %w", shopID, err_usecase.ErrNotFound)
		}

		return fmt.Errorf("error while crediting shop %s balance: %w", shopID, err)
	}

	return nil
}
