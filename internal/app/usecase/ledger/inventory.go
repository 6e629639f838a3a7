package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
	"go.uber.org/zap"
)

type InventoryStore interface {
	ApplyStockDelta(ctx context.Context, id entity.ProductID, stockDelta, soldDelta int) (entity.Product, error)
}

// Inventory owns per-product stock and sold counts. All stock mutation in
// the application routes through it so the non-negativity guard is applied
// uniformly.
type Inventory struct {
	store InventoryStore
}

func NewInventory(store InventoryStore) *Inventory {
	return &Inventory{
		store: store,
	}
}

type Delta struct {
	ProductID  entity.ProductID
	StockDelta int
	SoldDelta  int
}

func (d Delta) Inverse() Delta {
	return Delta{
		ProductID:  d.ProductID,
		StockDelta: -d.StockDelta,
		SoldDelta:  -d.SoldDelta,
	}
}

type SweepResult struct {
	Delta Delta
	Err   error
}

// ApplyDelta applies both deltas to one product, all-or-nothing.
func (l *Inventory) ApplyDelta(ctx context.Context, productID entity.ProductID, stockDelta, soldDelta int) (entity.Product, error) {
	product, err := l.store.ApplyStockDelta(ctx, productID, stockDelta, soldDelta)
	if err != nil {
		switch {
		case errors.Is(err, err_storage.ErrProductNotFound):
			return entity.Product{}, fmt.Errorf("product %s: %w", productID, err_usecase.ErrNotFound)
		case errors.Is(err, err_storage.ErrInsufficientStock), errors.Is(err, err_storage.ErrNegativeSoldCount):
			return entity.Product{}, fmt.Errorf("product %s: %w", productID, err_usecase.ErrInvalidQuantity)
		default:
			return entity.Product{}, fmt.Errorf("error while applying stock delta to product %s: %w", productID, err)
		}
	}

	return product, nil
}

// ApplySweep applies a batch of deltas, one product at a time, and returns
// the per-item outcome. On the first failure the already-applied deltas are
// compensated with their inverses, so a failed sweep leaves the ledger as
// it was.
func (l *Inventory) ApplySweep(ctx context.Context, deltas []Delta) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(deltas))

	for i, delta := range deltas {
		_, err := l.ApplyDelta(ctx, delta.ProductID, delta.StockDelta, delta.SoldDelta)
		results = append(results, SweepResult{Delta: delta, Err: err})

		if err != nil {
			l.compensate(ctx, deltas[:i])
			return results, fmt.Errorf("sweep failed on product %s: %w", delta.ProductID, err_usecase.ErrLedgerFailure)
		}
	}

	return results, nil
}

func (l *Inventory) compensate(ctx context.Context, applied []Delta) {
	for i := len(applied) - 1; i >= 0; i-- {
		inverse := applied[i].Inverse()
		if _, err := l.ApplyDelta(ctx, inverse.ProductID, inverse.StockDelta, inverse.SoldDelta); err != nil {
			zap.L().Error("inventory compensation failed, ledger left mutated",
				zap.String("product_id", inverse.ProductID.String()),
				zap.Int("stock_delta", inverse.StockDelta),
				zap.Int("sold_delta", inverse.SoldDelta),
				zap.Error(err),
			)
		}
	}
}
