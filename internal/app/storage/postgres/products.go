package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

const productColumns = `id, shop_id, name, description, category, tags, original_price,
						discount_price, stock, sold_out, images, reviews, rating, created_at`

func (s *Postgres) CreateProduct(ctx context.Context, product entity.Product) error {
	images, err := marshalColumn(product.Images)
	if err != nil {
		return err
	}
	reviews, err := marshalColumn(product.Reviews)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (id, shop_id, name, description, category, tags, original_price,
									discount_price, stock, sold_out, images, reviews, rating, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = s.db.ExecContext(ctx, query,
		product.ID.String(), product.ShopID.String(), product.Name, product.Description,
		product.Category, product.Tags, product.OriginalPrice, product.DiscountPrice,
		product.Stock, product.SoldOut, images, reviews, product.Rating, product.CreatedAt)
	if err != nil {
		return fmt.Errorf("error while inserting product: %w", err)
	}

	return nil
}

func (s *Postgres) GetProduct(ctx context.Context, id entity.ProductID) (entity.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Product{}, err_storage.ErrProductNotFound
		}

		return entity.Product{}, fmt.Errorf("error while selecting product: %w", err)
	}

	return product, nil
}

// UpdateProduct writes catalog fields. Stock and sold count are
// ledger-owned and only move through ApplyStockDelta.
func (s *Postgres) UpdateProduct(ctx context.Context, product entity.Product) error {
	images, err := marshalColumn(product.Images)
	if err != nil {
		return err
	}
	reviews, err := marshalColumn(product.Reviews)
	if err != nil {
		return err
	}

	query := `UPDATE products
			  SET name = $1, description = $2, category = $3, tags = $4, original_price = $5,
				  discount_price = $6, images = $7, reviews = $8, rating = $9
			  WHERE id = $10`

	result, err := s.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Category, product.Tags,
		product.OriginalPrice, product.DiscountPrice, images, reviews,
		product.Rating, product.ID.String())
	if err != nil {
		return fmt.Errorf("error while updating product: %w", err)
	}

	return checkAffected(result, err_storage.ErrProductNotFound)
}

func (s *Postgres) DeleteProduct(ctx context.Context, id entity.ProductID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("error while deleting product: %w", err)
	}

	return checkAffected(result, err_storage.ErrProductNotFound)
}

func (s *Postgres) GetShopProducts(ctx context.Context, shopID entity.ShopID) (entity.Products, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE shop_id = $1 ORDER BY created_at DESC`, productColumns)

	return s.queryProducts(ctx, query, shopID.String())
}

func (s *Postgres) GetProducts(ctx context.Context) (entity.Products, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	return s.queryProducts(ctx, query)
}

// ApplyStockDelta commits both deltas in one guarded statement. The WHERE
// clause refuses the update entirely if either counter would go negative,
// so concurrent sweeps hitting the same product are serialized by the row
// lock and the invariant holds without a retry loop.
func (s *Postgres) ApplyStockDelta(ctx context.Context, id entity.ProductID, stockDelta, soldDelta int) (entity.Product, error) {
	query := fmt.Sprintf(`UPDATE products
						  SET stock = stock + $1, sold_out = sold_out + $2
						  WHERE id = $3 AND stock + $1 >= 0 AND sold_out + $2 >= 0
						  RETURNING %s`, productColumns)

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, stockDelta, soldDelta, id.String()))
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, fmt.Errorf("error while applying stock delta: %w", err)
	}

	// No row matched: either the product is gone or a delta would have
	// gone negative. Disambiguate for the caller.
	var stock, soldOut int
	err = s.db.QueryRowContext(ctx, `SELECT stock, sold_out FROM products WHERE id = $1`, id.String()).
		Scan(&stock, &soldOut)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, err_storage.ErrProductNotFound
	}
	if err != nil {
		return entity.Product{}, fmt.Errorf("error while checking product counters: %w", err)
	}

	if stock+stockDelta < 0 {
		return entity.Product{}, err_storage.ErrInsufficientStock
	}

	return entity.Product{}, err_storage.ErrNegativeSoldCount
}

func (s *Postgres) queryProducts(ctx context.Context, query string, args ...any) (entity.Products, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error while selecting products: %w", err)
	}
	defer rows.Close()

	products := make(entity.Products, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error while scanning product row: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (entity.Product, error) {
	var (
		product entity.Product
		id      string
		shopID  string
		images  []byte
		reviews []byte
	)

	err := row.Scan(&id, &shopID, &product.Name, &product.Description, &product.Category,
		&product.Tags, &product.OriginalPrice, &product.DiscountPrice, &product.Stock,
		&product.SoldOut, &images, &reviews, &product.Rating, &product.CreatedAt)
	if err != nil {
		return entity.Product{}, err
	}

	product.ID = entity.ProductID(id)
	product.ShopID = entity.ShopID(shopID)

	if err := unmarshalColumn(images, &product.Images); err != nil {
		return entity.Product{}, err
	}
	if err := unmarshalColumn(reviews, &product.Reviews); err != nil {
		return entity.Product{}, err
	}

	return product, nil
}
