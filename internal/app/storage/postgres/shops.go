package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

const shopColumns = `id, name, email, password, description, address, phone_number, zip_code,
					 avatar, withdraw_method, available_balance, created_at`

func (s *Postgres) CreateShop(ctx context.Context, shop entity.Shop) error {
	avatar, err := marshalColumn(shop.Avatar)
	if err != nil {
		return err
	}
	withdrawMethod, err := marshalWithdrawMethod(shop.WithdrawMethod)
	if err != nil {
		return err
	}

	query := `INSERT INTO shops (id, name, email, password, description, address, phone_number, zip_code,
								 avatar, withdraw_method, available_balance, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.db.ExecContext(ctx, query,
		shop.ID.String(), shop.Name, shop.Email, shop.Password, shop.Description,
		shop.Address, shop.PhoneNumber, shop.ZipCode, avatar, withdrawMethod,
		shop.AvailableBalance, shop.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return err_storage.ErrEmailExists
		}

		return fmt.Errorf("error while inserting shop: %w", err)
	}

	return nil
}

func (s *Postgres) GetShop(ctx context.Context, id entity.ShopID) (entity.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE id = $1`, shopColumns)

	shop, err := scanShop(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Shop{}, err_storage.ErrShopNotFound
		}

		return entity.Shop{}, fmt.Errorf("error while selecting shop: %w", err)
	}

	return shop, nil
}

func (s *Postgres) GetShopByEmail(ctx context.Context, email string) (entity.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE email = $1`, shopColumns)

	shop, err := scanShop(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Shop{}, err_storage.ErrEmailNotFound
		}

		return entity.Shop{}, fmt.Errorf("error while selecting shop by email: %w", err)
	}

	return shop, nil
}

// UpdateShop writes shop profile fields. The available balance is
// ledger-owned and only moves through AddShopBalance.
func (s *Postgres) UpdateShop(ctx context.Context, shop entity.Shop) error {
	avatar, err := marshalColumn(shop.Avatar)
	if err != nil {
		return err
	}
	withdrawMethod, err := marshalWithdrawMethod(shop.WithdrawMethod)
	if err != nil {
		return err
	}

	query := `UPDATE shops
			  SET name = $1, email = $2, password = $3, description = $4, address = $5,
				  phone_number = $6, zip_code = $7, avatar = $8, withdraw_method = $9
			  WHERE id = $10`

	result, err := s.db.ExecContext(ctx, query,
		shop.Name, shop.Email, shop.Password, shop.Description, shop.Address,
		shop.PhoneNumber, shop.ZipCode, avatar, withdrawMethod, shop.ID.String())
	if err != nil {
		return fmt.Errorf("error while updating shop: %w", err)
	}

	return checkAffected(result, err_storage.ErrShopNotFound)
}

func (s *Postgres) DeleteShop(ctx context.Context, id entity.ShopID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("error while deleting shop: %w", err)
	}

	return checkAffected(result, err_storage.ErrShopNotFound)
}

func (s *Postgres) GetShops(ctx context.Context) (entity.Shops, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops ORDER BY created_at DESC`, shopColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error while selecting shops: %w", err)
	}
	defer rows.Close()

	shops := make(entity.Shops, 0)
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("error while scanning shop row: %w", err)
		}

		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating shop rows: %w", err)
	}

	return shops, nil
}

// AddShopBalance applies the additive credit in a single statement, so
// concurrent settlements accumulate instead of clobbering each other.
func (s *Postgres) AddShopBalance(ctx context.Context, id entity.ShopID, amount float64) (entity.Shop, error) {
	query := fmt.Sprintf(`UPDATE shops SET available_balance = available_balance + $1
						  WHERE id = $2
						  RETURNING %s`, shopColumns)

	shop, err := scanShop(s.db.QueryRowContext(ctx, query, amount, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Shop{}, err_storage.ErrShopNotFound
		}

		return entity.Shop{}, fmt.Errorf("error while crediting shop balance: %w", err)
	}

	return shop, nil
}

func marshalWithdrawMethod(method *entity.WithdrawMethod) ([]byte, error) {
	if method == nil {
		return nil, nil
	}

	return marshalColumn(method)
}

func scanShop(row rowScanner) (entity.Shop, error) {
	var (
		shop           entity.Shop
		id             string
		avatar         []byte
		withdrawMethod []byte
	)

	err := row.Scan(&id, &shop.Name, &shop.Email, &shop.Password, &shop.Description,
		&shop.Address, &shop.PhoneNumber, &shop.ZipCode, &avatar, &withdrawMethod,
		&shop.AvailableBalance, &shop.CreatedAt)
	if err != nil {
		return entity.Shop{}, err
	}

	shop.ID = entity.ShopID(id)

	if err := unmarshalColumn(avatar, &shop.Avatar); err != nil {
		return entity.Shop{}, err
	}
	if len(withdrawMethod) != 0 {
		shop.WithdrawMethod = &entity.WithdrawMethod{}
		if err := unmarshalColumn(withdrawMethod, shop.WithdrawMethod); err != nil {
			return entity.Shop{}, err
		}
	}

	return shop, nil
}
