package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

const userColumns = `id, name, email, password, phone_number, role, avatar, addresses, created_at`

func (s *Postgres) CreateUser(ctx context.Context, user entity.User) error {
	avatar, err := marshalColumn(user.Avatar)
	if err != nil {
		return err
	}
	addresses, err := marshalColumn(user.Addresses)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, name, email, password, phone_number, role, avatar, addresses, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = s.db.ExecContext(ctx, query,
		user.ID.String(), user.Name, user.Email, user.Password,
		user.PhoneNumber, string(user.Role), avatar, addresses, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return err_storage.ErrEmailExists
		}

		return fmt.Errorf("error while inserting user: %w", err)
	}

	return nil
}

func (s *Postgres) GetUser(ctx context.Context, id entity.UserID) (entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, err_storage.ErrUserNotFound
		}

		return entity.User{}, fmt.Errorf("error while selecting user: %w", err)
	}

	return user, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, err_storage.ErrEmailNotFound
		}

		return entity.User{}, fmt.Errorf("error while selecting user by email: %w", err)
	}

	return user, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, user entity.User) error {
	avatar, err := marshalColumn(user.Avatar)
	if err != nil {
		return err
	}
	addresses, err := marshalColumn(user.Addresses)
	if err != nil {
		return err
	}

	query := `UPDATE users
			  SET name = $1, email = $2, password = $3, phone_number = $4, avatar = $5, addresses = $6
			  WHERE id = $7`

	result, err := s.db.ExecContext(ctx, query,
		user.Name, user.Email, user.Password, user.PhoneNumber, avatar, addresses, user.ID.String())
	if err != nil {
		return fmt.Errorf("error while updating user: %w", err)
	}

	return checkAffected(result, err_storage.ErrUserNotFound)
}

func (s *Postgres) DeleteUser(ctx context.Context, id entity.UserID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("error while deleting user: %w", err)
	}

	return checkAffected(result, err_storage.ErrUserNotFound)
}

func (s *Postgres) GetUsers(ctx context.Context) (entity.Users, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error while selecting users: %w", err)
	}
	defer rows.Close()

	users := make(entity.Users, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error while scanning user row: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating user rows: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (entity.User, error) {
	var (
		user      entity.User
		id        string
		role      string
		avatar    []byte
		addresses []byte
	)

	err := row.Scan(&id, &user.Name, &user.Email, &user.Password,
		&user.PhoneNumber, &role, &avatar, &addresses, &user.CreatedAt)
	if err != nil {
		return entity.User{}, err
	}

	user.ID = entity.UserID(id)
	user.Role = entity.Role(role)

	if err := unmarshalColumn(avatar, &user.Avatar); err != nil {
		return entity.User{}, err
	}
	if err := unmarshalColumn(addresses, &user.Addresses); err != nil {
		return entity.User{}, err
	}

	return user, nil
}

func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error while reading affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}
