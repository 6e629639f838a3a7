package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

const eventColumns = `id, shop_id, name, description, category, tags, original_price,
					  discount_price, stock, images, start_date, finish_date, created_at`

func (s *Postgres) CreateEvent(ctx context.Context, event entity.Event) error {
	images, err := marshalColumn(event.Images)
	if err != nil {
		return err
	}

	query := `INSERT INTO events (id, shop_id, name, description, category, tags, original_price,
								  discount_price, stock, images, start_date, finish_date, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = s.db.ExecContext(ctx, query,
		event.ID.String(), event.ShopID.String(), event.Name, event.Description,
		event.Category, event.Tags, event.OriginalPrice, event.DiscountPrice,
		event.Stock, images, event.StartDate, event.FinishDate, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error while inserting event: %w", err)
	}

	return nil
}

func (s *Postgres) GetEvent(ctx context.Context, id entity.EventID) (entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	event, err := scanEvent(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Event{}, err_storage.ErrEventNotFound
		}

		return entity.Event{}, fmt.Errorf("error while selecting event: %w", err)
	}

	return event, nil
}

func (s *Postgres) DeleteEvent(ctx context.Context, id entity.EventID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("error while deleting event: %w", err)
	}

	return checkAffected(result, err_storage.ErrEventNotFound)
}

func (s *Postgres) GetShopEvents(ctx context.Context, shopID entity.ShopID) (entity.Events, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE shop_id = $1 ORDER BY created_at DESC`, eventColumns)

	return s.queryEvents(ctx, query, shopID.String())
}

func (s *Postgres) GetEvents(ctx context.Context) (entity.Events, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC`, eventColumns)

	return s.queryEvents(ctx, query)
}

func (s *Postgres) queryEvents(ctx context.Context, query string, args ...any) (entity.Events, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error while selecting events: %w", err)
	}
	defer rows.Close()

	events := make(entity.Events, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error while scanning event row: %w", err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating event rows: %w", err)
	}

	return events, nil
}

func scanEvent(row rowScanner) (entity.Event, error) {
	var (
		event  entity.Event
		id     string
		shopID string
		images []byte
	)

	err := row.Scan(&id, &shopID, &event.Name, &event.Description, &event.Category,
		&event.Tags, &event.OriginalPrice, &event.DiscountPrice, &event.Stock,
		&images, &event.StartDate, &event.FinishDate, &event.CreatedAt)
	if err != nil {
		return entity.Event{}, err
	}

	event.ID = entity.EventID(id)
	event.ShopID = entity.ShopID(shopID)

	if err := unmarshalColumn(images, &event.Images); err != nil {
		return entity.Event{}, err
	}

	return event, nil
}
