package model

import "github.com/shopora/go-shop-backend/internal/app/entity"

type CreateEventRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Tags          string   `json:"tags,omitempty"`
	StartDate     string   `json:"start_date"`
	FinishDate    string   `json:"finish_date"`
	OriginalPrice float64  `json:"original_price"`
	DiscountPrice float64  `json:"discount_price"`
	Stock         int      `json:"stock"`
	Images        []string `json:"images"`
}

type EventPayload struct {
	ID            string         `json:"id"`
	ShopID        string         `json:"shop_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Tags          string         `json:"tags,omitempty"`
	StartDate     string         `json:"start_date"`
	FinishDate    string         `json:"finish_date"`
	OriginalPrice float64        `json:"original_price"`
	DiscountPrice float64        `json:"discount_price"`
	Stock         int            `json:"stock"`
	Images        []entity.Image `json:"images"`
	CreatedAt     string         `json:"created_at"`
}

type EventResponse struct {
	Success bool         `json:"success"`
	Event   EventPayload `json:"event"`
}

type EventsResponse struct {
	Success bool           `json:"success"`
	Events  []EventPayload `json:"events"`
}
