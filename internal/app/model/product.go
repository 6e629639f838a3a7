package model

import "github.com/shopora/go-shop-backend/internal/app/entity"

type CreateProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Tags          string   `json:"tags,omitempty"`
	OriginalPrice float64  `json:"original_price"`
	DiscountPrice float64  `json:"discount_price"`
	Stock         int      `json:"stock"`
	Images        []string `json:"images"`
}

type UpdateProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Tags          string   `json:"tags,omitempty"`
	OriginalPrice float64  `json:"original_price"`
	DiscountPrice float64  `json:"discount_price"`
	Stock         *int     `json:"stock"`
	Images        []string `json:"images"`
}

type ReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
	OrderID string  `json:"order_id"`
}

type ReviewPayload struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

type ProductPayload struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Tags          string          `json:"tags,omitempty"`
	OriginalPrice float64         `json:"original_price"`
	DiscountPrice float64         `json:"discount_price"`
	Stock         int             `json:"stock"`
	SoldOut       int             `json:"sold_out"`
	Images        []entity.Image  `json:"images"`
	Reviews       []ReviewPayload `json:"reviews"`
	Rating        float64         `json:"rating"`
	CreatedAt     string          `json:"created_at"`
}

type ProductResponse struct {
	Success bool           `json:"success"`
	Product ProductPayload `json:"product"`
}

type ProductsResponse struct {
	Success  bool             `json:"success"`
	Products []ProductPayload `json:"products"`
}
