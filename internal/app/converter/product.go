package converter

import (
	"github.com/golang-module/carbon/v2"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

func ConvertProductToPayload(product entity.Product) model.ProductPayload {
	images := product.Images
	if images == nil {
		images = []entity.Image{}
	}

	reviews := make([]model.ReviewPayload, 0, len(product.Reviews))
	for _, review := range product.Reviews {
		reviews = append(reviews, model.ReviewPayload{
			UserID:   review.UserID.String(),
			UserName: review.UserName,
			Rating:   review.Rating,
			Comment:  review.Comment,
		})
	}

	return model.ProductPayload{
		ID:            product.ID.String(),
		ShopID:        product.ShopID.String(),
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		Tags:          product.Tags,
		OriginalPrice: product.OriginalPrice,
		DiscountPrice: product.DiscountPrice,
		Stock:         product.Stock,
		SoldOut:       product.SoldOut,
		Images:        images,
		Reviews:       reviews,
		Rating:        product.Rating,
		CreatedAt:     carbon.CreateFromStdTime(product.CreatedAt).ToRfc3339String(),
	}
}

func ConvertProductsToPayload(products entity.Products) []model.ProductPayload {
	payload := make([]model.ProductPayload, 0, len(products))

	for _, product := range products {
		payload = append(payload, ConvertProductToPayload(product))
	}

	return payload
}
