package products

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/assets"
	"github.com/shopora/go-shop-backend/internal/app/cache"
	httputils "github.com/shopora/go-shop-backend/internal/app/controller/http/utils"
	"github.com/shopora/go-shop-backend/internal/app/converter"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	err_usecase "github.com/shopora/go-shop-backend/internal/app/usecase/errors"
)

type ProductProcessor interface {
	CreateProduct(ctx context.Context, product entity.Product) error
	GetProduct(ctx context.Context, id entity.ProductID) (entity.Product, error)
	UpdateProduct(ctx context.Context, product entity.Product) error
	DeleteProduct(ctx context.Context, id entity.ProductID) error
	GetShopProducts(ctx context.Context, shopID entity.ShopID) (entity.Products, error)
	GetProducts(ctx context.Context) (entity.Products, error)
}

type OrderProcessor interface {
	GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error)
}

type UserProcessor interface {
	GetUser(ctx context.Context, id entity.UserID) (entity.User, error)
}

// Reviewer flags an order's cart line once its review is accepted.
type Reviewer interface {
	MarkLineReviewed(ctx context.Context, orderID entity.OrderID, productID entity.ProductID) error
}

type Product struct {
	storage  ProductProcessor
	orders   OrderProcessor
	users    UserProcessor
	reviewer Reviewer
	assets   assets.Store
	cache    *cache.Cache
}

func New(storage ProductProcessor, orders OrderProcessor, users UserProcessor, reviewer Reviewer, assetStore assets.Store, productCache *cache.Cache) Product {
	return Product{
		storage:  storage,
		orders:   orders,
		users:    users,
		reviewer: reviewer,
		assets:   assetStore,
		cache:    productCache,
	}
}

func (p *Product) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.CreateProductRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding create product request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.Name == "" || request.Stock < 0 {
			httputils.WriteError(w, http.StatusBadRequest, "product name is required and stock must not be negative")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		images := make([]entity.Image, 0, len(request.Images))
		for _, payload := range request.Images {
			image, err := p.assets.Upload(ctx, "products", payload)
			if err != nil {
				zap.L().Error("error while uploading product image", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, "image payload is invalid")
				return
			}
			images = append(images, image)
		}

		product := entity.Product{
			ID:            entity.ProductID(uuid.NewString()),
			ShopID:        entity.ShopID(authCtx.UserID.String()),
			Name:          request.Name,
			Description:   request.Description,
			Category:      request.Category,
			Tags:          request.Tags,
			OriginalPrice: request.OriginalPrice,
			DiscountPrice: request.DiscountPrice,
			Stock:         request.Stock,
			Images:        images,
			CreatedAt:     time.Now().UTC(),
		}

		if err := p.storage.CreateProduct(ctx, product); err != nil {
			zap.L().Error("error while creating product", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.cache.Invalidate(ctx, cache.KeyAllProducts)

		httputils.WriteJSON(w, http.StatusCreated, model.ProductResponse{
			Success: true,
			Product: converter.ConvertProductToPayload(product),
		})
	}
}

func (p *Product) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := entity.ProductID(chi.URLParam(r, "productID"))
		if !productID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "product id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		product, err := p.storage.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, err_storage.ErrProductNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "product not found")
				return
			}

			zap.L().Error("error while loading product", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.ProductResponse{
			Success: true,
			Product: converter.ConvertProductToPayload(product),
		})
	}
}

// GetProducts serves the whole catalog, newest first, cache first.
func (p *Product) GetProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cached []model.ProductPayload
		if p.cache.Get(r.Context(), cache.KeyAllProducts, &cached) {
			httputils.WriteJSON(w, http.StatusOK, model.ProductsResponse{Success: true, Products: cached})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		products, err := p.storage.GetProducts(ctx)
		if err != nil {
			zap.L().Error("error while listing products", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		payload := converter.ConvertProductsToPayload(products)
		p.cache.Set(ctx, cache.KeyAllProducts, payload)

		httputils.WriteJSON(w, http.StatusOK, model.ProductsResponse{Success: true, Products: payload})
	}
}

func (p *Product) GetShopProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := entity.ShopID(chi.URLParam(r, "shopID"))
		if !shopID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "shop id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		products, err := p.storage.GetShopProducts(ctx, shopID)
		if err != nil {
			zap.L().Error("error while listing shop products", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.ProductsResponse{
			Success:  true,
			Products: converter.ConvertProductsToPayload(products),
		})
	}
}

// Update edits the seller's own product. Non-empty fields replace the
// stored values; new image payloads are uploaded and appended.
func (p *Product) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		productID := entity.ProductID(chi.URLParam(r, "productID"))
		if !productID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "product id is required")
			return
		}

		var request model.UpdateProductRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding update product request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		product, err := p.storage.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, err_storage.ErrProductNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "product not found")
				return
			}

			zap.L().Error("error while loading product while updating", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if product.ShopID.String() != authCtx.UserID.String() {
			httputils.WriteError(w, http.StatusForbidden, "product belongs to another shop")
			return
		}

		if request.Name != "" {
			product.Name = request.Name
		}
		if request.Description != "" {
			product.Description = request.Description
		}
		if request.Category != "" {
			product.Category = request.Category
		}
		if request.Tags != "" {
			product.Tags = request.Tags
		}
		if request.OriginalPrice > 0 {
			product.OriginalPrice = request.OriginalPrice
		}
		if request.DiscountPrice > 0 {
			product.DiscountPrice = request.DiscountPrice
		}
		if request.Stock != nil {
			if *request.Stock < 0 {
				httputils.WriteError(w, http.StatusBadRequest, "stock must not be negative")
				return
			}
			product.Stock = *request.Stock
		}

		for _, payload := range request.Images {
			image, err := p.assets.Upload(ctx, "products", payload)
			if err != nil {
				zap.L().Error("error while uploading product image", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, "image payload is invalid")
				return
			}
			product.Images = append(product.Images, image)
		}

		if err := p.storage.UpdateProduct(ctx, product); err != nil {
			zap.L().Error("error while updating product", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.cache.Invalidate(ctx, cache.KeyAllProducts)

		httputils.WriteJSON(w, http.StatusOK, model.ProductResponse{
			Success: true,
			Product: converter.ConvertProductToPayload(product),
		})
	}
}

// DeleteImage removes a single image object from the seller's own product.
func (p *Product) DeleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		productID := entity.ProductID(chi.URLParam(r, "productID"))
		objectID := chi.URLParam(r, "objectID")
		if !productID.Valid() || objectID == "" {
			httputils.WriteError(w, http.StatusBadRequest, "product id and image id are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		product, err := p.storage.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, err_storage.ErrProductNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "product not found")
				return
			}

			zap.L().Error("error while loading product while deleting image", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if product.ShopID.String() != authCtx.UserID.String() {
			httputils.WriteError(w, http.StatusForbidden, "product belongs to another shop")
			return
		}

		kept := product.Images[:0]
		found := false
		for _, image := range product.Images {
			if image.ObjectID == objectID {
				found = true
				continue
			}
			kept = append(kept, image)
		}
		if !found {
			httputils.WriteError(w, http.StatusNotFound, "image not found on this product")
			return
		}
		product.Images = kept

		if err := p.assets.Remove(ctx, objectID); err != nil {
			zap.L().Warn("error while removing product image object", zap.Error(err))
		}

		if err := p.storage.UpdateProduct(ctx, product); err != nil {
			zap.L().Error("error while saving product after image removal", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.cache.Invalidate(ctx, cache.KeyAllProducts)
		httputils.WriteMessage(w, http.StatusOK, "image deleted successfully")
	}
}

func (p *Product) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		productID := entity.ProductID(chi.URLParam(r, "productID"))
		if !productID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "product id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		product, err := p.storage.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, err_storage.ErrProductNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "product not found")
				return
			}

			zap.L().Error("error while loading product while deleting", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if product.ShopID.String() != authCtx.UserID.String() {
			httputils.WriteError(w, http.StatusForbidden, "product belongs to another shop")
			return
		}

		for _, image := range product.Images {
			if err := p.assets.Remove(ctx, image.ObjectID); err != nil {
				zap.L().Warn("error while removing product image", zap.Error(err))
			}
		}

		if err := p.storage.DeleteProduct(ctx, productID); err != nil {
			zap.L().Error("error while deleting product", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.cache.Invalidate(ctx, cache.KeyAllProducts)
		httputils.WriteMessage(w, http.StatusOK, "product deleted successfully")
	}
}

// CreateReview accepts a review for a product the caller received in a
// delivered order, then flags the order line so it cannot be reviewed twice.
func (p *Product) CreateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		productID := entity.ProductID(chi.URLParam(r, "productID"))
		if !productID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "product id is required")
			return
		}

		var request model.ReviewRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding review request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.Rating < 1 || request.Rating > 5 {
			httputils.WriteError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		order, err := p.orders.GetOrder(ctx, entity.OrderID(request.OrderID))
		if err != nil {
			if errors.Is(err, err_storage.ErrOrderNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "order not found")
				return
			}

			zap.L().Error("error while loading order while creating review", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if order.UserID != authCtx.UserID {
			httputils.WriteError(w, http.StatusForbidden, "order belongs to another user")
			return
		}
		if order.Status != entity.StatusDelivered {
			httputils.WriteError(w, http.StatusBadRequest, "only delivered orders can be reviewed")
			return
		}

		reviewed := false
		for _, line := range order.Cart {
			if line.ProductID == productID {
				reviewed = line.Reviewed
			}
		}
		if reviewed {
			httputils.WriteError(w, http.StatusConflict, "this order line has already been reviewed")
			return
		}

		user, err := p.users.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading reviewer", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		product, err := p.storage.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, err_storage.ErrProductNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "product not found")
				return
			}

			zap.L().Error("error while loading product while creating review", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		product.UpsertReview(entity.Review{
			UserID:    user.ID,
			UserName:  user.Name,
			Rating:    request.Rating,
			Comment:   request.Comment,
			ProductID: productID.String(),
		})

		if err := p.storage.UpdateProduct(ctx, product); err != nil {
			zap.L().Error("error while saving review", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := p.reviewer.MarkLineReviewed(ctx, order.ID, productID); err != nil {
			if errors.Is(err, err_usecase.ErrNotFound) {
				httputils.WriteError(w, http.StatusBadRequest, "order has no line for this product")
				return
			}

			zap.L().Error("error while flagging reviewed order line", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		p.cache.Invalidate(ctx, cache.KeyAllProducts)

		httputils.WriteJSON(w, http.StatusCreated, model.ProductResponse{
			Success: true,
			Product: converter.ConvertProductToPayload(product),
		})
	}
}
