package shops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/assets"
	"github.com/shopora/go-shop-backend/internal/app/cache"
	"github.com/shopora/go-shop-backend/internal/app/config"
	httputils "github.com/shopora/go-shop-backend/internal/app/controller/http/utils"
	"github.com/shopora/go-shop-backend/internal/app/converter"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
	usecase "github.com/shopora/go-shop-backend/internal/app/usecase/converter"
	"github.com/shopora/go-shop-backend/internal/app/usecase/crypto"
	"github.com/shopora/go-shop-backend/internal/app/usecase/token"
	"github.com/shopora/go-shop-backend/internal/app/usecase/validator"
)

const (
	ErrInvalidCredentials = "provided credentials are invalid"
	ErrEmailTaken         = "shop with this email already exists"
)

type ShopProcessor interface {
	CreateShop(ctx context.Context, shop entity.Shop) error
	GetShop(ctx context.Context, id entity.ShopID) (entity.Shop, error)
	GetShopByEmail(ctx context.Context, email string) (entity.Shop, error)
	UpdateShop(ctx context.Context, shop entity.Shop) error
	DeleteShop(ctx context.Context, id entity.ShopID) error
	GetShops(ctx context.Context) (entity.Shops, error)
}

type Notifier interface {
	SendActivation(name, email, activationURL string) error
	SendPasswordReset(name, email, resetURL string) error
}

type Shop struct {
	storage  ShopProcessor
	tokens   *token.Manager
	notifier Notifier
	assets   assets.Store
	cache    *cache.Cache
	config   config.Config
}

func New(storage ShopProcessor, tokens *token.Manager, notifier Notifier, assetStore assets.Store, shopCache *cache.Cache, config config.Config) Shop {
	return Shop{
		storage:  storage,
		tokens:   tokens,
		notifier: notifier,
		assets:   assetStore,
		cache:    shopCache,
		config:   config,
	}
}

// Register emails an activation link for a new seller account. The shop
// record is only written once the token comes back through Activate.
func (s *Shop) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.RegisterShopRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop register request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.Name == "" || !validator.Credentials(request.Email, request.Password) {
			httputils.WriteError(w, http.StatusBadRequest, ErrInvalidCredentials)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		if _, err := s.storage.GetShopByEmail(ctx, request.Email); err == nil {
			httputils.WriteError(w, http.StatusConflict, ErrEmailTaken)
			return
		} else if !errors.Is(err, err_storage.ErrEmailNotFound) {
			zap.L().Error("error while checking email while registering shop", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hashedPassword, err := crypto.HashPassword(request.Password)
		if err != nil {
			zap.L().Error("error while hashing password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		avatar := entity.Image{}
		if request.Avatar != "" {
			avatar, err = s.assets.Upload(ctx, "shops", request.Avatar)
			if err != nil {
				zap.L().Error("error while uploading shop avatar", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, "avatar payload is invalid")
				return
			}
		}

		activationToken, err := s.tokens.BuildActivationToken(token.ActivationPayload{
			Role:        entity.RoleSeller,
			Name:        request.Name,
			Email:       request.Email,
			Password:    hashedPassword,
			Avatar:      avatar,
			PhoneNumber: request.PhoneNumber,
			Address:     request.Address,
			ZipCode:     request.ZipCode,
		})
		if err != nil {
			zap.L().Error("error while building shop activation token", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		activationURL := fmt.Sprintf("%s/%s", s.config.ActivationURL, activationToken)
		if err := s.notifier.SendActivation(request.Name, request.Email, activationURL); err != nil {
			zap.L().Error("error while sending shop activation email", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "could not send activation email")
			return
		}

		httputils.WriteMessage(w, http.StatusCreated,
			fmt.Sprintf("please check your email %s to activate your shop", request.Email))
	}
}

func (s *Shop) Activate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.ShopActivationRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop activation request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		payload, err := s.tokens.ParseActivationToken(request.ActivationToken)
		if err != nil || payload.Role != entity.RoleSeller {
			httputils.WriteError(w, http.StatusBadRequest, "activation token is invalid or expired")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop := entity.Shop{
			ID:          entity.ShopID(uuid.NewString()),
			Name:        payload.Name,
			Email:       payload.Email,
			Password:    payload.Password,
			Address:     payload.Address,
			PhoneNumber: payload.PhoneNumber,
			ZipCode:     payload.ZipCode,
			Avatar:      payload.Avatar,
			CreatedAt:   time.Now().UTC(),
		}

		if err := s.storage.CreateShop(ctx, shop); err != nil {
			if errors.Is(err, err_storage.ErrEmailExists) {
				httputils.WriteError(w, http.StatusConflict, ErrEmailTaken)
				return
			}

			zap.L().Error("error while creating shop while activating account", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		s.respondWithSession(w, http.StatusCreated, shop)
	}
}

func (s *Shop) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.LoginShopRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop login request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShopByEmail(ctx, request.Email)
		if err != nil {
			if errors.Is(err, err_storage.ErrEmailNotFound) {
				httputils.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials)
				return
			}

			zap.L().Error("error while loading shop while logging in", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := crypto.CheckPasswordHash(request.Password, shop.Password); err != nil {
			httputils.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials)
			return
		}

		s.respondWithSession(w, http.StatusOK, shop)
	}
}

// Logout clears the session header. Tokens are stateless, the client is
// expected to drop its copy.
func (s *Shop) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Authorization", "")
		httputils.WriteMessage(w, http.StatusOK, "logged out successfully")
	}
}

func (s *Shop) ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.LoginShopRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop forgot password request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShopByEmail(ctx, request.Email)
		if err != nil {
			if errors.Is(err, err_storage.ErrEmailNotFound) {
				// Same response either way, the email existence stays private.
				httputils.WriteMessage(w, http.StatusOK, "if the account exists, a reset email has been sent")
				return
			}

			zap.L().Error("error while loading shop for password reset", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resetToken, err := s.tokens.BuildResetToken(shop.ID.String(), entity.RoleSeller)
		if err != nil {
			zap.L().Error("error while building shop reset token", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resetURL := fmt.Sprintf("%s/%s", s.config.ActivationURL, resetToken)
		if err := s.notifier.SendPasswordReset(shop.Name, shop.Email, resetURL); err != nil {
			zap.L().Error("error while sending shop reset email", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "could not send reset email")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "if the account exists, a reset email has been sent")
	}
}

func (s *Shop) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop reset password request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if !validator.Password(request.Password) {
			httputils.WriteError(w, http.StatusBadRequest, "new password is too short")
			return
		}

		subject, role, err := s.tokens.ParseResetToken(request.Token)
		if err != nil || role != entity.RoleSeller {
			httputils.WriteError(w, http.StatusBadRequest, "reset token is invalid or expired")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, entity.ShopID(subject))
		if err != nil {
			zap.L().Error("error while loading shop while resetting password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hashedPassword, err := crypto.HashPassword(request.Password)
		if err != nil {
			zap.L().Error("error while hashing shop reset password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		shop.Password = hashedPassword

		if err := s.storage.UpdateShop(ctx, shop); err != nil {
			zap.L().Error("error while saving shop reset password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "password updated successfully")
	}
}

// GetShop serves the authenticated seller's own shop.
func (s *Shop) GetShop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		s.serveShop(w, r, entity.ShopID(authCtx.UserID.String()))
	}
}

// GetShopInfo serves any shop's public profile, cache first.
func (s *Shop) GetShopInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := entity.ShopID(chi.URLParam(r, "shopID"))
		if !shopID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "shop id is required")
			return
		}

		var cached model.ShopPayload
		if s.cache.Get(r.Context(), cache.ShopKey(shopID.String()), &cached) {
			httputils.WriteJSON(w, http.StatusOK, model.ShopResponse{Success: true, Shop: cached})
			return
		}

		s.serveShop(w, r, shopID)
	}
}

func (s *Shop) UpdateInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdateShopInfoRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop update request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, entity.ShopID(authCtx.UserID.String()))
		if err != nil {
			zap.L().Error("error while loading shop while updating info", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if request.Name != "" {
			shop.Name = request.Name
		}
		if request.Description != "" {
			shop.Description = request.Description
		}
		if request.Address != "" {
			shop.Address = request.Address
		}
		if request.PhoneNumber != "" {
			shop.PhoneNumber = request.PhoneNumber
		}
		if request.ZipCode != "" {
			shop.ZipCode = request.ZipCode
		}

		s.updateAndRespond(ctx, w, shop)
	}
}

func (s *Shop) UpdateAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdateShopAvatarRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding shop avatar request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, entity.ShopID(authCtx.UserID.String()))
		if err != nil {
			zap.L().Error("error while loading shop while updating avatar", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if shop.Avatar.ObjectID != "" {
			if err := s.assets.Remove(ctx, shop.Avatar.ObjectID); err != nil {
				zap.L().Warn("error while removing previous shop avatar", zap.Error(err))
			}
		}

		avatar, err := s.assets.Upload(ctx, "shops", request.Avatar)
		if err != nil {
			zap.L().Error("error while uploading shop avatar", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "avatar payload is invalid")
			return
		}
		shop.Avatar = avatar

		s.updateAndRespond(ctx, w, shop)
	}
}

func (s *Shop) UpdateWithdrawMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.WithdrawMethodRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding withdraw method request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, entity.ShopID(authCtx.UserID.String()))
		if err != nil {
			zap.L().Error("error while loading shop while updating withdraw method", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		method := converter.ConvertWithdrawMethodRequestToEntity(request)
		shop.WithdrawMethod = &method

		s.updateAndRespond(ctx, w, shop)
	}
}

func (s *Shop) DeleteWithdrawMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, entity.ShopID(authCtx.UserID.String()))
		if err != nil {
			zap.L().Error("error while loading shop while deleting withdraw method", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if shop.WithdrawMethod == nil {
			httputils.WriteError(w, http.StatusNotFound, "withdraw method not found")
			return
		}
		shop.WithdrawMethod = nil

		s.updateAndRespond(ctx, w, shop)
	}
}

func (s *Shop) GetShops() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shops, err := s.storage.GetShops(ctx)
		if err != nil {
			zap.L().Error("error while listing shops", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.ShopsResponse{
			Success: true,
			Shops:   converter.ConvertShopsToPayload(shops),
		})
	}
}

func (s *Shop) DeleteShop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := entity.ShopID(chi.URLParam(r, "shopID"))
		if !shopID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "shop id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		shop, err := s.storage.GetShop(ctx, shopID)
		if err != nil {
			if errors.Is(err, err_storage.ErrShopNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "shop not found")
				return
			}

			zap.L().Error("error while loading shop while deleting", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := s.storage.DeleteShop(ctx, shopID); err != nil {
			zap.L().Error("error while deleting shop", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if shop.Avatar.ObjectID != "" {
			if err := s.assets.Remove(ctx, shop.Avatar.ObjectID); err != nil {
				zap.L().Warn("error while removing avatar of deleted shop", zap.Error(err))
			}
		}

		s.cache.Invalidate(ctx, cache.ShopKey(shopID.String()))
		httputils.WriteMessage(w, http.StatusOK, "shop deleted successfully")
	}
}

func (s *Shop) serveShop(w http.ResponseWriter, r *http.Request, shopID entity.ShopID) {
	ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
	defer cancel()

	shop, err := s.storage.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, err_storage.ErrShopNotFound) {
			httputils.WriteError(w, http.StatusNotFound, "shop not found")
			return
		}

		zap.L().Error("error while loading shop", zap.Error(err))
		httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payload := converter.ConvertShopToPayload(shop)
	s.cache.Set(ctx, cache.ShopKey(shopID.String()), payload)

	httputils.WriteJSON(w, http.StatusOK, model.ShopResponse{Success: true, Shop: payload})
}

func (s *Shop) respondWithSession(w http.ResponseWriter, statusCode int, shop entity.Shop) {
	sessionToken, err := s.tokens.BuildSessionToken(shop.ID.String(), entity.RoleSeller)
	if err != nil {
		zap.L().Error("error while building shop session token", zap.Error(err))
		httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Add(usecase.AuthHeader, usecase.SetTokenToAuthHeaderFormat(sessionToken))
	httputils.WriteJSON(w, statusCode, model.ShopResponse{
		Success: true,
		Shop:    converter.ConvertShopToPayload(shop),
	})
}

func (s *Shop) updateAndRespond(ctx context.Context, w http.ResponseWriter, shop entity.Shop) {
	if err := s.storage.UpdateShop(ctx, shop); err != nil {
		zap.L().Error("error while saving shop", zap.Error(err))
		httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.cache.Invalidate(ctx, cache.ShopKey(shop.ID.String()))

	httputils.WriteJSON(w, http.StatusOK, model.ShopResponse{
		Success: true,
		Shop:    converter.ConvertShopToPayload(shop),
	})
}
