package users

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
	ErrEmailTaken         = "user with this email already exists"
)

type UserProcessor interface {
	CreateUser(ctx context.Context, user entity.User) error
	GetUser(ctx context.Context, id entity.UserID) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	UpdateUser(ctx context.Context, user entity.User) error
	DeleteUser(ctx context.Context, id entity.UserID) error
	GetUsers(ctx context.Context) (entity.Users, error)
}

// Notifier delivers account emails.
type Notifier interface {
	SendActivation(name, email, activationURL string) error
	SendPasswordReset(name, email, resetURL string) error
}

type User struct {
	storage  UserProcessor
	tokens   *token.Manager
	notifier Notifier
	assets   assets.Store
	config   config.Config
}

func New(storage UserProcessor, tokens *token.Manager, notifier Notifier, assetStore assets.Store, config config.Config) User {
	return User{
		storage:  storage,
		tokens:   tokens,
		notifier: notifier,
		assets:   assetStore,
		config:   config,
	}
}

// Register validates the profile and emails an activation link. No account
// exists until the token comes back through Activate.
func (u *User) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.RegisterUserRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding register request", zap.Error(err))
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

		if _, err := u.storage.GetUserByEmail(ctx, request.Email); err == nil {
			httputils.WriteError(w, http.StatusConflict, ErrEmailTaken)
			return
		} else if !errors.Is(err, err_storage.ErrEmailNotFound) {
			zap.L().Error("error while checking email while registering user", zap.Error(err))
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
			avatar, err = u.assets.Upload(ctx, "avatars", request.Avatar)
			if err != nil {
				zap.L().Error("error while uploading avatar while registering user", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, "avatar payload is invalid")
				return
			}
		}

		activationToken, err := u.tokens.BuildActivationToken(token.ActivationPayload{
			Role:     entity.RoleUser,
			Name:     request.Name,
			Email:    request.Email,
			Password: hashedPassword,
			Avatar:   avatar,
		})
		if err != nil {
			zap.L().Error("error while building activation token", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		activationURL := fmt.Sprintf("%s/%s", u.config.ActivationURL, activationToken)
		if err := u.notifier.SendActivation(request.Name, request.Email, activationURL); err != nil {
			zap.L().Error("error while sending activation email", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "could not send activation email")
			return
		}

		httputils.WriteMessage(w, http.StatusCreated,
			fmt.Sprintf("please check your email %s to activate your account", request.Email))
	}
}

// Activate turns a valid activation token into a stored account and logs
// the new user in.
func (u *User) Activate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.ActivationRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding activation request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		payload, err := u.tokens.ParseActivationToken(request.ActivationToken)
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, "activation token is invalid or expired")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user := entity.User{
			ID:        entity.UserID(uuid.NewString()),
			Name:      payload.Name,
			Email:     payload.Email,
			Password:  payload.Password,
			Role:      entity.RoleUser,
			Avatar:    payload.Avatar,
			CreatedAt: time.Now().UTC(),
		}

		if err := u.storage.CreateUser(ctx, user); err != nil {
			if errors.Is(err, err_storage.ErrEmailExists) {
				httputils.WriteError(w, http.StatusConflict, ErrEmailTaken)
				return
			}

			zap.L().Error("error while creating user while activating account", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		u.respondWithSession(w, http.StatusCreated, user)
	}
}

func (u *User) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.LoginRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding login request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUserByEmail(ctx, request.Email)
		if err != nil {
			if errors.Is(err, err_storage.ErrEmailNotFound) {
				httputils.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials)
				return
			}

			zap.L().Error("error while loading user while logging in", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := crypto.CheckPasswordHash(request.Password, user.Password); err != nil {
			httputils.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials)
			return
		}

		u.respondWithSession(w, http.StatusOK, user)
	}
}

// Logout clears the session header. Tokens are stateless, the client is
// expected to drop its copy.
func (u *User) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Authorization", "")
		httputils.WriteMessage(w, http.StatusOK, "logged out successfully")
	}
}

func (u *User) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			if errors.Is(err, err_storage.ErrUserNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "user not found")
				return
			}

			zap.L().Error("error while loading user", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.UserResponse{
			Success: true,
			User:    converter.ConvertUserToPayload(user),
		})
	}
}

func (u *User) UpdateInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdateUserInfoRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding update info request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading user while updating info", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Profile edits require the current password.
		if err := crypto.CheckPasswordHash(request.Password, user.Password); err != nil {
			httputils.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials)
			return
		}

		if request.Name != "" {
			user.Name = request.Name
		}
		if request.Email != "" {
			if !validator.Email(request.Email) {
				httputils.WriteError(w, http.StatusBadRequest, "email format is invalid")
				return
			}
			user.Email = request.Email
		}
		if request.PhoneNumber != "" {
			user.PhoneNumber = request.PhoneNumber
		}

		if err := u.updateAndRespond(ctx, w, user); err != nil {
			zap.L().Error("error while updating user info", zap.Error(err))
		}
	}
}

func (u *User) UpdateAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdateAvatarRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding avatar request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading user while updating avatar", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if user.Avatar.ObjectID != "" {
			if err := u.assets.Remove(ctx, user.Avatar.ObjectID); err != nil {
				zap.L().Warn("error while removing previous avatar", zap.Error(err))
			}
		}

		avatar, err := u.assets.Upload(ctx, "avatars", request.Avatar)
		if err != nil {
			zap.L().Error("error while uploading avatar", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "avatar payload is invalid")
			return
		}
		user.Avatar = avatar

		if err := u.updateAndRespond(ctx, w, user); err != nil {
			zap.L().Error("error while updating user avatar", zap.Error(err))
		}
	}
}

func (u *User) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdateAddressRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding address request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.AddressType == "" {
			httputils.WriteError(w, http.StatusBadRequest, "address type is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading user while updating address", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := user.AddAddress(converter.ConvertAddressRequestToEntity(request)); err != nil {
			httputils.WriteError(w, http.StatusConflict, err.Error())
			return
		}

		if err := u.updateAndRespond(ctx, w, user); err != nil {
			zap.L().Error("error while updating user address", zap.Error(err))
		}
	}
}

func (u *User) DeleteAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		addressType := chi.URLParam(r, "addressType")
		if addressType == "" {
			httputils.WriteError(w, http.StatusBadRequest, "address type is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading user while deleting address", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !user.RemoveAddress(addressType) {
			httputils.WriteError(w, http.StatusNotFound, "address not found")
			return
		}

		if err := u.updateAndRespond(ctx, w, user); err != nil {
			zap.L().Error("error while deleting user address", zap.Error(err))
		}
	}
}

func (u *User) UpdatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.UpdatePasswordRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding password request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.NewPassword != request.ConfirmPassword {
			httputils.WriteError(w, http.StatusBadRequest, "passwords do not match")
			return
		}
		if !validator.Password(request.NewPassword) {
			httputils.WriteError(w, http.StatusBadRequest, "new password is too short")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, authCtx.UserID)
		if err != nil {
			zap.L().Error("error while loading user while updating password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := crypto.CheckPasswordHash(request.OldPassword, user.Password); err != nil {
			httputils.WriteError(w, http.StatusUnauthorized, "old password is incorrect")
			return
		}

		hashedPassword, err := crypto.HashPassword(request.NewPassword)
		if err != nil {
			zap.L().Error("error while hashing new password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		user.Password = hashedPassword

		if err := u.storage.UpdateUser(ctx, user); err != nil {
			zap.L().Error("error while saving new password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "password updated successfully")
	}
}

func (u *User) ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request model.LoginRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding forgot password request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUserByEmail(ctx, request.Email)
		if err != nil {
			if errors.Is(err, err_storage.ErrEmailNotFound) {
				// Same response either way, the email existence stays private.
				httputils.WriteMessage(w, http.StatusOK, "if the account exists, a reset email has been sent")
				return
			}

			zap.L().Error("error while loading user for password reset", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resetToken, err := u.tokens.BuildResetToken(user.ID.String(), user.Role)
		if err != nil {
			zap.L().Error("error while building reset token", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resetURL := fmt.Sprintf("%s/%s", u.config.ActivationURL, resetToken)
		if err := u.notifier.SendPasswordReset(user.Name, user.Email, resetURL); err != nil {
			zap.L().Error("error while sending reset email", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "could not send reset email")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "if the account exists, a reset email has been sent")
	}
}

func (u *User) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding reset password request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if !validator.Password(request.Password) {
			httputils.WriteError(w, http.StatusBadRequest, "new password is too short")
			return
		}

		subject, _, err := u.tokens.ParseResetToken(request.Token)
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, "reset token is invalid or expired")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, entity.UserID(subject))
		if err != nil {
			zap.L().Error("error while loading user while resetting password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hashedPassword, err := crypto.HashPassword(request.Password)
		if err != nil {
			zap.L().Error("error while hashing reset password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		user.Password = hashedPassword

		if err := u.storage.UpdateUser(ctx, user); err != nil {
			zap.L().Error("error while saving reset password", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "password updated successfully")
	}
}

// GetUserInfo serves another user's public profile.
func (u *User) GetUserInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := entity.UserID(chi.URLParam(r, "userID"))
		if !userID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "user id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, err_storage.ErrUserNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "user not found")
				return
			}

			zap.L().Error("error while loading user info", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.UserResponse{
			Success: true,
			User:    converter.ConvertUserToPayload(user),
		})
	}
}

func (u *User) GetUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		users, err := u.storage.GetUsers(ctx)
		if err != nil {
			zap.L().Error("error while listing users", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.UsersResponse{
			Success: true,
			Users:   converter.ConvertUsersToPayload(users),
		})
	}
}

func (u *User) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := entity.UserID(chi.URLParam(r, "userID"))
		if !userID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "user id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		user, err := u.storage.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, err_storage.ErrUserNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "user not found")
				return
			}

			zap.L().Error("error while loading user while deleting", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := u.storage.DeleteUser(ctx, userID); err != nil {
			zap.L().Error("error while deleting user", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if user.Avatar.ObjectID != "" {
			if err := u.assets.Remove(ctx, user.Avatar.ObjectID); err != nil {
				zap.L().Warn("error while removing avatar of deleted user", zap.Error(err))
			}
		}

		httputils.WriteMessage(w, http.StatusOK, "user deleted successfully")
	}
}

func (u *User) respondWithSession(w http.ResponseWriter, statusCode int, user entity.User) {
	sessionToken, err := u.tokens.BuildSessionToken(user.ID.String(), user.Role)
	if err != nil {
		zap.L().Error("error while building session token", zap.Error(err))
		httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Add(usecase.AuthHeader, usecase.SetTokenToAuthHeaderFormat(sessionToken))
	httputils.WriteJSON(w, statusCode, model.UserResponse{
		Success: true,
		User:    converter.ConvertUserToPayload(user),
	})
}

func (u *User) updateAndRespond(ctx context.Context, w http.ResponseWriter, user entity.User) error {
	if err := u.storage.UpdateUser(ctx, user); err != nil {
		httputils.WriteError(w, http.StatusInternalServerError, "internal error")
		return fmt.Errorf("error while saving user %s: %w", user.ID, err)
	}

	httputils.WriteJSON(w, http.StatusOK, model.UserResponse{
		Success: true,
		User:    converter.ConvertUserToPayload(user),
	})

	return nil
}
