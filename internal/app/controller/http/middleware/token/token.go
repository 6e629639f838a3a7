package token

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	usecase "github.com/shopora/go-shop-backend/internal/app/usecase/converter"
	"github.com/shopora/go-shop-backend/internal/app/usecase/token"
)

// Parser decodes the session token of each request into an AuthCtx.
// Requests without a valid token still pass through; role middleware
// decides whether the route needs one.
func Parser(manager *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header[usecase.AuthHeader]
			authCtx := processAuthHeader(manager, authHeader)

			ctx := context.WithValue(r.Context(), entity.AuthCtxKey{}, authCtx)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

func processAuthHeader(manager *token.Manager, authHeader []string) entity.AuthCtx {
	if len(authHeader) == 0 {
		return entity.CreateAuthCtx("", "", http.StatusUnauthorized)
	}

	tokenString, err := usecase.GetTokenFromAuthHeader(authHeader[0])
	if err != nil {
		zap.L().Error("error while parsing auth header", zap.Error(err))

		return entity.CreateAuthCtx("", "", http.StatusUnauthorized)
	}

	subject, role, err := manager.ParseSessionToken(tokenString)
	if err != nil {
		zap.L().Info("rejected session token", zap.Error(err))

		return entity.CreateAuthCtx("", "", http.StatusUnauthorized)
	}

	userID := entity.UserID(subject)
	if !userID.Valid() {
		zap.L().Error("empty subject in session token")

		return entity.CreateAuthCtx("", "", http.StatusBadRequest)
	}

	return entity.CreateAuthCtx(userID, role, http.StatusOK)
}
