package role

import (
	"net/http"

	"go.uber.org/zap"

	httputils "github.com/shopora/go-shop-backend/internal/app/controller/http/utils"
	"github.com/shopora/go-shop-backend/internal/app/entity"
)

// RequireAuth rejects requests whose session token failed to parse.
func RequireAuth(next http.Handler) http.Handler {
	return require(next)
}

// RequireSeller additionally demands the seller role.
func RequireSeller(next http.Handler) http.Handler {
	return require(next, entity.RoleSeller)
}

// RequireAdmin additionally demands the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return require(next, entity.RoleAdmin)
}

func require(next http.Handler, roles ...entity.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if authCtx.StatusCode != http.StatusOK {
			httputils.WriteError(w, http.StatusUnauthorized, "please login to continue")
			return
		}

		if len(roles) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		for _, allowed := range roles {
			if authCtx.Role == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}

		httputils.WriteError(w, http.StatusForbidden, "access denied for this resource")
	})
}
