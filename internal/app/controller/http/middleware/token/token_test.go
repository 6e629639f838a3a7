package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	usecase "github.com/shopora/go-shop-backend/internal/app/usecase/converter"
	"github.com/shopora/go-shop-backend/internal/app/usecase/token"
)

func newTestManager() *token.Manager {
	return token.NewManager(config.Config{
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
	})
}

func TestTokenParser(t *testing.T) {
	manager := newTestManager()

	validToken, err := manager.BuildSessionToken("user-1", entity.RoleSeller)
	require.NoError(t, err)

	type want struct {
		userID     entity.UserID
		role       entity.Role
		statusCode int
	}
	tests := []struct {
		name   string
		header string

		want want
	}{
		{
			name:   "valid token",
			header: usecase.SetTokenToAuthHeaderFormat(validToken),

			want: want{
				userID:     "user-1",
				role:       entity.RoleSeller,
				statusCode: http.StatusOK,
			},
		},
		{
			name:   "missing header",
			header: "",

			want: want{
				statusCode: http.StatusUnauthorized,
			},
		},
		{
			name:   "malformed header",
			header: "Token abc",

			want: want{
				statusCode: http.StatusUnauthorized,
			},
		},
		{
			name:   "garbage token",
			header: usecase.SetTokenToAuthHeaderFormat("garbage"),

			want: want{
				statusCode: http.StatusUnauthorized,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got entity.AuthCtx
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx, ok := r.Context().Value(entity.AuthCtxKey{}).(entity.AuthCtx)
				require.True(t, ok)
				got = ctx
			})

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.header != "" {
				request.Header.Set(usecase.AuthHeader, test.header)
			}

			Parser(manager)(next).ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, test.want.userID, got.UserID)
			assert.Equal(t, test.want.role, got.Role)
			assert.Equal(t, test.want.statusCode, got.StatusCode)
		})
	}
}
