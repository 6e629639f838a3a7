package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

const (
	RequestTimeout = 3 * time.Second
)

func GetAuthFromContext(r *http.Request) (entity.AuthCtx, error) {
	authCtx, ok := r.Context().Value(entity.AuthCtxKey{}).(entity.AuthCtx)
	if !ok {
		return entity.AuthCtx{}, fmt.Errorf("auth couldn't obtain from context")
	}

	if authCtx.StatusCode == http.StatusOK && !authCtx.UserID.Valid() {
		return entity.AuthCtx{}, fmt.Errorf("invalid subject id with status ok")
	}

	return authCtx, nil
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("error while encoding response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, model.ErrorResponse{Success: false, Error: message})
}

func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, model.MessageResponse{Success: true, Message: message})
}

func DecodeRequest(r *http.Request, request any) error {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		return fmt.Errorf("error while decoding request body: %w", err)
	}

	return nil
}
