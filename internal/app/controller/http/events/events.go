package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopora/go-shop-backend/internal/app/assets"
	httputils "github.com/shopora/go-shop-backend/internal/app/controller/http/utils"
	"github.com/shopora/go-shop-backend/internal/app/converter"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

type EventProcessor interface {
	CreateEvent(ctx context.Context, event entity.Event) error
	GetEvent(ctx context.Context, id entity.EventID) (entity.Event, error)
	DeleteEvent(ctx context.Context, id entity.EventID) error
	GetShopEvents(ctx context.Context, shopID entity.ShopID) (entity.Events, error)
	GetEvents(ctx context.Context) (entity.Events, error)
}

type Event struct {
	storage EventProcessor
	assets  assets.Store
}

func New(storage EventProcessor, assetStore assets.Store) Event {
	return Event{
		storage: storage,
		assets:  assetStore,
	}
}

func (e *Event) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var request model.CreateEventRequest
		if err := httputils.DecodeRequest(r, &request); err != nil {
			zap.L().Error("error while decoding create event request", zap.Error(err))
			httputils.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		defer r.Body.Close()

		if request.Name == "" || request.Stock < 0 {
			httputils.WriteError(w, http.StatusBadRequest, "event name is required and stock must not be negative")
			return
		}

		start, finish, err := converter.ConvertCreateEventRequestDates(request)
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		images := make([]entity.Image, 0, len(request.Images))
		for _, payload := range request.Images {
			image, err := e.assets.Upload(ctx, "events", payload)
			if err != nil {
				zap.L().Error("error while uploading event image", zap.Error(err))
				httputils.WriteError(w, http.StatusBadRequest, "image payload is invalid")
				return
			}
			images = append(images, image)
		}

		event := entity.Event{
			ID:            entity.EventID(uuid.NewString()),
			ShopID:        entity.ShopID(authCtx.UserID.String()),
			Name:          request.Name,
			Description:   request.Description,
			Category:      request.Category,
			Tags:          request.Tags,
			OriginalPrice: request.OriginalPrice,
			DiscountPrice: request.DiscountPrice,
			Stock:         request.Stock,
			Images:        images,
			StartDate:     start,
			FinishDate:    finish,
			CreatedAt:     time.Now().UTC(),
		}

		if err := e.storage.CreateEvent(ctx, event); err != nil {
			zap.L().Error("error while creating event", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusCreated, model.EventResponse{
			Success: true,
			Event:   converter.ConvertEventToPayload(event),
		})
	}
}

func (e *Event) GetEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		events, err := e.storage.GetEvents(ctx)
		if err != nil {
			zap.L().Error("error while listing events", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.EventsResponse{
			Success: true,
			Events:  converter.ConvertEventsToPayload(events),
		})
	}
}

func (e *Event) GetShopEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID := entity.ShopID(chi.URLParam(r, "shopID"))
		if !shopID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "shop id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		events, err := e.storage.GetShopEvents(ctx, shopID)
		if err != nil {
			zap.L().Error("error while listing shop events", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.EventsResponse{
			Success: true,
			Events:  converter.ConvertEventsToPayload(events),
		})
	}
}

func (e *Event) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := httputils.GetAuthFromContext(r)
		if err != nil {
			zap.L().Error("error while obtaining auth from context", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		eventID := entity.EventID(chi.URLParam(r, "eventID"))
		if !eventID.Valid() {
			httputils.WriteError(w, http.StatusBadRequest, "event id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), httputils.RequestTimeout)
		defer cancel()

		event, err := e.storage.GetEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, err_storage.ErrEventNotFound) {
				httputils.WriteError(w, http.StatusNotFound, "event not found")
				return
			}

			zap.L().Error("error while loading event while deleting", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if event.ShopID.String() != authCtx.UserID.String() {
			httputils.WriteError(w, http.StatusForbidden, "event belongs to another shop")
			return
		}

		for _, image := range event.Images {
			if err := e.assets.Remove(ctx, image.ObjectID); err != nil {
				zap.L().Warn("error while removing event image", zap.Error(err))
			}
		}

		if err := e.storage.DeleteEvent(ctx, eventID); err != nil {
			zap.L().Error("error while deleting event", zap.Error(err))
			httputils.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httputils.WriteMessage(w, http.StatusOK, "event deleted successfully")
	}
}
