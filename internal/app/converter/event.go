package converter

import (
	"fmt"
	"time"

	"github.com/golang-module/carbon/v2"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

func ConvertEventToPayload(event entity.Event) model.EventPayload {
	images := event.Images
	if images == nil {
		images = []entity.Image{}
	}

	return model.EventPayload{
		ID:            event.ID.String(),
		ShopID:        event.ShopID.String(),
		Name:          event.Name,
		Description:   event.Description,
		Category:      event.Category,
		Tags:          event.Tags,
		StartDate:     carbon.CreateFromStdTime(event.StartDate).ToRfc3339String(),
		FinishDate:    carbon.CreateFromStdTime(event.FinishDate).ToRfc3339String(),
		OriginalPrice: event.OriginalPrice,
		DiscountPrice: event.DiscountPrice,
		Stock:         event.Stock,
		Images:        images,
		CreatedAt:     carbon.CreateFromStdTime(event.CreatedAt).ToRfc3339String(),
	}
}

func ConvertEventsToPayload(events entity.Events) []model.EventPayload {
	payload := make([]model.EventPayload, 0, len(events))

	for _, event := range events {
		payload = append(payload, ConvertEventToPayload(event))
	}

	return payload
}

// ConvertCreateEventRequestDates parses the event window of a creation
// request and validates its ordering.
func ConvertCreateEventRequestDates(request model.CreateEventRequest) (start, finish time.Time, err error) {
	start, err = time.Parse(time.RFC3339, request.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("error while parsing event start date: %w", err)
	}

	finish, err = time.Parse(time.RFC3339, request.FinishDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("error while parsing event finish date: %w", err)
	}

	if !finish.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("event finish date must be after start date")
	}

	return start, finish, nil
}
