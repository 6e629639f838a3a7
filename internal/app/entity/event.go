package entity

import "time"

type EventID string

func (id EventID) String() string {
	return string(id)
}

func (id EventID) Valid() bool {
	return len(id) != 0
}

type Events []Event

// Event is a time-limited listing published by a shop.
type Event struct {
	ID            EventID
	ShopID        ShopID
	Name          string
	Description   string
	Category      string
	Tags          string
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	Images        []Image
	StartDate     time.Time
	FinishDate    time.Time
	CreatedAt     time.Time
}
