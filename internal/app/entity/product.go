package entity

import "time"

type ProductID string

func (id ProductID) String() string {
	return string(id)
}

func (id ProductID) Valid() bool {
	return len(id) != 0
}

type Review struct {
	UserID    UserID  `json:"user_id"`
	UserName  string  `json:"user_name"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	ProductID string  `json:"product_id"`
}

type Products []Product

type Product struct {
	ID            ProductID
	ShopID        ShopID
	Name          string
	Description   string
	Category      string
	Tags          string
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	SoldOut       int
	Images        []Image
	Reviews       []Review
	Rating        float64
	CreatedAt     time.Time
}

// UpsertReview replaces the caller's previous review if present and
// recomputes the average rating.
func (p *Product) UpsertReview(review Review) {
	replaced := false
	for i, existing := range p.Reviews {
		if existing.UserID == review.UserID {
			p.Reviews[i] = review
			replaced = true
			break
		}
	}

	if !replaced {
		p.Reviews = append(p.Reviews, review)
	}

	sum := 0.0
	for _, existing := range p.Reviews {
		sum += existing.Rating
	}
	p.Rating = sum / float64(len(p.Reviews))
}
