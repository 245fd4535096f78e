package entities

import (
	"time"

	"github.com/prestataires/backend/pkg/geo"
)

// Provider represents a service professional profile.
type Provider struct {
	ID         string           `json:"id" db:"id"`
	UserID     *string          `json:"user_id,omitempty" db:"user_id"`
	FirstName  string           `json:"first_name" db:"first_name"`
	LastName   string           `json:"last_name" db:"last_name"`
	Phone      string           `json:"phone" db:"phone"`
	PhotoURL   *string          `json:"photo_url,omitempty" db:"photo_url"`
	About      *string          `json:"about,omitempty" db:"about"`
	Categories []string         `json:"categories" db:"-"`
	City       string           `json:"city" db:"city"`
	Department string           `json:"department,omitempty" db:"department"`
	Location   *geo.Coordinates `json:"location,omitempty" db:"-"`
	Services   []Service        `json:"services" db:"-"`
	Ratings    []Rating         `json:"ratings" db:"-"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// Service represents a named, priced offering owned by a provider.
type Service struct {
	ID         string  `json:"id" db:"id"`
	ProviderID string  `json:"provider_id" db:"provider_id"`
	Name       string  `json:"name" db:"name"`
	Price      float64 `json:"price" db:"price"`
}

// IsComplete reports whether a service entry is worth persisting. Rows with
// an empty name or a non-positive price are edit-form leftovers.
func (s Service) IsComplete() bool {
	return s.Name != "" && s.Price > 0
}

// Rating is a 1-5 star score given by one user to one provider, unique per
// (provider, user) pair.
type Rating struct {
	ProviderID string    `json:"provider_id" db:"provider_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Stars      int       `json:"stars" db:"stars"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AverageRating returns the mean star score across the provider's ratings,
// or 0 when there are none.
func (p *Provider) AverageRating() float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r.Stars
	}
	return float64(sum) / float64(len(p.Ratings))
}

// HasCategory reports whether the provider carries the given category tag.
func (p *Provider) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
