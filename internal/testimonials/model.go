package testimonials

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidAuthor is returned when the author name is missing
	ErrInvalidAuthor = errors.New("testimonial author is required")

	// ErrInvalidQuote is returned when the quote text is missing
	ErrInvalidQuote = errors.New("testimonial quote is required")

	// ErrInvalidRating is returned when the rating is outside 1..5
	ErrInvalidRating = errors.New("testimonial rating must be between 1 and 5")

	// ErrTestimonialNotFound is returned when a testimonial is not found
	ErrTestimonialNotFound = errors.New("testimonial not found")
)

// Testimonial is one customer quote shown on the public site.
type Testimonial struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Location    string    `json:"location"`
	ProjectName string    `json:"project_name"`
	Quote       string    `json:"quote"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the fields admin CRUD must supply.
func (t *Testimonial) Validate() error {
	if strings.TrimSpace(t.Author) == "" {
		return ErrInvalidAuthor
	}
	if strings.TrimSpace(t.Quote) == "" {
		return ErrInvalidQuote
	}
	if t.Rating < 1 || t.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
