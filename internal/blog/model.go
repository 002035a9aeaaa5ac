package blog

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidTitle is returned when the title is missing
	ErrInvalidTitle = errors.New("post title is required")

	// ErrPostNotFound is returned when a post is not found
	ErrPostNotFound = errors.New("post not found")
)

// Post is one published article.
type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CoverImage  string    `json:"cover_image"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// Validate checks the fields admin CRUD must supply.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a post title.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
