package projects

import (
	"regexp"
	"strings"
)

// Status is the construction stage shown on listing cards.
type Status string

const (
	StatusReadyToMove       Status = "ready-to-move"
	StatusUnderConstruction Status = "under-construction"
	StatusNewLaunch         Status = "new-launch"
)

// Valid reports whether s is a known construction stage.
func (s Status) Valid() bool {
	switch s {
	case StatusReadyToMove, StatusUnderConstruction, StatusNewLaunch:
		return true
	}
	return false
}

// Configuration is one unit type offered inside a project.
type Configuration struct {
	BHK        string `json:"bhk"`
	CarpetArea string `json:"carpet_area"`
	Price      int64  `json:"price"`
}

// Project is a listed development. Flexible fields (configurations,
// amenities, USPs) have explicit typed shapes rather than open maps.
type Project struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	City            string          `json:"city"`
	MicroMarket     string          `json:"micro_market"`
	Address         string          `json:"address"`
	PropertyType    string          `json:"property_type"`
	PriceMin        int64           `json:"price_min"`
	PriceMax        int64           `json:"price_max"`
	Configurations  []Configuration `json:"configurations"`
	CarpetAreaRange string          `json:"carpet_area_range"`
	RERANumber      string          `json:"rera_number"`
	Builder         string          `json:"builder"`
	PossessionDate  string          `json:"possession_date"`
	Status          Status          `json:"status"`
	USPs            []string        `json:"usps"`
	Amenities       []string        `json:"amenities"`
	Images          []string        `json:"images"`
	Description     string          `json:"description"`
	MapEmbedURL     string          `json:"map_embed_url,omitempty"`
	Featured        bool            `json:"featured"`
}

// Validate checks the fields admin CRUD must supply.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.PriceMin < 0 || p.PriceMax < 0 || (p.PriceMax > 0 && p.PriceMax < p.PriceMin) {
		return ErrInvalidPriceRange
	}
	return nil
}

// ListFilter narrows public project listings.
type ListFilter struct {
	City         string
	PropertyType string
	Status       Status
	// MaxBudget keeps projects whose entry price fits the buyer's budget.
	MaxBudget int64
	// Query matches name, city or micro-market, case-insensitively.
	Query        string
	FeaturedOnly bool
}

// Matches reports whether the project passes the filter.
func (f ListFilter) Matches(p *Project) bool {
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.City != "" && !strings.EqualFold(f.City, p.City) {
		return false
	}
	if f.PropertyType != "" && !strings.EqualFold(f.PropertyType, p.PropertyType) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.MaxBudget > 0 && p.PriceMin > f.MaxBudget {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.City), q) &&
			!strings.Contains(strings.ToLower(p.MicroMarket), q) {
			return false
		}
	}
	return true
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a project name.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
