package models

import (
	"time"
)

type Listing struct {
	ID              int       `json:"id"`
	ExternalID      string    `json:"external_id"`
	Source          string    `json:"source"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Price           int       `json:"price"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       float64   `json:"bathrooms"`
	Neighborhood    string    `json:"neighborhood"`
	NeighborhoodNTA string    `json:"neighborhood_nta,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Address         string    `json:"address"`
	SqFt            *int      `json:"sqft,omitempty"`
	LaundryType     string    `json:"laundry_type,omitempty"`
	Amenities       []string  `json:"amenities"`
	Images          []string  `json:"images"`
	Description     string    `json:"description,omitempty"`
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	IsActive        bool      `json:"is_active"`

	// Derived server-side by joining against the favorites set. Never
	// mutated locally; a toggle round-trips through the API and reloads.
	IsFavorite bool `json:"is_favorite"`
}

func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type Favorite struct {
	ID        int       `json:"id"`
	ListingID int       `json:"listing_id"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Listing   Listing   `json:"listing"`
}

type Stats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	BySource map[string]int `json:"by_source"`
}
